package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the comparison key for s: trimmed, lowercased with full
// Unicode case mapping, and stripped of every byte outside [a-z0-9].
// The empty string maps to itself. Normalize is idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// A Caser holds state, so each call gets its own.
	lower := cases.Lower(language.Und).String(s)

	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Equal reports whether a and b share a normalized key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
