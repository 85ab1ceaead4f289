package textmatch

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the longest-matching-blocks ratio of a and b in [0, 1].
//
// Two empty strings are identical (1.0). The pair is always evaluated in
// lexicographic order, which makes the score symmetric; the underlying
// matcher's junk heuristic otherwise depends on argument order.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a > b {
		a, b = b, a
	}
	m := difflib.NewMatcher(chars(a), chars(b))
	return m.Ratio()
}

// NormalizedSimilarity normalizes both inputs before scoring them.
func NormalizedSimilarity(a, b string) float64 {
	return Similarity(Normalize(a), Normalize(b))
}

// chars splits s into one-element strings, the sequence unit difflib works on.
func chars(s string) []string {
	return strings.Split(s, "")
}

// Best returns the index of the candidate whose key is most similar to target,
// along with its score. Ties keep the earliest candidate. It returns -1 when
// candidates is empty.
func Best[T any](target string, candidates []T, key func(T) string) (int, float64) {
	best, bestScore := -1, -1.0
	for i, c := range candidates {
		score := Similarity(target, Normalize(key(c)))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestScore
}
