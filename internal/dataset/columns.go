package dataset

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Candidate headers per field, highest priority first.
var (
	SymbolColumns = []string{"symbol_std", "symbol", "ticker", "ticker_symbol", "ticker symbol"}
	NameColumns   = []string{"name_std", "name", "project name", "project_name", "ico_name"}
)

// FallbackColumn is used for either field when none of its candidates exist.
const FallbackColumn = "coin_ticker"

// Columns names the detected symbol and name headers. An empty string means
// the field has no column.
type Columns struct {
	Symbol string
	Name   string
}

// NormalizeHeader trims and lowercases a header cell.
func NormalizeHeader(h string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(h))
}

// Pick returns the first candidate present in header. header must already be
// normalized.
func Pick(header []string, candidates []string) (string, bool) {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, c := range candidates {
		if present[c] {
			return c, true
		}
	}
	return "", false
}

// DetectColumns picks the symbol and name columns from a normalized header.
func DetectColumns(header []string) Columns {
	var cols Columns
	cols.Symbol, _ = Pick(header, SymbolColumns)
	cols.Name, _ = Pick(header, NameColumns)

	if cols.Symbol == "" || cols.Name == "" {
		if fb, ok := Pick(header, []string{FallbackColumn}); ok {
			if cols.Symbol == "" {
				cols.Symbol = fb
			}
			if cols.Name == "" {
				cols.Name = fb
			}
		}
	}
	return cols
}
