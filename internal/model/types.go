package model

import "fmt"

// -----------------------------------------------------------------------------
// Queries
// -----------------------------------------------------------------------------

// TokenQuery is one unit of resolution work, built from a single input row.
type TokenQuery struct {
	Symbol   string // Raw symbol cell ("" when absent)
	Name     string // Raw name cell ("" when absent)
	Dataset  string // Source dataset label (e.g., "zenodo_fahlenbrach")
	RowIndex int    // Zero-based data row index within the dataset
}

// String returns a short description for log lines.
func (q TokenQuery) String() string {
	return fmt.Sprintf("%s[%d] %q/%q", q.Dataset, q.RowIndex, q.Symbol, q.Name)
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// Method records which lookup path produced a result.
type Method string

const (
	MethodSymbol       Method = "symbol"
	MethodName         Method = "name"
	MethodSearch       Method = "search"
	MethodNameFuzzy    Method = "name_fuzzy"
	MethodSymbolExact  Method = "symbol_exact"
	MethodSymbolSearch Method = "symbol_search"
	MethodNone         Method = "none"
	MethodNoAPIKey     Method = "no_api_key"
	MethodDisabled     Method = "disabled"
)

// Status is the tagged outcome of a single resolver invocation.
type Status int

const (
	// StatusNotFound is a clean negative: the catalog answered and had no match.
	StatusNotFound Status = iota
	// StatusFound means the catalog holds a matching entry.
	StatusFound
	// StatusSkipped means the resolver is disabled by missing credentials.
	StatusSkipped
	// StatusError means the lookup failed part way (network, status, decoding).
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not_found"
	case StatusFound:
		return "found"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Match identifies the catalog entry a query resolved to.
type Match struct {
	ID     string
	Symbol string
	Name   string
	URL    string // Only some catalogs expose a project URL
}

// Result is what a resolver returns for one query.
type Result struct {
	Status Status
	Method Method
	Match  Match
	Detail string // Free-form reason for a miss (e.g., "http_403")
	Err    error  // Cause when Status is StatusError
}

// IsFound reports whether the result carries a match.
func (r Result) IsFound() bool {
	return r.Status == StatusFound
}

// Hit builds a found result.
func Hit(method Method, m Match) Result {
	return Result{Status: StatusFound, Method: method, Match: m}
}

// Miss builds a clean not-found result.
func Miss() Result {
	return Result{Status: StatusNotFound, Method: MethodNone}
}

// MissWithDetail builds a not-found result carrying a reason.
func MissWithDetail(detail string) Result {
	return Result{Status: StatusNotFound, Method: MethodNone, Detail: detail}
}

// Skip builds a result for a resolver disabled by configuration.
func Skip(method Method) Result {
	return Result{Status: StatusSkipped, Method: method}
}

// Fail builds a transient error result.
func Fail(err error) Result {
	return Result{Status: StatusError, Method: MethodNone, Err: err}
}

// -----------------------------------------------------------------------------
// Report notes
// -----------------------------------------------------------------------------

// Note explains why a row ended up in the unresolved report.
type Note string

const (
	NoteMissingSymbol    Note = "missing_symbol"
	NoteNotFoundAnywhere Note = "not_found_anywhere"
)
