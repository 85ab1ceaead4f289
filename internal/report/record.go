package report

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/rickgao/ico-resolver/internal/model"
)

// FlagFalse marks a source that was consulted (or never reached) without a
// match.
const FlagFalse = "False"

// Record is one output row.
type Record struct {
	Dataset  string
	RowIndex int
	Symbol   string
	Name     string
	Flags    []string // One per source, cascade order
	Note     model.Note
}

// Report is the complete output of one run.
type Report struct {
	RunID   uuid.UUID
	Sources []string
	Records []Record
}

// New creates an empty report for the given cascade sources.
func New(runID uuid.UUID, sources []string) *Report {
	return &Report{RunID: runID, Sources: sources}
}

// Add appends a record. Its flags must line up with Sources.
func (r *Report) Add(rec Record) error {
	if len(rec.Flags) != len(r.Sources) {
		return fmt.Errorf("record %s[%d]: %d flags for %d sources", rec.Dataset, rec.RowIndex, len(rec.Flags), len(r.Sources))
	}
	r.Records = append(r.Records, rec)
	return nil
}

// Len returns the number of records.
func (r *Report) Len() int {
	return len(r.Records)
}

// Header returns the CSV header for the given sources.
func Header(sources []string) []string {
	h := make([]string, 0, len(sources)+5)
	h = append(h, "source_dataset", "row_index", "symbol", "name")
	for _, s := range sources {
		h = append(h, s+"_found")
	}
	return append(h, "note")
}

// AllFalse returns n "False" flags.
func AllFalse(n int) []string {
	flags := make([]string, n)
	for i := range flags {
		flags[i] = FlagFalse
	}
	return flags
}

// Values returns rec as a CSV row.
func (rec Record) Values() []string {
	v := make([]string, 0, len(rec.Flags)+5)
	v = append(v, rec.Dataset, strconv.Itoa(rec.RowIndex), rec.Symbol, rec.Name)
	v = append(v, rec.Flags...)
	return append(v, string(rec.Note))
}

// flagsJSON encodes the flags as {"source": "flag", ...}.
func flagsJSON(sources, flags []string) ([]byte, error) {
	m := make(map[string]string, len(sources))
	for i, s := range sources {
		m[s] = flags[i]
	}
	return json.Marshal(m)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validTable(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}
