package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/rickgao/ico-resolver/internal/model"
)

// Dataset labels for the three research inputs.
const (
	Zenodo = "zenodo_fahlenbrach"
	ICPSR  = "icpsr_villanueva"
	Kaggle = "kaggle_yanmaksi"
)

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("no header row")

// naValues are the cell values read as missing.
var naValues = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "-NaN": true, "-nan": true,
	"1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsNA reports whether a raw cell counts as a missing value.
func IsNA(cell string) bool {
	return naValues[cell]
}

// Table is one loaded input file.
type Table struct {
	Name    string
	Header  []string // Normalized header cells
	Rows    [][]string
	Columns Columns
}

// Load reads the CSV at path.
func Load(name, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", name, err)
	}
	defer f.Close()

	t, err := Read(name, f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s (%s): %w", name, path, err)
	}
	return t, nil
}

// Read parses CSV from r.
func Read(name string, r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Name: name, Header: make([]string, len(header))}
	for i, h := range header {
		t.Header[i] = NormalizeHeader(h)
	}
	t.Columns = DetectColumns(t.Header)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows), err)
		}
		if len(rec) > len(t.Header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(t.Header), len(rec))
		}
		for len(rec) < len(t.Header) {
			rec = append(rec, "")
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the cell in column col of row i, or "" when the column is
// absent or the cell is an NA marker.
func (t *Table) Value(i int, col string) string {
	return t.cell(i, t.index(col))
}

// Queries builds one token query per data row in file order.
func (t *Table) Queries() []model.TokenQuery {
	symCol := t.index(t.Columns.Symbol)
	nameCol := t.index(t.Columns.Name)

	out := make([]model.TokenQuery, len(t.Rows))
	for i := range t.Rows {
		out[i] = model.TokenQuery{
			Symbol:   t.cell(i, symCol),
			Name:     t.cell(i, nameCol),
			Dataset:  t.Name,
			RowIndex: i,
		}
	}
	return out
}

func (t *Table) index(col string) int {
	if col == "" {
		return -1
	}
	for j, h := range t.Header {
		if h == col {
			return j
		}
	}
	return -1
}

func (t *Table) cell(i, j int) string {
	if j < 0 {
		return ""
	}
	if v := t.Rows[i][j]; !IsNA(v) {
		return v
	}
	return ""
}
