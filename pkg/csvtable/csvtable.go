package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTooShort means the file lacks a header row or any data row
var ErrTooShort = errors.New("csv needs a header row and at least one data row")

// Table is a parsed CSV file: a header row plus data rows of any width
type Table struct {
	Headers []string
	Rows    [][]string
}

// Read parses r as UTF-8 CSV. A leading BOM is dropped, header cells are
// trimmed and rows whose cells are all blank are skipped.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	var kept [][]string
	for _, rec := range records {
		if !blank(rec) {
			kept = append(kept, rec)
		}
	}
	if len(kept) < 2 {
		return nil, ErrTooShort
	}

	headers := make([]string, len(kept[0]))
	for i, h := range kept[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers[i] = strings.TrimSpace(h)
	}
	return &Table{Headers: headers, Rows: kept[1:]}, nil
}

// Index returns the column of header name, or -1
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value of column col in row, or "" when the row
// is shorter
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Record maps every header to its trimmed cell in row
func (t *Table) Record(row []string) map[string]string {
	out := make(map[string]string, len(t.Headers))
	for i, h := range t.Headers {
		out[h] = Cell(row, i)
	}
	return out
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
