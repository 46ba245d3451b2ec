// Package ingest reads sensor exports (CSV, XLSX) into string tables and
// prepares them for cleaning: header normalization and timestamp detection.
package ingest

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Table is a raw tabular file: a header row and string cells. After
// ParseTimestamps succeeds, Times holds the parsed instant for each row and
// TimeColumn the canonical name it was stored under.
type Table struct {
	Columns    []string
	Rows       [][]string
	Times      []time.Time
	TimeColumn string
}

// ColumnIndex returns the position of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column is present.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the trimmed cell value for a row and column name; the empty
// string when the column is absent or the row is short.
func (t *Table) Cell(row int, name string) string {
	i := t.ColumnIndex(name)
	if i < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// ReadFile reads a CSV or XLSX export, dispatching on the file extension.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}
