// Package export renders report rows as CSV tables and writes an analysis
// run's outputs, manifest included, to a directory.
package export

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
)

// Table is one report as ordered columns and stringified cells, ready for
// CSV download or JSON rendering.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// WriteCSV writes the table as UTF-8 comma-separated values with a header
// row into dir, named <name>.csv.
func (t Table) WriteCSV(dir string) error {
	path := filepath.Join(dir, t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv")
	}
	defer f.Close()

	return t.Encode(f)
}

// Encode streams the table as CSV, header row first.
func (t Table) Encode(out io.Writer) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(t.Columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// dec1 formats a one-decimal report value; NaN renders empty.
func dec1(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// num formats an unrounded value at full precision; NaN renders empty.
func num(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
