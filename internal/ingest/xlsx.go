package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads the first sheet of an XLSX workbook into a Table. The first
// row is the header.
func ReadXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	return firstSheet(f)
}

// ParseXLSX reads an in-memory XLSX workbook, as received from an upload.
func ParseXLSX(raw []byte) (*Table, error) {
	f, err := xlsx.OpenBinary(raw)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	return firstSheet(f)
}

func firstSheet(f *xlsx.File) (*Table, error) {
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	t := &Table{}
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			t.Columns = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if len(t.Columns) == 0 {
		return nil, eris.New("ingest: xlsx sheet has no header row")
	}

	return t, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = strings.TrimSpace(cell.String())
	}
	return cells
}
