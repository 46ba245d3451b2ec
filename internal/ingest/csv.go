package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadCSV reads a CSV file into a Table. The first row is the header.
// Rows may have a variable field count; short rows are kept and read as
// empty cells.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV reads CSV content from a reader into a Table.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("ingest: empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	t := &Table{Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}
