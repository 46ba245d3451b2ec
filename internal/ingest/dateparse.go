package ingest

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// ParseTimestamps scans columns whose name contains "date" or "time"
// (case-insensitive) and tries the given layouts against their values. The
// first column with at least one parsable value wins: rows that fail to
// parse are dropped, survivors get their instant recorded in Times, and the
// column is adopted under the canonical name.
//
// Fails soft: when no column parses at all the table is returned unchanged
// and downstream validation rejects the file for the missing canonical
// timestamp column.
func ParseTimestamps(t *Table, canonical string, layouts []string) *Table {
	for i, col := range t.Columns {
		lower := strings.ToLower(col)
		if !strings.Contains(lower, "date") && !strings.Contains(lower, "time") {
			continue
		}

		parsed := tryColumn(t, i, layouts)
		if parsed == nil {
			continue
		}

		kept := &Table{
			Columns:    t.Columns,
			TimeColumn: canonical,
		}
		var dropped int
		for row, ts := range parsed {
			if ts.IsZero() {
				dropped++
				continue
			}
			kept.Rows = append(kept.Rows, t.Rows[row])
			kept.Times = append(kept.Times, ts)
		}
		if dropped > 0 {
			zap.L().Debug("ingest: dropped rows with unparseable timestamps",
				zap.String("column", col),
				zap.Int("dropped", dropped),
			)
		}
		return kept
	}
	return t
}

// tryColumn parses every value in column i, returning a slice parallel to
// the rows (zero time = unparseable), or nil when nothing parsed.
func tryColumn(t *Table, i int, layouts []string) []time.Time {
	parsed := make([]time.Time, len(t.Rows))
	var any bool
	for row := range t.Rows {
		if i >= len(t.Rows[row]) {
			continue
		}
		raw := strings.TrimSpace(t.Rows[row][i])
		if raw == "" {
			continue
		}
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				parsed[row] = ts
				any = true
				break
			}
		}
	}
	if !any {
		return nil
	}
	return parsed
}
