package clean

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/epa-ghana/airview-cli/internal/ingest"
	"github.com/epa-ghana/airview-cli/internal/model"
	"github.com/epa-ghana/airview-cli/internal/source"
)

// metalIdentity is the only hard column contract for heavy-metal files.
// The species columns are optional: an absent metal is skipped for that
// file, not a reason to reject it.
func metalIdentity() []string {
	return []string{"date", "site", "id"}
}

// MetalRecords converts a normalized heavy-metal table into cleaned assay
// records. Rows with unparseable dates are dropped; a metal value that fails
// to parse is left absent from that record rather than discarding the row,
// so one bad species does not cost the others. Metals whose columns are
// absent from the file entirely are skipped with a warning.
func MetalRecords(t *ingest.Table) ([]model.MetalRecord, error) {
	var missing []string
	for _, col := range metalIdentity() {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var absent []string
	for _, metal := range model.Metals {
		if !t.HasColumn(metal) {
			absent = append(absent, metal)
		}
	}
	if len(absent) > 0 {
		zap.L().Warn("clean: metal columns absent from file, species skipped",
			zap.Strings("metals", absent),
		)
	}

	records := make([]model.MetalRecord, 0, len(t.Rows))
	var badDates int
	for row := range t.Rows {
		date, ok := parseDayFirst(t.Cell(row, "date"))
		if !ok {
			badDates++
			continue
		}

		rec := model.MetalRecord{
			Site:      t.Cell(row, "site"),
			SampleID:  t.Cell(row, "id"),
			Date:      date,
			Values:    make(map[string]float64, len(model.Metals)),
			Errors:    make(map[string]float64, len(model.Metals)),
			Year:      date.Year(),
			Month:     date.Format("Jan"),
			DayOfWeek: date.Weekday().String(),
		}
		if rec.Site == "" {
			continue
		}

		for _, metal := range model.Metals {
			if v, err := strconv.ParseFloat(t.Cell(row, metal), 64); err == nil {
				rec.Values[metal] = v
			}
			if v, err := strconv.ParseFloat(t.Cell(row, metal+"_error"), 64); err == nil {
				rec.Errors[metal] = v
			}
		}
		records = append(records, rec)
	}
	if badDates > 0 {
		zap.L().Debug("clean: dropped metal rows with unparseable dates",
			zap.Int("dropped", badDates),
		)
	}

	return records, nil
}

func parseDayFirst(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range source.MetalLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
