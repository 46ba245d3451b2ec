// Package clean turns normalized tables into canonical records: it enforces
// the required-column contract, filters non-physical readings, applies the
// source correction formula, derives calendar features and enforces the
// per-site-month coverage rule.
package clean

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/epa-ghana/airview-cli/internal/ingest"
	"github.com/epa-ghana/airview-cli/internal/model"
	"github.com/epa-ghana/airview-cli/internal/source"
)

// MissingColumnsError rejects a file whose normalized header lacks required
// canonical columns. The batch continues with the remaining files.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Records converts a normalized, timestamp-parsed table into cleaned
// canonical records for the given source variant.
func Records(t *ingest.Table, cfg source.Config) ([]model.Record, error) {
	if missing := missingColumns(t, cfg); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	numeric := numericRequired(cfg)
	records := make([]model.Record, 0, len(t.Rows))
	var dropped int

	for row := range t.Rows {
		site := t.Cell(row, "site")
		if site == "" {
			dropped++
			continue
		}

		values := make(map[string]float64, len(numeric))
		ok := true
		for _, col := range numeric {
			v, err := strconv.ParseFloat(t.Cell(row, col), 64)
			if err != nil {
				ok = false
				break
			}
			values[col] = v
		}
		if !ok {
			dropped++
			continue
		}

		records = append(records, model.Record{
			Site:      site,
			Timestamp: t.Times[row],
			Values:    values,
		})
	}
	if dropped > 0 {
		zap.L().Debug("clean: dropped rows with missing required values",
			zap.Int("dropped", dropped),
		)
	}

	return Apply(records, cfg), nil
}

// Apply runs the value-level cleaning steps over records: positivity filter,
// correction formula, calendar derivation and the coverage rule. It is
// idempotent: running it on its own output yields identical records.
func Apply(records []model.Record, cfg source.Config) []model.Record {
	kept := records[:0:0]
	for _, rec := range records {
		if !physical(rec, cfg.Positive) {
			continue
		}
		if cfg.Correction != nil {
			rec.Values["corrected_pm25"] = cfg.Correction.Apply(
				rec.Values["pm25"], rec.Values["temp"], rec.Values["rh"])
		}
		deriveCalendar(&rec)
		kept = append(kept, rec)
	}
	return enforceCoverage(kept, cfg.CoverageMinDays)
}

// physical reports whether every listed channel present on the record is
// strictly positive. Channels the record does not carry are skipped.
func physical(rec model.Record, positive []string) bool {
	for _, col := range positive {
		if v, ok := rec.Values[col]; ok && v <= 0 {
			return false
		}
	}
	return true
}

func deriveCalendar(rec *model.Record) {
	ts := rec.Timestamp
	rec.Year = ts.Year()
	rec.Month = ts.Format("2006-01")
	rec.Quarter = fmt.Sprintf("%dQ%d", ts.Year(), (int(ts.Month())-1)/3+1)
	rec.Day = ts.Format("2006-01-02")
	rec.DayOfWeek = ts.Weekday().String()
	if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
		rec.WeekdayType = model.Weekend
	} else {
		rec.WeekdayType = model.Weekday
	}
	switch ts.Month() {
	case time.December, time.January, time.February:
		rec.Season = model.Harmattan
	default:
		rec.Season = model.NonHarmattan
	}
}

// enforceCoverage drops every (site, month) group observed on fewer than
// minDays distinct days. Sparse site-months are rejected outright rather
// than averaged over.
func enforceCoverage(records []model.Record, minDays int) []model.Record {
	if minDays <= 0 {
		return records
	}

	type group struct {
		site  string
		month string
	}
	days := make(map[group]map[string]struct{})
	for _, rec := range records {
		g := group{rec.Site, rec.Month}
		if days[g] == nil {
			days[g] = make(map[string]struct{})
		}
		days[g][rec.Day] = struct{}{}
	}

	var rejected []string
	kept := records[:0:0]
	for _, rec := range records {
		if len(days[group{rec.Site, rec.Month}]) >= minDays {
			kept = append(kept, rec)
		}
	}
	for g, d := range days {
		if len(d) < minDays {
			rejected = append(rejected, g.site+" "+g.month)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		zap.L().Info("clean: site-months below coverage threshold dropped",
			zap.Int("min_days", minDays),
			zap.Strings("groups", rejected),
		)
	}
	return kept
}

func missingColumns(t *ingest.Table, cfg source.Config) []string {
	var missing []string
	for _, col := range cfg.Required {
		if col == cfg.TimestampColumn {
			if t.TimeColumn != cfg.TimestampColumn {
				missing = append(missing, col)
			}
			continue
		}
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// numericRequired is every required column except the timestamp and site.
func numericRequired(cfg source.Config) []string {
	var cols []string
	for _, col := range cfg.Required {
		if col == cfg.TimestampColumn || col == "site" {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}
