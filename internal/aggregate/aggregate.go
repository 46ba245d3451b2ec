// Package aggregate groups cleaned records by time bucket and site and
// computes the report tables: grouped means, daily averages, exceedance
// counts and min/max summaries.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// keyFunc extracts the non-site grouping key values for one level.
type keyFunc func(model.Record) []string

var levelKeys = map[model.AggregateLevel]keyFunc{
	model.LevelDay:         func(r model.Record) []string { return []string{r.Day} },
	model.LevelMonth:       func(r model.Record) []string { return []string{r.Month} },
	model.LevelQuarter:     func(r model.Record) []string { return []string{r.Quarter} },
	model.LevelYear:        func(r model.Record) []string { return []string{fmt.Sprintf("%d", r.Year)} },
	model.LevelDayOfWeek:   func(r model.Record) []string { return []string{r.DayOfWeek} },
	model.LevelWeekdayType: func(r model.Record) []string { return []string{string(r.WeekdayType)} },
	model.LevelSeason:      func(r model.Record) []string { return []string{fmt.Sprintf("%d", r.Year), string(r.Season)} },
}

// KeyColumns names the key columns a level contributes to its report table.
func KeyColumns(level model.AggregateLevel) []string {
	if level == model.LevelSeason {
		return []string{"year", "season"}
	}
	return []string{string(level)}
}

// Means computes, for every grouping level × site × pollutant, the
// arithmetic mean rounded to one decimal. Pollutant columns absent from the
// records are skipped. Output order is deterministic (level, key, site,
// pollutant) but the result set itself does not depend on grouping order.
func Means(records []model.Record, pollutants []string) []model.AggregateRow {
	var rows []model.AggregateRow
	for _, level := range model.AggregateLevels {
		rows = append(rows, MeansAt(level, records, pollutants)...)
	}
	return rows
}

// MeansAt computes the grouped means for a single level.
func MeansAt(level model.AggregateLevel, records []model.Record, pollutants []string) []model.AggregateRow {
	extract := levelKeys[level]

	type group struct {
		key       string
		site      string
		pollutant string
	}
	samples := make(map[group][]float64)
	keys := make(map[string][]string)

	for _, rec := range records {
		key := extract(rec)
		joined := strings.Join(key, "\x1f")
		keys[joined] = key
		for _, p := range pollutants {
			v, ok := rec.Values[p]
			if !ok {
				continue
			}
			g := group{joined, rec.Site, p}
			samples[g] = append(samples[g], v)
		}
	}

	rows := make([]model.AggregateRow, 0, len(samples))
	for g, vals := range samples {
		rows = append(rows, model.AggregateRow{
			Level:     level,
			Key:       keys[g.key],
			Site:      g.site,
			Pollutant: g.pollutant,
			Mean:      Round1(stat.Mean(vals, nil)),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		ki, kj := strings.Join(rows[i].Key, "\x1f"), strings.Join(rows[j].Key, "\x1f")
		if ki != kj {
			return ki < kj
		}
		if rows[i].Site != rows[j].Site {
			return rows[i].Site < rows[j].Site
		}
		return rows[i].Pollutant < rows[j].Pollutant
	})
	return rows
}

// Round1 rounds to one decimal place, the precision every report table uses.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
