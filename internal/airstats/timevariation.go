package airstats

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// TimeVariationByMonth summarizes each metal per (site, calendar month).
func TimeVariationByMonth(records []model.MetalRecord) []model.TimeVariationRow {
	return timeVariation(records, func(r model.MetalRecord) string { return r.Month }, model.MonthNames)
}

// TimeVariationByDayOfWeek summarizes each metal per (site, day-of-week).
func TimeVariationByDayOfWeek(records []model.MetalRecord) []model.TimeVariationRow {
	return timeVariation(records, func(r model.MetalRecord) string { return r.DayOfWeek }, model.DayNames)
}

// timeVariation computes mean/median/sample-std of each metal grouped by
// site and a categorical calendar period, ordered site-first then by the
// period's categorical order.
func timeVariation(records []model.MetalRecord, period func(model.MetalRecord) string, order []string) []model.TimeVariationRow {
	type key struct {
		site   string
		period string
		metal  string
	}
	samples := make(map[key][]float64)
	for _, r := range records {
		p := period(r)
		for _, metal := range model.Metals {
			if v, ok := r.Values[metal]; ok && !math.IsNaN(v) {
				k := key{r.Site, p, metal}
				samples[k] = append(samples[k], v)
			}
		}
	}

	periodRank := make(map[string]int, len(order))
	for i, p := range order {
		periodRank[p] = i
	}
	metalRank := make(map[string]int, len(model.Metals))
	for i, m := range model.Metals {
		metalRank[m] = i
	}

	rows := make([]model.TimeVariationRow, 0, len(samples))
	for k, vals := range samples {
		mean, _ := stats.Mean(vals)
		med, _ := stats.Median(vals)
		std := math.NaN()
		if len(vals) > 1 {
			std, _ = stats.StandardDeviationSample(vals)
		}
		rows = append(rows, model.TimeVariationRow{
			Site:   k.site,
			Period: k.period,
			Metal:  k.metal,
			Mean:   mean,
			Median: med,
			Std:    std,
			Count:  len(vals),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Site != rows[j].Site {
			return rows[i].Site < rows[j].Site
		}
		if periodRank[rows[i].Period] != periodRank[rows[j].Period] {
			return periodRank[rows[i].Period] < periodRank[rows[j].Period]
		}
		return metalRank[rows[i].Metal] < metalRank[rows[j].Metal]
	})
	return rows
}
