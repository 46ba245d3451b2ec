// Package aqi converts PM2.5 concentrations to Air Quality Index values via
// piecewise-linear breakpoint interpolation, and summarizes how often each
// site-year spends in each category.
package aqi

import (
	"math"
	"sort"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// Breakpoint is one band of the concentration-to-index mapping. Bands are
// closed intervals: a concentration equal to a shared boundary resolves to
// the lower band, which is checked first.
type Breakpoint struct {
	ConcLow   float64 `yaml:"conc_low"`
	ConcHigh  float64 `yaml:"conc_high"`
	IndexLow  int     `yaml:"index_low"`
	IndexHigh int     `yaml:"index_high"`
}

// DefaultBreakpoints is the seven-band PM2.5 table. The last band has no
// practical upper bound.
var DefaultBreakpoints = []Breakpoint{
	{0.0, 9.0, 0, 50},
	{9.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 125.4, 151, 200},
	{125.5, 225.4, 201, 300},
	{225.5, 325.4, 301, 500},
	{325.5, 99999.9, 501, 999},
}

// Engine computes AQI values against a breakpoint table.
type Engine struct {
	breakpoints []Breakpoint
}

// NewEngine returns an Engine over the given table, or the default table
// when nil.
func NewEngine(breakpoints []Breakpoint) *Engine {
	if breakpoints == nil {
		breakpoints = DefaultBreakpoints
	}
	return &Engine{breakpoints: breakpoints}
}

// Compute maps a concentration to its index. Concentrations outside every
// band (negative values, or values landing in a gap between bands) yield NaN.
func (e *Engine) Compute(conc float64) float64 {
	if math.IsNaN(conc) {
		return math.NaN()
	}
	for _, bp := range e.breakpoints {
		if conc >= bp.ConcLow && conc <= bp.ConcHigh {
			span := bp.ConcHigh - bp.ConcLow
			if span == 0 {
				return float64(bp.IndexLow)
			}
			return math.Round((conc-bp.ConcLow)*float64(bp.IndexHigh-bp.IndexLow)/span + float64(bp.IndexLow))
		}
	}
	return math.NaN()
}

// Category labels an index value by descending threshold checks. NaN and
// negative values are "Unknown".
func Category(index float64) string {
	switch {
	case index > 300:
		return "Hazardous"
	case index > 200:
		return "Very Unhealthy"
	case index > 150:
		return "Unhealthy"
	case index > 100:
		return "Unhealthy for Sensitive Groups"
	case index > 50:
		return "Moderate"
	case index >= 0:
		return "Good"
	default:
		return "Unknown"
	}
}

// Annotate computes the AQI and category for each daily average.
func (e *Engine) Annotate(dailies []model.DailyAverage) []model.AQIRow {
	rows := make([]model.AQIRow, 0, len(dailies))
	for _, d := range dailies {
		index := e.Compute(d.PM25)
		rows = append(rows, model.AQIRow{
			Site:   d.Site,
			Day:    d.Day,
			Year:   d.Year,
			Month:  d.Month,
			PM25:   d.PM25,
			AQI:    index,
			Remark: Category(index),
		})
	}
	return rows
}

// Distribution counts AQI categories per site and year and expresses each as
// a percentage of that site-year's days, rounded to one decimal. Site-years
// with no rows produce nothing, so the division is always defined.
func Distribution(rows []model.AQIRow) []model.AQIDistributionRow {
	type key struct {
		site   string
		year   int
		remark string
	}
	type syKey struct {
		site string
		year int
	}
	counts := make(map[key]int)
	syTotals := make(map[syKey]int)

	for _, r := range rows {
		counts[key{r.Site, r.Year, r.Remark}]++
		syTotals[syKey{r.Site, r.Year}]++
	}

	out := make([]model.AQIDistributionRow, 0, len(counts))
	for k, n := range counts {
		total := syTotals[syKey{k.site, k.year}]
		if total == 0 {
			continue
		}
		out = append(out, model.AQIDistributionRow{
			Site:    k.site,
			Year:    k.year,
			Remark:  k.remark,
			Count:   n,
			Percent: math.Round(float64(n)/float64(total)*1000) / 10,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Site != out[j].Site {
			return out[i].Site < out[j].Site
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Remark < out[j].Remark
	})
	return out
}
