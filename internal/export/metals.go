package export

import (
	"strconv"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// MetalsReport bundles the statistical comparator outputs for one file.
type MetalsReport struct {
	Label        string                    `json:"label"`
	Records      int                       `json:"records"`
	Correlations []model.CorrelationMatrix `json:"correlations"`
	Kruskal      []model.KruskalResult     `json:"kruskal_wallis"`
	ByMonth      []model.TimeVariationRow  `json:"time_variation_month"`
	ByDayOfWeek  []model.TimeVariationRow  `json:"time_variation_dayofweek"`
}

// Tables renders the comparator tables.
func (r *MetalsReport) Tables() []Table {
	return []Table{
		CorrelationTable(r.Label, r.Correlations),
		KruskalTable(r.Label, r.Kruskal),
		TimeVariationTable(r.Label+"_timevariation_month", "month", r.ByMonth),
		TimeVariationTable(r.Label+"_timevariation_dayofweek", "dayofweek", r.ByDayOfWeek),
	}
}

// CorrelationTable renders the per-site matrices long-form: one row per
// (site, metal pair).
func CorrelationTable(label string, matrices []model.CorrelationMatrix) Table {
	t := Table{
		Name:    label + "_correlation",
		Columns: []string{"site", "metal_a", "metal_b", "pearson_r"},
	}
	for _, m := range matrices {
		for i, a := range m.Metals {
			for j, b := range m.Metals {
				t.Rows = append(t.Rows, []string{m.Site, a, b, stat3(m.Cells[i][j])})
			}
		}
	}
	return t
}

// KruskalTable renders one row per (metal, site): the shared test outcome
// and that site's bootstrap interval.
func KruskalTable(label string, results []model.KruskalResult) Table {
	t := Table{
		Name: label + "_kruskal",
		Columns: []string{
			"metal", "statistic", "p_value", "df",
			"site", "median", "ci_lower", "ci_upper",
		},
	}
	for _, r := range results {
		for _, ci := range r.Intervals {
			t.Rows = append(t.Rows, []string{
				r.Metal, stat3(r.Statistic), pval(r.PValue), itoa(r.DF),
				ci.Site, stat3(ci.Median), stat3(ci.Lower), stat3(ci.Upper),
			})
		}
	}
	return t
}

// TimeVariationTable renders the month or day-of-week summary series.
func TimeVariationTable(name, period string, rows []model.TimeVariationRow) Table {
	t := Table{
		Name:    name,
		Columns: []string{"site", period, "metal", "mean", "median", "std", "count"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Site, r.Period, r.Metal,
			stat3(r.Mean), stat3(r.Median), stat3(r.Std), itoa(r.Count),
		})
	}
	return t
}

// stat3 formats statistical values at three decimals, the original
// analysis's display precision for metal summaries.
func stat3(v float64) string {
	if v != v { // NaN
		return ""
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func pval(v float64) string {
	if v != v {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
