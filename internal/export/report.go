package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/epa-ghana/airview-cli/internal/aggregate"
	"github.com/epa-ghana/airview-cli/internal/model"
)

// Report bundles every table produced for one input file.
type Report struct {
	Label        string                     `json:"label"`
	Source       string                     `json:"source"`
	Records      int                        `json:"records"`
	Aggregates   []model.AggregateRow       `json:"aggregates"`
	Exceedances  []model.ExceedanceRow      `json:"exceedances"`
	AQI          []model.AQIRow             `json:"aqi"`
	Distribution []model.AQIDistributionRow `json:"aqi_distribution"`
	MinMax       []model.MinMaxRow          `json:"minmax"`
}

// Tables renders every report table: one per aggregation level, plus
// exceedances, AQI daily rows, the AQI category distribution and min/max.
func (r *Report) Tables() []Table {
	tables := make([]Table, 0, len(model.AggregateLevels)+4)
	for _, level := range model.AggregateLevels {
		tables = append(tables, AggregateTable(r.Label, level, r.Aggregates))
	}
	tables = append(tables,
		ExceedanceTable(r.Label, r.Exceedances),
		AQITable(r.Label, r.AQI),
		DistributionTable(r.Label, r.Distribution),
		MinMaxTable(r.Label, r.MinMax),
	)
	return tables
}

// Table returns a single named report table, or false when the name is
// unknown. Aggregate levels are addressed as "aggregates_<level>".
func (r *Report) Table(name string) (Table, bool) {
	for _, t := range r.Tables() {
		if strings.TrimPrefix(t.Name, r.Label+"_") == name {
			return t, true
		}
	}
	return Table{}, false
}

// AggregateTable renders one aggregation level wide: key columns, site, then
// one column per pollutant present at that level.
func AggregateTable(label string, level model.AggregateLevel, rows []model.AggregateRow) Table {
	pollutants := pollutantsAt(level, rows)

	type key struct {
		joined string
		site   string
	}
	var order []key
	merged := make(map[key]map[string]float64)
	keyValues := make(map[key][]string)

	for _, row := range rows {
		if row.Level != level {
			continue
		}
		k := key{strings.Join(row.Key, "\x1f"), row.Site}
		if merged[k] == nil {
			merged[k] = make(map[string]float64, len(pollutants))
			keyValues[k] = row.Key
			order = append(order, k)
		}
		merged[k][row.Pollutant] = row.Mean
	}

	columns := append(append([]string{}, aggregate.KeyColumns(level)...), "site")
	columns = append(columns, pollutants...)

	t := Table{Name: fmt.Sprintf("%s_aggregates_%s", label, level), Columns: columns}
	for _, k := range order {
		row := append(append([]string{}, keyValues[k]...), k.site)
		for _, p := range pollutants {
			if v, ok := merged[k][p]; ok {
				row = append(row, dec1(v))
			} else {
				row = append(row, "")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func pollutantsAt(level model.AggregateLevel, rows []model.AggregateRow) []string {
	seen := make(map[string]struct{})
	var pollutants []string
	for _, row := range rows {
		if row.Level != level {
			continue
		}
		if _, ok := seen[row.Pollutant]; !ok {
			seen[row.Pollutant] = struct{}{}
			pollutants = append(pollutants, row.Pollutant)
		}
	}
	return pollutants
}

// ExceedanceTable renders the per-year-site exceedance counts.
func ExceedanceTable(label string, rows []model.ExceedanceRow) Table {
	t := Table{
		Name: label + "_exceedances",
		Columns: []string{
			"year", "site", "total_days",
			"pm25_exceedance_count", "pm10_exceedance_count",
			"pm25_exceedance_percent", "pm10_exceedance_percent",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			itoa(r.Year), r.Site, itoa(r.TotalDays),
			itoa(r.PM25Count), itoa(r.PM10Count),
			dec1(r.PM25Percent), dec1(r.PM10Percent),
		})
	}
	return t
}

// AQITable renders the per-site-day AQI rows. The AQI column is an integer
// when defined; empty with remark "Unknown" otherwise.
func AQITable(label string, rows []model.AQIRow) Table {
	t := Table{
		Name:    label + "_aqi",
		Columns: []string{"site", "day", "year", "month", "pm25", "aqi", "remark"},
	}
	for _, r := range rows {
		index := ""
		if !math.IsNaN(r.AQI) {
			index = itoa(int(r.AQI))
		}
		t.Rows = append(t.Rows, []string{
			r.Site, r.Day, itoa(r.Year), r.Month, num(r.PM25), index, r.Remark,
		})
	}
	return t
}

// DistributionTable renders the percent-of-time-in-category summary.
func DistributionTable(label string, rows []model.AQIDistributionRow) Table {
	t := Table{
		Name:    label + "_aqi_distribution",
		Columns: []string{"site", "year", "remark", "count", "percent"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Site, itoa(r.Year), r.Remark, itoa(r.Count), dec1(r.Percent),
		})
	}
	return t
}

// MinMaxTable renders the daily-average extrema summary.
func MinMaxTable(label string, rows []model.MinMaxRow) Table {
	t := Table{
		Name: label + "_minmax",
		Columns: []string{
			"year", "site", "month",
			"daily_avg_pm10_max", "daily_avg_pm10_min",
			"daily_avg_pm25_max", "daily_avg_pm25_min",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			itoa(r.Year), r.Site, r.Month,
			dec1(r.PM10Max), dec1(r.PM10Min),
			dec1(r.PM25Max), dec1(r.PM25Min),
		})
	}
	return t
}
