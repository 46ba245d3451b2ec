package aggregate

import (
	"sort"

	"github.com/epa-ghana/airview-cli/internal/model"
	"github.com/epa-ghana/airview-cli/internal/source"
)

// Exceedances counts, per (year, site), the days whose daily average
// exceeds the guideline thresholds. Counts with no matching days are zero,
// never missing, and a site-year without observed days produces no row, so
// the percentage division is always defined.
func Exceedances(dailies []model.DailyAverage, thresholds source.Thresholds) []model.ExceedanceRow {
	type key struct {
		year int
		site string
	}
	type acc struct {
		total int
		pm25  int
		pm10  int
	}
	groups := make(map[key]*acc)

	for _, d := range dailies {
		k := key{d.Year, d.Site}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.total++
		if d.PM25 > thresholds.PM25 {
			a.pm25++
		}
		if d.PM10 > thresholds.PM10 {
			a.pm10++
		}
	}

	rows := make([]model.ExceedanceRow, 0, len(groups))
	for k, a := range groups {
		if a.total == 0 {
			continue
		}
		rows = append(rows, model.ExceedanceRow{
			Year:        k.year,
			Site:        k.site,
			TotalDays:   a.total,
			PM25Count:   a.pm25,
			PM10Count:   a.pm10,
			PM25Percent: Round1(float64(a.pm25) / float64(a.total) * 100),
			PM10Percent: Round1(float64(a.pm10) / float64(a.total) * 100),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Site < rows[j].Site
	})
	return rows
}
