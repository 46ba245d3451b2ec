package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// Dailies collapses sub-daily readings to one row per (site, day),
// averaging the effective PM2.5 input column and pm10. Records missing the
// input column contribute nothing to that day's PM2.5 mean.
func Dailies(records []model.Record, pm25Input string) []model.DailyAverage {
	type key struct {
		site string
		day  string
	}
	type acc struct {
		year  int
		month string
		pm25  []float64
		pm10  []float64
	}
	groups := make(map[key]*acc)

	for _, rec := range records {
		k := key{rec.Site, rec.Day}
		a, ok := groups[k]
		if !ok {
			a = &acc{year: rec.Year, month: rec.Month}
			groups[k] = a
		}
		if v, ok := rec.Values[pm25Input]; ok {
			a.pm25 = append(a.pm25, v)
		}
		if v, ok := rec.Values["pm10"]; ok {
			a.pm10 = append(a.pm10, v)
		}
	}

	dailies := make([]model.DailyAverage, 0, len(groups))
	for k, a := range groups {
		d := model.DailyAverage{
			Site:  k.site,
			Day:   k.day,
			Year:  a.year,
			Month: a.month,
		}
		if len(a.pm25) > 0 {
			d.PM25 = stat.Mean(a.pm25, nil)
		}
		if len(a.pm10) > 0 {
			d.PM10 = stat.Mean(a.pm10, nil)
		}
		dailies = append(dailies, d)
	}

	sort.Slice(dailies, func(i, j int) bool {
		if dailies[i].Site != dailies[j].Site {
			return dailies[i].Site < dailies[j].Site
		}
		return dailies[i].Day < dailies[j].Day
	})
	return dailies
}
