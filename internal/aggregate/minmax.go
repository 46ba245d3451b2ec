package aggregate

import (
	"sort"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// MinMax reports the extrema of the daily averages per (year, site, month),
// independently for PM2.5 and PM10, rounded to one decimal.
func MinMax(dailies []model.DailyAverage) []model.MinMaxRow {
	type key struct {
		year  int
		site  string
		month string
	}
	groups := make(map[key]*model.MinMaxRow)

	for _, d := range dailies {
		k := key{d.Year, d.Site, d.Month}
		row, ok := groups[k]
		if !ok {
			groups[k] = &model.MinMaxRow{
				Year:    d.Year,
				Site:    d.Site,
				Month:   d.Month,
				PM10Max: d.PM10,
				PM10Min: d.PM10,
				PM25Max: d.PM25,
				PM25Min: d.PM25,
			}
			continue
		}
		if d.PM10 > row.PM10Max {
			row.PM10Max = d.PM10
		}
		if d.PM10 < row.PM10Min {
			row.PM10Min = d.PM10
		}
		if d.PM25 > row.PM25Max {
			row.PM25Max = d.PM25
		}
		if d.PM25 < row.PM25Min {
			row.PM25Min = d.PM25
		}
	}

	rows := make([]model.MinMaxRow, 0, len(groups))
	for _, row := range groups {
		row.PM10Max = Round1(row.PM10Max)
		row.PM10Min = Round1(row.PM10Min)
		row.PM25Max = Round1(row.PM25Max)
		row.PM25Min = Round1(row.PM25Min)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		if rows[i].Site != rows[j].Site {
			return rows[i].Site < rows[j].Site
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}
