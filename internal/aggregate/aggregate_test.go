package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epa-ghana/airview-cli/internal/model"
	"github.com/epa-ghana/airview-cli/internal/source"
)

func rec(site string, ts time.Time, values map[string]float64) model.Record {
	r := model.Record{Site: site, Timestamp: ts, Values: values}
	r.Year = ts.Year()
	r.Month = ts.Format("2006-01")
	r.Quarter = "2023Q1"
	r.Day = ts.Format("2006-01-02")
	r.DayOfWeek = ts.Weekday().String()
	r.WeekdayType = model.Weekday
	r.Season = model.Harmattan
	return r
}

func TestMeansAt_Month(t *testing.T) {
	jan5 := time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC)
	jan6 := time.Date(2023, 1, 6, 8, 0, 0, 0, time.UTC)

	records := []model.Record{
		rec("Tema", jan5, map[string]float64{"pm25": 10, "pm10": 40}),
		rec("Tema", jan6, map[string]float64{"pm25": 20, "pm10": 50}),
		rec("Achimota", jan5, map[string]float64{"pm25": 33.33}),
	}

	rows := MeansAt(model.LevelMonth, records, []string{"pm25", "pm10"})
	require.Len(t, rows, 3)

	byKey := make(map[string]float64)
	for _, r := range rows {
		assert.Equal(t, []string{"2023-01"}, r.Key)
		byKey[r.Site+"/"+r.Pollutant] = r.Mean
	}
	assert.Equal(t, 15.0, byKey["Tema/pm25"])
	assert.Equal(t, 45.0, byKey["Tema/pm10"])
	// Rounded to one decimal.
	assert.Equal(t, 33.3, byKey["Achimota/pm25"])
}

func TestMeansAt_SeasonKeyedByYear(t *testing.T) {
	dec := rec("Tema", time.Date(2022, 12, 15, 0, 0, 0, 0, time.UTC), map[string]float64{"pm25": 10})
	jan := rec("Tema", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), map[string]float64{"pm25": 30})
	dec.Year, jan.Year = 2022, 2023

	// December 2022 and January 2023 are both Harmattan but belong to
	// different season groups.
	rows := MeansAt(model.LevelSeason, []model.Record{dec, jan}, []string{"pm25"})
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2022", "Harmattan"}, rows[0].Key)
	assert.Equal(t, []string{"2023", "Harmattan"}, rows[1].Key)
}

func TestMeans_AllLevelsPresent(t *testing.T) {
	records := []model.Record{
		rec("Tema", time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC), map[string]float64{"pm25": 10}),
	}

	rows := Means(records, []string{"pm25"})
	levels := make(map[model.AggregateLevel]int)
	for _, r := range rows {
		levels[r.Level]++
	}
	// One record, one site, one pollutant: exactly one row per level.
	require.Len(t, levels, len(model.AggregateLevels))
	for _, level := range model.AggregateLevels {
		assert.Equal(t, 1, levels[level], "level %s", level)
	}
}

func TestDailies(t *testing.T) {
	morning := rec("Tema", time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC),
		map[string]float64{"corrected_pm25": 10, "pm10": 40})
	evening := rec("Tema", time.Date(2023, 1, 5, 20, 0, 0, 0, time.UTC),
		map[string]float64{"corrected_pm25": 30, "pm10": 60})

	dailies := Dailies([]model.Record{morning, evening}, "corrected_pm25")
	require.Len(t, dailies, 1)
	assert.Equal(t, "Tema", dailies[0].Site)
	assert.Equal(t, "2023-01-05", dailies[0].Day)
	assert.Equal(t, 20.0, dailies[0].PM25)
	assert.Equal(t, 50.0, dailies[0].PM10)
}

func TestExceedances(t *testing.T) {
	thresholds := source.Thresholds{PM25: 35, PM10: 70}

	var dailies []model.DailyAverage
	for i := 0; i < 10; i++ {
		d := model.DailyAverage{Site: "Tema", Year: 2023, Day: "2023-01-05", PM25: 20, PM10: 50}
		if i < 3 {
			d.PM25 = 40 // 3 of 10 days exceed the PM2.5 guideline
		}
		dailies = append(dailies, d)
	}

	rows := Exceedances(dailies, thresholds)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].TotalDays)
	assert.Equal(t, 3, rows[0].PM25Count)
	assert.Equal(t, 0, rows[0].PM10Count)
	assert.Equal(t, 30.0, rows[0].PM25Percent)
	assert.Equal(t, 0.0, rows[0].PM10Percent)
}

func TestExceedances_ThresholdIsNotAnExceedance(t *testing.T) {
	rows := Exceedances([]model.DailyAverage{
		{Site: "Tema", Year: 2023, PM25: 35, PM10: 70},
	}, source.Thresholds{PM25: 35, PM10: 70})
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].PM25Count)
	assert.Equal(t, 0, rows[0].PM10Count)
}

func TestMinMax(t *testing.T) {
	dailies := []model.DailyAverage{
		{Site: "Tema", Year: 2023, Month: "2023-01", PM25: 10.04, PM10: 40},
		{Site: "Tema", Year: 2023, Month: "2023-01", PM25: 30, PM10: 60},
		{Site: "Tema", Year: 2023, Month: "2023-02", PM25: 5, PM10: 20},
	}

	rows := MinMax(dailies)
	require.Len(t, rows, 2)

	jan := rows[0]
	assert.Equal(t, "2023-01", jan.Month)
	assert.Equal(t, 30.0, jan.PM25Max)
	assert.Equal(t, 10.0, jan.PM25Min) // rounded
	assert.Equal(t, 60.0, jan.PM10Max)
	assert.Equal(t, 40.0, jan.PM10Min)

	feb := rows[1]
	assert.Equal(t, 5.0, feb.PM25Max)
	assert.Equal(t, 5.0, feb.PM25Min)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 1.5, Round1(1.45000001))
	assert.Equal(t, 1.4, Round1(1.44))
	assert.Equal(t, -1.4, Round1(-1.44))
}
