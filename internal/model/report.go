package model

// AggregateLevel names one of the seven temporal grouping levels.
type AggregateLevel string

const (
	LevelDay         AggregateLevel = "day"
	LevelMonth       AggregateLevel = "month"
	LevelQuarter     AggregateLevel = "quarter"
	LevelYear        AggregateLevel = "year"
	LevelDayOfWeek   AggregateLevel = "dayofweek"
	LevelWeekdayType AggregateLevel = "weekday_type"
	LevelSeason      AggregateLevel = "season"
)

// AggregateLevels lists all grouping levels in display order.
var AggregateLevels = []AggregateLevel{
	LevelDay, LevelMonth, LevelQuarter, LevelYear,
	LevelDayOfWeek, LevelWeekdayType, LevelSeason,
}

// AggregateRow is one grouped mean: key columns (level-dependent), site,
// pollutant and the mean rounded to one decimal.
type AggregateRow struct {
	Level     AggregateLevel `json:"level"`
	Key       []string       `json:"key"`
	Site      string         `json:"site"`
	Pollutant string         `json:"pollutant"`
	Mean      float64        `json:"mean"`
}

// DailyAverage collapses sub-daily readings to one row per site and day.
// PM25 carries the source's effective PM2.5 input (raw or corrected).
type DailyAverage struct {
	Site  string  `json:"site"`
	Day   string  `json:"day"`
	Year  int     `json:"year"`
	Month string  `json:"month"`
	PM25  float64 `json:"pm25"`
	PM10  float64 `json:"pm10"`
}

// ExceedanceRow counts guideline exceedance days per site and year.
type ExceedanceRow struct {
	Year        int     `json:"year"`
	Site        string  `json:"site"`
	TotalDays   int     `json:"total_days"`
	PM25Count   int     `json:"pm25_exceedance_count"`
	PM10Count   int     `json:"pm10_exceedance_count"`
	PM25Percent float64 `json:"pm25_exceedance_percent"`
	PM10Percent float64 `json:"pm10_exceedance_percent"`
}

// AQIRow is the index and category for one site-day. AQI is NaN when the
// daily mean falls outside every breakpoint band; Remark is then "Unknown".
type AQIRow struct {
	Site   string  `json:"site"`
	Day    string  `json:"day"`
	Year   int     `json:"year"`
	Month  string  `json:"month"`
	PM25   float64 `json:"pm25"`
	AQI    float64 `json:"aqi"`
	Remark string  `json:"remark"`
}

// AQIDistributionRow is the share of site-year days spent in one category.
type AQIDistributionRow struct {
	Site    string  `json:"site"`
	Year    int     `json:"year"`
	Remark  string  `json:"remark"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// MinMaxRow reports the extrema of daily averages per site-month.
type MinMaxRow struct {
	Year    int     `json:"year"`
	Site    string  `json:"site"`
	Month   string  `json:"month"`
	PM10Max float64 `json:"daily_avg_pm10_max"`
	PM10Min float64 `json:"daily_avg_pm10_min"`
	PM25Max float64 `json:"daily_avg_pm25_max"`
	PM25Min float64 `json:"daily_avg_pm25_min"`
}

// ConfidenceInterval is a bootstrap percentile interval around a group median.
type ConfidenceInterval struct {
	Site   string  `json:"site"`
	Median float64 `json:"median"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// KruskalResult is the rank test outcome for one metal across sites.
type KruskalResult struct {
	Metal     string               `json:"metal"`
	Statistic float64              `json:"statistic"`
	PValue    float64              `json:"p_value"`
	DF        int                  `json:"df"`
	Intervals []ConfidenceInterval `json:"confidence_intervals"`
}

// CorrelationMatrix is a per-site Pearson matrix over the metal columns.
// Cells[i][j] correlates Metals[i] with Metals[j]; cells with fewer than two
// complete observation pairs are NaN.
type CorrelationMatrix struct {
	Site   string      `json:"site"`
	Metals []string    `json:"metals"`
	Cells  [][]float64 `json:"cells"`
}

// TimeVariationRow is a descriptive summary of one metal for one site and
// calendar period (month name or day-of-week).
type TimeVariationRow struct {
	Site   string  `json:"site"`
	Period string  `json:"period"`
	Metal  string  `json:"metal"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
}
