package ingest

import "strings"

// columnAliases maps known header spellings to their canonical names. Keys
// are compared after trimming and lower-casing, so e.g. "PM2.5" and " pm2.5 "
// both land on pm25.
var columnAliases = map[string]string{
	"pm25":              "pm25",
	"pm2.5":             "pm25",
	"pm_2_5":            "pm25",
	"pm25_avg":          "pm25",
	"pm10":              "pm10",
	"pm_10":             "pm10",
	"site":              "site",
	"station":           "site",
	"location":          "site",
	"temp":              "temp",
	"temperature":       "temp",
	"rh":                "rh",
	"humidity":          "rh",
	"relative_humidity": "rh",
	"corrected_pm25":    "corrected_pm25",
	"corrected_pm2.5":   "corrected_pm25",
}

// NormalizeColumns lower-cases and trims every header and renames aliased
// spellings to their canonical form. Unrecognized columns pass through
// unchanged; absence of a required column is the caller's concern.
func NormalizeColumns(t *Table) *Table {
	for i, col := range t.Columns {
		lower := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := columnAliases[lower]; ok {
			t.Columns[i] = canonical
		} else {
			t.Columns[i] = lower
		}
	}
	return t
}
