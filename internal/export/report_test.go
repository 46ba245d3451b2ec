package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/epa-ghana/airview-cli/internal/model"
)

func TestAggregateTable_Wide(t *testing.T) {
	rows := []model.AggregateRow{
		{Level: model.LevelMonth, Key: []string{"2023-01"}, Site: "Tema", Pollutant: "pm25", Mean: 15.0},
		{Level: model.LevelMonth, Key: []string{"2023-01"}, Site: "Tema", Pollutant: "pm10", Mean: 45.0},
		{Level: model.LevelMonth, Key: []string{"2023-02"}, Site: "Tema", Pollutant: "pm25", Mean: 20.5},
		// Other levels must not leak into the month table.
		{Level: model.LevelYear, Key: []string{"2023"}, Site: "Tema", Pollutant: "pm25", Mean: 17.0},
	}

	table := AggregateTable("jan", model.LevelMonth, rows)
	assert.Equal(t, "jan_aggregates_month", table.Name)
	assert.Equal(t, []string{"month", "site", "pm25", "pm10"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2023-01", "Tema", "15.0", "45.0"}, table.Rows[0])
	// Missing pollutant cell renders empty.
	assert.Equal(t, []string{"2023-02", "Tema", "20.5", ""}, table.Rows[1])
}

func TestAggregateTable_SeasonKeyColumns(t *testing.T) {
	rows := []model.AggregateRow{
		{Level: model.LevelSeason, Key: []string{"2023", "Harmattan"}, Site: "Tema", Pollutant: "pm25", Mean: 30.0},
	}

	table := AggregateTable("jan", model.LevelSeason, rows)
	assert.Equal(t, []string{"year", "season", "site", "pm25"}, table.Columns)
	assert.Equal(t, []string{"2023", "Harmattan", "Tema", "30.0"}, table.Rows[0])
}

func TestAQITable_UnknownRendersEmpty(t *testing.T) {
	table := AQITable("jan", []model.AQIRow{
		{Site: "Tema", Day: "2023-01-05", Year: 2023, Month: "2023-01", PM25: 9, AQI: 50, Remark: "Good"},
		{Site: "Tema", Day: "2023-01-06", Year: 2023, Month: "2023-01", PM25: 9.05, AQI: math.NaN(), Remark: "Unknown"},
	})
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "50", table.Rows[0][5])
	assert.Equal(t, "", table.Rows[1][5])
	assert.Equal(t, "Unknown", table.Rows[1][6])
}

func TestReport_TableLookup(t *testing.T) {
	r := &Report{Label: "jan"}

	table, ok := r.Table("exceedances")
	require.True(t, ok)
	assert.Equal(t, "jan_exceedances", table.Name)

	table, ok = r.Table("aggregates_season")
	require.True(t, ok)
	assert.Equal(t, "jan_aggregates_season", table.Name)

	_, ok = r.Table("nope")
	assert.False(t, ok)
}

func TestTableEncode(t *testing.T) {
	table := Table{
		Name:    "jan_exceedances",
		Columns: []string{"year", "site"},
		Rows:    [][]string{{"2023", "Tema"}},
	}

	var buf bytes.Buffer
	require.NoError(t, table.Encode(&buf))
	assert.Equal(t, "year,site\n2023,Tema\n", buf.String())
}

func TestAggregateTable_RoundTrip(t *testing.T) {
	rows := []model.AggregateRow{
		{Level: model.LevelMonth, Key: []string{"2023-01"}, Site: "Tema", Pollutant: "pm25", Mean: 15.3},
		{Level: model.LevelMonth, Key: []string{"2023-02"}, Site: "Tema", Pollutant: "pm25", Mean: 8.0},
	}

	var buf bytes.Buffer
	require.NoError(t, AggregateTable("jan", model.LevelMonth, rows).Encode(&buf))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	// Re-parsed cell values equal the in-memory means at one decimal.
	for i, row := range rows {
		v, err := strconv.ParseFloat(parsed[i+1][2], 64)
		require.NoError(t, err)
		assert.Equal(t, row.Mean, v)
	}
}

func TestWriteRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	tables := []Table{
		{Name: "jan_minmax", Columns: []string{"year"}, Rows: [][]string{{"2023"}, {"2024"}}},
	}

	manifest := Manifest{RunID: "abc", Source: "reference", Inputs: []string{"jan.csv"}}
	require.NoError(t, WriteRun(dir, manifest, tables))

	raw, err := os.ReadFile(filepath.Join(dir, "jan_minmax.csv"))
	require.NoError(t, err)
	assert.Equal(t, "year\n2023\n2024\n", string(raw))

	raw, err = os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, yaml.Unmarshal(raw, &got))
	assert.Equal(t, "abc", got.RunID)
	assert.Equal(t, map[string]int{"jan_minmax": 2}, got.RowCounts)
}

func TestKruskalTable(t *testing.T) {
	table := KruskalTable("metals", []model.KruskalResult{
		{
			Metal: "cd", Statistic: 12.5, PValue: 0.0019, DF: 2,
			Intervals: []model.ConfidenceInterval{
				{Site: "Tema", Median: 3, Lower: 2, Upper: 4},
				{Site: "Achimota", Median: 12, Lower: 11, Upper: 13},
			},
		},
	})

	require.Len(t, table.Rows, 2)
	// The test outcome repeats on every site row of the metal.
	assert.Equal(t, table.Rows[0][1], table.Rows[1][1])
	assert.Equal(t, "cd", table.Rows[0][0])
	assert.Equal(t, "Tema", table.Rows[0][4])
	assert.Equal(t, "3.000", table.Rows[0][5])
}
