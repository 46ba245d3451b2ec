package airstats

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// metalRecords builds one record per value, all metals set to that value
// scaled per metal so every species has data.
func metalRecords(site string, month time.Month, values ...float64) []model.MetalRecord {
	records := make([]model.MetalRecord, 0, len(values))
	for i, v := range values {
		date := time.Date(2023, month, 1+i%28, 0, 0, 0, 0, time.UTC)
		rec := model.MetalRecord{
			Site:      site,
			Date:      date,
			Values:    make(map[string]float64, len(model.Metals)),
			Year:      date.Year(),
			Month:     date.Format("Jan"),
			DayOfWeek: date.Weekday().String(),
		}
		for _, m := range model.Metals {
			rec.Values[m] = v
		}
		records = append(records, rec)
	}
	return records
}

func TestKruskalWallis(t *testing.T) {
	records := append(
		metalRecords("Tema", time.January, 1, 2, 3, 4, 5),
		metalRecords("Achimota", time.January, 10, 11, 12, 13, 14)...)
	records = append(records,
		metalRecords("Kaneshie", time.January, 20, 21, 22, 23, 24)...)

	results, err := KruskalWallis(context.Background(), records, Options{Seed: 1})
	require.NoError(t, err)
	require.Len(t, results, len(model.Metals))

	for _, r := range results {
		// Three sites: two degrees of freedom.
		assert.Equal(t, 2, r.DF)
		assert.Greater(t, r.Statistic, 0.0)
		assert.GreaterOrEqual(t, r.PValue, 0.0)
		assert.LessOrEqual(t, r.PValue, 1.0)

		// Fully separated groups: strong evidence of a difference.
		assert.Less(t, r.PValue, 0.05, "metal %s", r.Metal)

		// One interval per site, sorted by site name.
		require.Len(t, r.Intervals, 3)
		assert.Equal(t, "Achimota", r.Intervals[0].Site)
		assert.Equal(t, "Kaneshie", r.Intervals[1].Site)
		assert.Equal(t, "Tema", r.Intervals[2].Site)
	}
}

func TestKruskalWallis_SingleSiteSkipped(t *testing.T) {
	records := metalRecords("Tema", time.January, 1, 2, 3)

	results, err := KruskalWallis(context.Background(), records, Options{Seed: 1})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestKruskalStatistic_IdenticalGroups(t *testing.T) {
	// Identical distributions across groups rank symmetrically; with the
	// tie correction the statistic stays near zero.
	h, df := kruskalStatistic([][]float64{{1, 2, 3}, {1, 2, 3}})
	assert.Equal(t, 1, df)
	assert.InDelta(t, 0.0, h, 1e-9)
}

func TestAverageRanks_Ties(t *testing.T) {
	ranks := averageRanks([]float64{10, 20, 20, 30})
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, ranks)
}

func TestBootstrapMedianCI(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	ci := bootstrapMedianCI(data, 1000, 0.95, 42)
	assert.InDelta(t, 5.5, ci.Median, 1e-9)
	assert.LessOrEqual(t, ci.Lower, ci.Median)
	assert.GreaterOrEqual(t, ci.Upper, ci.Median)
	assert.Greater(t, ci.Upper, ci.Lower)
}

func TestBootstrapMedianCI_Deterministic(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	a := bootstrapMedianCI(data, 200, 0.95, 7)
	b := bootstrapMedianCI(data, 200, 0.95, 7)
	assert.Equal(t, a, b)
}

func TestCorrelations(t *testing.T) {
	// cd rises with cr and falls with hg.
	var records []model.MetalRecord
	for i := 1; i <= 5; i++ {
		records = append(records, model.MetalRecord{
			Site: "Tema",
			Values: map[string]float64{
				"cd": float64(i),
				"cr": float64(2 * i),
				"hg": float64(10 - i),
			},
		})
	}

	matrices := Correlations(records)
	require.Len(t, matrices, 1)
	m := matrices[0]
	require.Equal(t, model.Metals, m.Metals)

	idx := func(name string) int {
		for i, s := range m.Metals {
			if s == name {
				return i
			}
		}
		t.Fatalf("unknown metal %s", name)
		return -1
	}

	assert.InDelta(t, 1.0, m.Cells[idx("cd")][idx("cd")], 1e-9)
	assert.InDelta(t, 1.0, m.Cells[idx("cd")][idx("cr")], 1e-9)
	assert.InDelta(t, -1.0, m.Cells[idx("cd")][idx("hg")], 1e-9)
	// al never observed: too few complete pairs.
	assert.True(t, math.IsNaN(m.Cells[idx("cd")][idx("al")]))
}

func TestTimeVariationByMonth(t *testing.T) {
	records := append(
		metalRecords("Tema", time.January, 1, 2, 3),
		metalRecords("Tema", time.February, 10)...)

	rows := TimeVariationByMonth(records)

	var jan, feb *model.TimeVariationRow
	for i := range rows {
		if rows[i].Metal != "cd" {
			continue
		}
		switch rows[i].Period {
		case "Jan":
			jan = &rows[i]
		case "Feb":
			feb = &rows[i]
		}
	}
	require.NotNil(t, jan)
	require.NotNil(t, feb)

	assert.Equal(t, 3, jan.Count)
	assert.InDelta(t, 2.0, jan.Mean, 1e-9)
	assert.InDelta(t, 2.0, jan.Median, 1e-9)
	assert.InDelta(t, 1.0, jan.Std, 1e-9)

	assert.Equal(t, 1, feb.Count)
	assert.True(t, math.IsNaN(feb.Std))

	// Calendar order, not lexicographic: January before February.
	assert.Less(t, indexOf(rows, jan), indexOf(rows, feb))
}

func indexOf(rows []model.TimeVariationRow, target *model.TimeVariationRow) int {
	for i := range rows {
		if &rows[i] == target {
			return i
		}
	}
	return -1
}
