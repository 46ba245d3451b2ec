package airstats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// Correlations builds, per site, the Pearson correlation matrix across the
// metal columns. Pairs are compared over rows where both metals are present
// (pairwise-complete); a pair with fewer than two complete rows is NaN.
func Correlations(records []model.MetalRecord) []model.CorrelationMatrix {
	matrices := make([]model.CorrelationMatrix, 0)
	for _, site := range siteNames(records) {
		var siteRecords []model.MetalRecord
		for _, r := range records {
			if r.Site == site {
				siteRecords = append(siteRecords, r)
			}
		}
		if len(siteRecords) == 0 {
			continue
		}

		k := len(model.Metals)
		cells := make([][]float64, k)
		for i := range cells {
			cells[i] = make([]float64, k)
			for j := range cells[i] {
				cells[i][j] = pairwisePearson(siteRecords, model.Metals[i], model.Metals[j])
			}
		}
		matrices = append(matrices, model.CorrelationMatrix{
			Site:   site,
			Metals: model.Metals,
			Cells:  cells,
		})
	}
	return matrices
}

func pairwisePearson(records []model.MetalRecord, a, b string) float64 {
	if a == b {
		return 1
	}
	var xs, ys []float64
	for _, r := range records {
		x, okX := r.Values[a]
		y, okY := r.Values[b]
		if okX && okY && !math.IsNaN(x) && !math.IsNaN(y) {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
