package airstats

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// bootstrapMedianCI draws resamples-with-replacement from data, takes the
// median of each, and extracts the percentile interval at the given
// confidence level. The observed median always lies inside the interval for
// sufficiently large resample counts.
func bootstrapMedianCI(data []float64, resamples int, confidence float64, seed int64) model.ConfidenceInterval {
	rng := rand.New(rand.NewSource(seed))

	medians := make([]float64, resamples)
	sample := make([]float64, len(data))
	for i := 0; i < resamples; i++ {
		for j := range sample {
			sample[j] = data[rng.Intn(len(data))]
		}
		medians[i] = median(sample)
	}
	sort.Float64s(medians)

	alpha := (1 - confidence) / 2
	return model.ConfidenceInterval{
		Median: median(data),
		Lower:  stat.Quantile(alpha, stat.LinInterp, medians, nil),
		Upper:  stat.Quantile(1-alpha, stat.LinInterp, medians, nil),
	}
}
