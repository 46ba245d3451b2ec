// Package airstats implements the heavy-metal statistical comparator:
// cross-site correlation, the Kruskal-Wallis rank test with bootstrap
// confidence intervals, and month/weekday time-variation summaries.
package airstats

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/epa-ghana/airview-cli/internal/model"
)

// Options tune the comparator. Zero values fall back to the defaults the
// original analysis used: 1000 resamples at 95% confidence.
type Options struct {
	Resamples   int
	Confidence  float64
	Concurrency int
	Seed        int64 // 0 seeds from the clock
}

func (o Options) withDefaults() Options {
	if o.Resamples <= 0 {
		o.Resamples = 1000
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = 0.95
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// KruskalWallis runs, for each metal, a one-way rank test across the sites'
// value distributions, and attaches a bootstrap percentile interval of each
// site's median. A metal with fewer than two non-empty site groups is
// skipped with a warning; the others continue. Bootstrap resampling is
// independent per (metal, site) and runs in parallel.
func KruskalWallis(ctx context.Context, records []model.MetalRecord, opts Options) ([]model.KruskalResult, error) {
	opts = opts.withDefaults()

	sites := siteNames(records)
	results := make([]model.KruskalResult, 0, len(model.Metals))

	type resample struct {
		idx  int
		site string
		data []float64
		seed int64
	}
	var tasks []resample

	for _, metal := range model.Metals {
		groups := groupBySite(records, sites, metal)
		nonEmpty := 0
		for _, vals := range groups {
			if len(vals) > 0 {
				nonEmpty++
			}
		}
		if nonEmpty < 2 {
			zap.L().Warn("airstats: metal needs at least two site groups, skipping",
				zap.String("metal", metal),
				zap.Int("groups", nonEmpty),
			)
			continue
		}

		h, df := kruskalStatistic(groups)
		idx := len(results)
		results = append(results, model.KruskalResult{
			Metal:     metal,
			Statistic: h,
			PValue:    distuv.ChiSquared{K: float64(df)}.Survival(h),
			DF:        df,
			Intervals: make([]model.ConfidenceInterval, 0, len(sites)),
		})

		for si, site := range sites {
			if len(groups[si]) == 0 {
				continue
			}
			tasks = append(tasks, resample{
				idx:  idx,
				site: site,
				data: groups[si],
				seed: opts.Seed + int64(len(tasks)),
			})
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	var mu sync.Mutex

	for _, task := range tasks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			ci := bootstrapMedianCI(task.data, opts.Resamples, opts.Confidence, task.seed)
			ci.Site = task.site
			mu.Lock()
			results[task.idx].Intervals = append(results[task.idx].Intervals, ci)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		sort.Slice(results[i].Intervals, func(a, b int) bool {
			return results[i].Intervals[a].Site < results[i].Intervals[b].Site
		})
	}
	return results, nil
}

// kruskalStatistic computes the tie-corrected H statistic and the degrees
// of freedom (groups − 1). Empty groups do not count toward df.
func kruskalStatistic(groups [][]float64) (float64, int) {
	var pooled []float64
	var sizes []int
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		pooled = append(pooled, g...)
		sizes = append(sizes, len(g))
	}

	n := len(pooled)
	ranks := averageRanks(pooled)

	h := 0.0
	offset := 0
	for _, size := range sizes {
		var rankSum float64
		for _, r := range ranks[offset : offset+size] {
			rankSum += r
		}
		h += rankSum * rankSum / float64(size)
		offset += size
	}
	h = 12/(float64(n)*float64(n+1))*h - 3*float64(n+1)

	// Tie correction.
	if c := tieCorrection(pooled, n); c > 0 {
		h /= c
	}

	return h, len(sizes) - 1
}

// averageRanks assigns 1-based ranks, averaging over ties.
func averageRanks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j+2) / 2 // ranks are 1-based
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func tieCorrection(pooled []float64, n int) float64 {
	sorted := append([]float64(nil), pooled...)
	sort.Float64s(sorted)

	var tieSum float64
	for i := 0; i < n; {
		j := i
		for j+1 < n && sorted[j+1] == sorted[i] {
			j++
		}
		t := float64(j - i + 1)
		tieSum += t*t*t - t
		i = j + 1
	}
	return 1 - tieSum/(float64(n)*float64(n)*float64(n)-float64(n))
}

// siteNames returns the distinct sites sorted.
func siteNames(records []model.MetalRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Site] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for s := range seen {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// groupBySite collects one metal's values per site, dropping records where
// the metal is missing.
func groupBySite(records []model.MetalRecord, sites []string, metal string) [][]float64 {
	index := make(map[string]int, len(sites))
	for i, s := range sites {
		index[s] = i
	}
	groups := make([][]float64, len(sites))
	for _, r := range records {
		if v, ok := r.Values[metal]; ok && !math.IsNaN(v) {
			i := index[r.Site]
			groups[i] = append(groups[i], v)
		}
	}
	return groups
}

// median is a convenience around the stats package for non-empty data.
func median(data []float64) float64 {
	m, err := stats.Median(data)
	if err != nil {
		return math.NaN()
	}
	return m
}
