package scoring

import "sync"

// PercentileRank computes the strict percentile-of-score of value within
// population: 100 * (elements strictly less than value) / len(population).
// For the minimum of a population it returns 0; for the unique maximum of a
// population of size N it returns 100*(N-1)/N. Deterministic for a fixed
// population and value, duplicates included.
//
// The population must be non-empty. Callers short-circuit empty batches
// before invoking (see Pipeline.ScoreExperts); a zero-size population is a
// contract violation guarded by domain.ErrEmptyPopulation at the call sites.
func PercentileRank(population []float64, value float64) float64 {
	below := 0
	for _, p := range population {
		if p < value {
			below++
		}
	}
	return 100 * float64(below) / float64(len(population))
}

// rankAgainstSelf computes the strict percentile rank of every element of
// values against values itself, scaled to [0, 1].
func rankAgainstSelf(values []float64) []float64 {
	ranks := make([]float64, len(values))
	for i, v := range values {
		ranks[i] = PercentileRank(values, v) / 100
	}
	return ranks
}

// rankMetrics ranks each metric slice against itself, one goroutine per
// metric. Each goroutine reads an immutable snapshot and writes only its own
// output slot, so no synchronization beyond the join is needed.
func rankMetrics(metrics ...[]float64) [][]float64 {
	out := make([][]float64, len(metrics))
	var wg sync.WaitGroup
	for i, m := range metrics {
		wg.Add(1)
		go func(i int, m []float64) {
			defer wg.Done()
			out[i] = rankAgainstSelf(m)
		}(i, m)
	}
	wg.Wait()
	return out
}
