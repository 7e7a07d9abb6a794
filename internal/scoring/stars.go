package scoring

import (
	"math"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
)

// Translator performs the second scoring pass: it ranks each user's total
// score against the whole batch, drops users below the cutoff percentile,
// orders the survivors, and converts percentile ranks into star ratings.
type Translator struct {
	cutoff float64
	nStars int
}

// NewTranslator creates a Translator from the scoring constants.
func NewTranslator(cfg Config) *Translator {
	return &Translator{cutoff: cfg.CutoffPercentile, nStars: cfg.NStars}
}

// Stars buckets a percentile rank into an integer star count. The range
// (cutoff, 100] is split into nStars equal-width buckets, offset by one so a
// rank at the cutoff floor lands at the bottom and rank 100 yields nStars.
// Floor division, not rounding; the result is clamped to [0, nStars] against
// boundary values that slip past the percentile filter.
func (t *Translator) Stars(percentileRank float64) int {
	width := (100 - t.cutoff) / float64(t.nStars)
	stars := 1 + int(math.Floor((percentileRank-t.cutoff-1)/width))
	if stars < 0 {
		return 0
	}
	if stars > t.nStars {
		return t.nStars
	}
	return stars
}

// Finalize runs the second pass over a complete batch of aggregates. It
// mutates nothing it is given; the returned slice holds fresh copies with
// PercentileRank and Stars populated. An empty batch yields an empty result
// without touching the normalizer.
func (t *Translator) Finalize(aggs []domain.UserAggregate) []domain.UserAggregate {
	if len(aggs) == 0 {
		return nil
	}

	totals := make([]float64, len(aggs))
	for i, agg := range aggs {
		totals[i] = agg.TotalScore
	}

	ranked := make([]domain.UserAggregate, 0, len(aggs))
	for _, agg := range aggs {
		agg.PercentileRank = PercentileRank(totals, agg.TotalScore)
		if agg.PercentileRank < t.cutoff {
			continue
		}
		agg.Stars = t.Stars(agg.PercentileRank)
		ranked = append(ranked, agg)
	}

	sortRanked(ranked)
	return ranked
}
