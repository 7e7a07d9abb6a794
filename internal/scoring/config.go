package scoring

// Config holds the scoring constants. It is an immutable value passed in at
// construction time; nothing in this package reads ambient state.
type Config struct {
	// AcceptedBonus is the multiplicative bonus applied to an accepted answer's
	// composite score.
	AcceptedBonus float64

	// SentimentFactor weighs summed comment sentiment relative to a real vote
	// when folding it into the effective score.
	SentimentFactor float64

	// CutoffPercentile is the minimum percentile rank a user must reach to
	// appear in final results.
	CutoffPercentile float64

	// NStars is the number of buckets the percentile range above the cutoff
	// is divided into.
	NStars int
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		AcceptedBonus:    0.5,
		SentimentFactor:  0.7,
		CutoffPercentile: 75,
		NStars:           5,
	}
}
