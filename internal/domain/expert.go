package domain

import "context"

// UserAggregate is the per-user rollup across all answers crediting the
// same user within one query. PercentileRank and Stars are only valid
// after the second scoring pass completes over the full batch.
type UserAggregate struct {
	UserID      int64
	DisplayName string

	// TotalScore is the sum of composite per-answer scores.
	TotalScore float64

	// MeanRelevance is the arithmetic mean of question relevance across
	// the user's contributing answers.
	MeanRelevance float64

	// AnswerIDs lists the contributing answers in resolution order.
	// Never empty: users with no qualifying answers never materialize.
	AnswerIDs []int64

	// PercentileRank is TotalScore's percentile among all aggregates in
	// this query's batch. Populated by the second pass.
	PercentileRank float64

	// Stars is the bucketed presentation of PercentileRank, in [0, NStars].
	Stars int
}

// Ranking is the full outcome of one expert query: the surviving experts
// in rank order plus the questions that matched the query text.
type Ranking struct {
	Experts   []UserAggregate
	Questions []QuestionMatch
}

// UserDirectory resolves display names for presentation. Not used for scoring.
type UserDirectory interface {
	DisplayNames(ctx context.Context, userIDs []int64) (map[int64]string, error)
}
