package domain

import "context"

// AnswerRow is an answer as read from storage, before any scoring.
// Owner and LastEditor are nil when the backing columns are NULL.
type AnswerRow struct {
	AnswerID   int64
	QuestionID int64
	Owner      *int64
	LastEditor *int64
}

// CreditedUser resolves the user an answer is credited to.
// Precedence: owner, then last editor. Returns false if neither exists,
// in which case the answer is excluded from scoring entirely.
func (a AnswerRow) CreditedUser() (int64, bool) {
	if a.Owner != nil {
		return *a.Owner, true
	}
	if a.LastEditor != nil {
		return *a.LastEditor, true
	}
	return 0, false
}

// AnswerMetrics holds the persisted per-answer engagement signals.
// Absent numeric fields are zero; Accepted is false when the backing
// record is NULL.
type AnswerMetrics struct {
	Age       float64
	RawScore  float64
	Favorites float64
	Views     float64
	Accepted  bool
}

// AnswerRecord is one scored contribution, built fresh per query and
// discarded after the response is produced.
type AnswerRecord struct {
	AnswerID   int64
	QuestionID int64
	OwnerID    int64

	// QuestionRelevance is the parent question's similarity to the query,
	// in [0, 1], supplied by the retrieval collaborator.
	QuestionRelevance float64

	// AnswerRelevance is fixed at 1.0; see scoring.Resolver.
	AnswerRelevance float64

	Metrics   AnswerMetrics
	Sentiment int
}

// AnswerSource finds the answers belonging to a set of questions.
type AnswerSource interface {
	// AnswersForQuestions returns every answer whose parent question is in
	// questionIDs, in the underlying join's insertion order. An empty input
	// yields an empty slice.
	AnswersForQuestions(ctx context.Context, questionIDs []int64) ([]AnswerRow, error)
}

// SignalStore is the read-only accessor over persisted per-answer metrics
// and sentiment aggregates. Both operations are batched, tolerate empty
// input by returning an empty map, and have no side effects.
type SignalStore interface {
	FetchAnswerMetrics(ctx context.Context, answerIDs []int64) (map[int64]AnswerMetrics, error)
	// FetchSentiment returns the summed classified-comment polarity per
	// answer. Answers with no classified comments are absent from the map
	// and default to 0.
	FetchSentiment(ctx context.Context, answerIDs []int64) (map[int64]int, error)
}
