package domain

import "context"

// QuestionMatch is one retrieval hit: a question semantically relevant to
// the free-text query.
type QuestionMatch struct {
	QuestionID int64
	Title      string
	// Relevance is the similarity score in [0, 1], sorted descending in
	// retrieval results.
	Relevance float64
}

// Retriever is the topic-model collaborator. It returns matches sorted by
// relevance descending, excluding questions below cutoff and closed questions.
type Retriever interface {
	Query(ctx context.Context, text string, cutoff float64) ([]QuestionMatch, error)
}
