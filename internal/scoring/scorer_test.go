package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
)

func record(owner int64, relevance float64, m domain.AnswerMetrics, sentiment int) domain.AnswerRecord {
	return domain.AnswerRecord{
		OwnerID:           owner,
		QuestionRelevance: relevance,
		AnswerRelevance:   1.0,
		Metrics:           m,
		Sentiment:         sentiment,
	}
}

func TestEffectiveScore(t *testing.T) {
	s := NewScorer(DefaultConfig())

	tests := []struct {
		name string
		rec  domain.AnswerRecord
		want float64
	}{
		{
			name: "raw score plus weighted sentiment",
			rec:  record(1, 1, domain.AnswerMetrics{RawScore: 10}, 2),
			want: 11.4,
		},
		{
			name: "negative sentiment subtracts",
			rec:  record(1, 1, domain.AnswerMetrics{RawScore: 2}, -1),
			want: 1.3,
		},
		{
			name: "accepted answer with zero votes gets a synthetic vote",
			rec:  record(1, 1, domain.AnswerMetrics{RawScore: 0, Accepted: true}, 0),
			want: 1,
		},
		{
			name: "accepted answer with votes gets no bump",
			rec:  record(1, 1, domain.AnswerMetrics{RawScore: 3, Accepted: true}, 0),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.effectiveScore(tt.rec), 1e-12)
		})
	}
}

func TestScoreBatchZeroRelevanceMeansZeroScore(t *testing.T) {
	s := NewScorer(DefaultConfig())
	records := []domain.AnswerRecord{
		record(1, 0, domain.AnswerMetrics{RawScore: 100, Favorites: 50, Views: 9000, Accepted: true}, 10),
		record(2, 0.5, domain.AnswerMetrics{RawScore: 1}, 0),
	}

	scores := s.ScoreBatch(records)
	require.Len(t, scores, 2)
	assert.Zero(t, scores[0])
	assert.Positive(t, scores[1])
}

func TestScoreBatchEngagementFactorsAreBounded(t *testing.T) {
	// Each (1+pct) factor lies in [1,2] and the acceptance multiplier is
	// 1.5 at most, so a relevance-1 answer never scores above 12.
	s := NewScorer(DefaultConfig())
	records := []domain.AnswerRecord{
		record(1, 1, domain.AnswerMetrics{RawScore: 1000, Favorites: 500, Views: 100000, Accepted: true}, 50),
		record(2, 1, domain.AnswerMetrics{}, 0),
		record(3, 1, domain.AnswerMetrics{RawScore: 5, Favorites: 1, Views: 10}, 0),
	}

	scores := s.ScoreBatch(records)
	for _, score := range scores {
		assert.GreaterOrEqual(t, score, 1.0)
		assert.LessOrEqual(t, score, 12.0)
	}
}

func TestScoreBatchEmpty(t *testing.T) {
	s := NewScorer(DefaultConfig())
	assert.Nil(t, s.ScoreBatch(nil))
}

func TestAggregateGroupsByUser(t *testing.T) {
	records := []domain.AnswerRecord{
		{AnswerID: 1, OwnerID: 7, QuestionRelevance: 0.9},
		{AnswerID: 2, OwnerID: 8, QuestionRelevance: 0.5},
		{AnswerID: 3, OwnerID: 7, QuestionRelevance: 0.3},
	}
	scores := []float64{2.0, 1.0, 0.5}

	aggs := Aggregate(records, scores)
	require.Len(t, aggs, 2)

	assert.Equal(t, int64(7), aggs[0].UserID)
	assert.InDelta(t, 2.5, aggs[0].TotalScore, 1e-12)
	assert.InDelta(t, 0.6, aggs[0].MeanRelevance, 1e-12)
	assert.Equal(t, []int64{1, 3}, aggs[0].AnswerIDs)

	assert.Equal(t, int64(8), aggs[1].UserID)
	assert.InDelta(t, 1.0, aggs[1].TotalScore, 1e-12)
	assert.InDelta(t, 0.5, aggs[1].MeanRelevance, 1e-12)
	assert.Equal(t, []int64{2}, aggs[1].AnswerIDs)
}

func TestAggregateSingleAnswerUser(t *testing.T) {
	records := []domain.AnswerRecord{{AnswerID: 1, OwnerID: 5, QuestionRelevance: 0.42}}
	aggs := Aggregate(records, []float64{1.5})

	require.Len(t, aggs, 1)
	assert.InDelta(t, 0.42, aggs[0].MeanRelevance, 1e-12)
	assert.NotEmpty(t, aggs[0].AnswerIDs)
}

func TestAggregateEmptyBatch(t *testing.T) {
	assert.Empty(t, Aggregate(nil, nil))
}
