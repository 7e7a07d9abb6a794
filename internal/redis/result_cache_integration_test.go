package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
)

func setupTestResultCache(t *testing.T) *ResultCache {
	t.Helper()
	rdb := setupTestClient(t)
	return NewResultCache(rdb, time.Hour)
}

func sampleRanking() *domain.Ranking {
	return &domain.Ranking{
		Experts: []domain.UserAggregate{
			{
				UserID:         7,
				DisplayName:    "ada",
				TotalScore:     42.5,
				MeanRelevance:  0.8,
				AnswerIDs:      []int64{101, 103},
				PercentileRank: 90,
				Stars:          4,
			},
		},
		Questions: []domain.QuestionMatch{
			{QuestionID: 100, Title: "How do goroutines work?", Relevance: 0.92},
		},
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache := setupTestResultCache(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "goroutines")
	assert.False(t, ok)

	want := sampleRanking()
	cache.Set(ctx, "goroutines", want)

	got, ok := cache.Get(ctx, "goroutines")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestResultCacheNormalizesKeys(t *testing.T) {
	cache := setupTestResultCache(t)
	ctx := context.Background()

	cache.Set(ctx, "Goroutines   And Channels", sampleRanking())

	_, ok := cache.Get(ctx, "goroutines and channels")
	assert.True(t, ok)
}

func TestResultCacheInvalidate(t *testing.T) {
	cache := setupTestResultCache(t)
	ctx := context.Background()

	cache.Set(ctx, "goroutines", sampleRanking())
	require.NoError(t, cache.Invalidate(ctx, "goroutines"))

	_, ok := cache.Get(ctx, "goroutines")
	assert.False(t, ok)
}

func TestResultCacheCorruptEntryIsMiss(t *testing.T) {
	rdb := setupTestClient(t)
	cache := NewResultCache(rdb, time.Hour)
	ctx := context.Background()

	err := rdb.Set(ctx, rankingKey("goroutines"), "not-json{", time.Hour).Err()
	require.NoError(t, err)

	_, ok := cache.Get(ctx, "goroutines")
	assert.False(t, ok)
}

func TestResultCacheEntriesExpire(t *testing.T) {
	rdb := setupTestClient(t)
	cache := NewResultCache(rdb, 50*time.Millisecond)
	ctx := context.Background()

	cache.Set(ctx, "goroutines", sampleRanking())

	assert.Eventually(t, func() bool {
		_, ok := cache.Get(ctx, "goroutines")
		return !ok
	}, 2*time.Second, 25*time.Millisecond)
}
