package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	"github.com/EfraimFeinstein/find-the-expert/internal/metrics"
)

// chunkSize bounds the id collection per batched read so arbitrarily large
// candidate batches stay within the store's practical limits.
const chunkSize = 500

// SignalRepo implements domain.SignalStore over the prescoring tables.
type SignalRepo struct {
	pool *pgxpool.Pool
}

// NewSignalRepo creates a SignalRepo from the shared connection pool.
func NewSignalRepo(pool *pgxpool.Pool) *SignalRepo {
	return &SignalRepo{pool: pool}
}

func chunked(ids []int64) [][]int64 {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]int64, 0, (len(ids)+chunkSize-1)/chunkSize)
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// FetchAnswerMetrics returns the persisted engagement signals for the given
// answers. Missing numeric fields resolve to 0 and a NULL accepted flag to
// false; answers without a prescoring row are simply absent from the result.
// An empty input returns an empty map without touching the store.
func (r *SignalRepo) FetchAnswerMetrics(ctx context.Context, answerIDs []int64) (map[int64]domain.AnswerMetrics, error) {
	out := make(map[int64]domain.AnswerMetrics, len(answerIDs))

	start := time.Now()
	defer func() {
		metrics.DBOpDuration.WithLabelValues("fetch_answer_metrics").Observe(time.Since(start).Seconds())
	}()

	for _, chunk := range chunked(answerIDs) {
		rows, err := r.pool.Query(ctx, `
			SELECT
				id,
				COALESCE(age, 0),
				COALESCE(score, 0),
				COALESCE(favorites, 0),
				COALESCE(views, 0),
				COALESCE(accepted, FALSE)
			FROM answer_prescoring
			WHERE id = ANY($1)
		`, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to query answer metrics: %w", err)
		}

		for rows.Next() {
			var id int64
			var m domain.AnswerMetrics
			if err := rows.Scan(&id, &m.Age, &m.RawScore, &m.Favorites, &m.Views, &m.Accepted); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan answer metrics: %w", err)
			}
			out[id] = m
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read answer metrics: %w", err)
		}
	}

	return out, nil
}

// FetchSentiment returns the summed classified-comment polarity per answer.
// Answers with no classified comments are absent (callers default to 0).
func (r *SignalRepo) FetchSentiment(ctx context.Context, answerIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(answerIDs))

	start := time.Now()
	defer func() {
		metrics.DBOpDuration.WithLabelValues("fetch_sentiment").Observe(time.Since(start).Seconds())
	}()

	for _, chunk := range chunked(answerIDs) {
		rows, err := r.pool.Query(ctx, `
			SELECT answer_id, comment_score
			FROM comment_prescoring
			WHERE answer_id = ANY($1)
		`, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to query sentiment: %w", err)
		}

		for rows.Next() {
			var id int64
			var score int
			if err := rows.Scan(&id, &score); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan sentiment: %w", err)
			}
			out[id] = score
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read sentiment: %w", err)
		}
	}

	return out, nil
}
