package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	"github.com/EfraimFeinstein/find-the-expert/internal/metrics"
)

// AnswerRepo implements domain.AnswerSource over the posts table.
type AnswerRepo struct {
	pool *pgxpool.Pool
}

// NewAnswerRepo creates an AnswerRepo from the shared connection pool.
func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

// AnswersForQuestions returns the answers whose parent question is in
// questionIDs, grouped in the order the question ids were given. Answers to
// closed questions are excluded. Owner and last editor stay nullable; credit
// resolution happens in the scoring layer.
func (r *AnswerRepo) AnswersForQuestions(ctx context.Context, questionIDs []int64) ([]domain.AnswerRow, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		metrics.DBOpDuration.WithLabelValues("answers_for_questions").Observe(time.Since(start).Seconds())
	}()

	var out []domain.AnswerRow
	for _, chunk := range chunked(questionIDs) {
		rows, err := r.pool.Query(ctx, `
			SELECT a.id, a.parent_id, a.owner_user_id, a.last_editor_user_id
			FROM posts AS a
				INNER JOIN posts AS q ON q.id = a.parent_id
			WHERE a.type_id = 2
				AND a.parent_id = ANY($1)
				AND q.closed_date IS NULL
			ORDER BY array_position($1::bigint[], a.parent_id), a.id
		`, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to query answers: %w", err)
		}

		for rows.Next() {
			var row domain.AnswerRow
			if err := rows.Scan(&row.AnswerID, &row.QuestionID, &row.Owner, &row.LastEditor); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan answer: %w", err)
			}
			out = append(out, row)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read answers: %w", err)
		}
	}

	return out, nil
}
