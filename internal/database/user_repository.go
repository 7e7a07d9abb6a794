package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EfraimFeinstein/find-the-expert/internal/metrics"
)

// UserRepo implements domain.UserDirectory over the users table.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a UserRepo from the shared connection pool.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// DisplayNames resolves display names for the given users. Unknown ids are
// absent from the result; callers render a blank name rather than failing.
func (r *UserRepo) DisplayNames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(userIDs))

	start := time.Now()
	defer func() {
		metrics.DBOpDuration.WithLabelValues("display_names").Observe(time.Since(start).Seconds())
	}()

	for _, chunk := range chunked(userIDs) {
		rows, err := r.pool.Query(ctx, `
			SELECT id, display_name
			FROM users
			WHERE id = ANY($1)
		`, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to query display names: %w", err)
		}

		for rows.Next() {
			var id int64
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan display name: %w", err)
			}
			out[id] = name
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read display names: %w", err)
		}
	}

	return out, nil
}
