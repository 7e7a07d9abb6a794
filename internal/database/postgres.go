package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connected", "min_conns", poolCfg.MinConns, "max_conns", poolCfg.MaxConns)
	return pool, nil
}

// migrations creates the corpus tables (populated out-of-band by the dump
// loader) and materializes the prescoring tables the signal store reads.
// Answer age is measured in days from creation to materialization; favorites
// and views are taken from the parent question since the corpus only tracks
// them per question.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT PRIMARY KEY,
		type_id SMALLINT NOT NULL,
		parent_id BIGINT,
		accepted_answer_id BIGINT,
		creation_date TIMESTAMP NOT NULL,
		score INT NOT NULL DEFAULT 0,
		view_count INT,
		body TEXT,
		owner_user_id BIGINT,
		last_editor_user_id BIGINT,
		closed_date TIMESTAMP,
		title TEXT,
		tags TEXT,
		answer_count INT,
		comment_count INT,
		favorite_count INT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_parent_id ON posts(parent_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		display_name TEXT NOT NULL,
		reputation INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGINT PRIMARY KEY,
		post_id BIGINT NOT NULL,
		score INT,
		body TEXT,
		creation_date TIMESTAMP,
		user_id BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
	`CREATE TABLE IF NOT EXISTS classified_comments (
		comment_id BIGINT PRIMARY KEY,
		classification SMALLINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS answer_prescoring AS
	SELECT
		a.id AS id,
		EXTRACT(EPOCH FROM (NOW() - a.creation_date)) / 86400 AS age,
		a.score AS score,
		q.favorite_count AS favorites,
		q.view_count AS views,
		(a.id = q.accepted_answer_id) AS accepted
	FROM posts AS q
		INNER JOIN posts AS a ON q.id = a.parent_id
	WHERE a.type_id = 2`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_answer_prescoring_id ON answer_prescoring(id)`,
	`CREATE TABLE IF NOT EXISTS comment_prescoring AS
	SELECT
		c.post_id AS answer_id,
		SUM(cc.classification) AS comment_score
	FROM comments AS c
		INNER JOIN classified_comments AS cc ON cc.comment_id = c.id
	GROUP BY c.post_id`,
	`CREATE INDEX IF NOT EXISTS idx_comment_prescoring_answer_id ON comment_prescoring(answer_id)`,
}

// RunMigrations applies the schema and prescoring materialization.
// CREATE TABLE IF NOT EXISTS ... AS only materializes on first run; call
// RefreshPrescoring after reloading the corpus.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for _, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	slog.Info("Database migrations completed")
	return nil
}

// RefreshPrescoring drops and rebuilds the prescoring tables from the corpus
// tables. Run after a bulk corpus (re)load.
func RefreshPrescoring(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS answer_prescoring`,
		`DROP TABLE IF EXISTS comment_prescoring`,
	} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop prescoring table: %w", err)
		}
	}
	if err := RunMigrations(ctx, pool); err != nil {
		return err
	}

	slog.Info("Prescoring tables refreshed")
	return nil
}
