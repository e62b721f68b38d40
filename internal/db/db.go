// Package db provides PostgreSQL storage for evaluation results.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the results table. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS evaluation_results (
	id               UUID PRIMARY KEY,
	resume_name      TEXT NOT NULL,
	jd_name          TEXT NOT NULL,
	jd_fingerprint   TEXT NOT NULL DEFAULT '',
	score            DOUBLE PRECISION NOT NULL,
	verdict          TEXT NOT NULL,
	feedback         TEXT NOT NULL DEFAULT '',
	missing_elements JSONB NOT NULL DEFAULT '[]',
	processing_time  DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_evaluation_results_jd_name ON evaluation_results (jd_name);
CREATE INDEX IF NOT EXISTS idx_evaluation_results_verdict ON evaluation_results (verdict);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the results table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
