package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS extraction_cache (
	url        TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	stored_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS extraction_cache_stored_at_idx ON extraction_cache (stored_at);`

// PostgresStore persists the cache in a single table so it survives restarts.
type PostgresStore struct {
	pool   *pgxpool.Pool
	opts   Options
	logger *zap.Logger
}

// ConnectPostgres opens a pool, verifies it and ensures the cache table exists.
func ConnectPostgres(ctx context.Context, databaseURL string, opts Options, logger *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, opts: opts.withDefaults(), logger: logger}, nil
}

// Get returns cached content, deleting the row if it has expired.
func (s *PostgresStore) Get(ctx context.Context, url string) (string, bool) {
	var content string
	var storedAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT content, stored_at FROM extraction_cache WHERE url = $1`, url,
	).Scan(&content, &storedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("postgres cache get failed", zap.String("url", url), zap.Error(err))
		return "", false
	}
	if s.opts.Now().Sub(storedAt) > s.opts.MaxAge {
		_, _ = s.pool.Exec(ctx, `DELETE FROM extraction_cache WHERE url = $1`, url)
		return "", false
	}
	return content, true
}

// Set upserts content inside one transaction together with the capacity check.
func (s *PostgresStore) Set(ctx context.Context, url, content string) {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM extraction_cache WHERE url = $1)`, url,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			var count int
			if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM extraction_cache`).Scan(&count); err != nil {
				return err
			}
			if count >= s.opts.Capacity {
				if _, err := tx.Exec(ctx,
					`DELETE FROM extraction_cache WHERE url IN (
						SELECT url FROM extraction_cache ORDER BY stored_at ASC LIMIT $1)`,
					count-s.opts.Capacity+1,
				); err != nil {
					return err
				}
			}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO extraction_cache (url, content, stored_at) VALUES ($1, $2, $3)
			 ON CONFLICT (url) DO UPDATE SET content = $2, stored_at = $3`,
			url, content, s.opts.Now(),
		)
		return err
	})
	if err != nil {
		s.logger.Warn("postgres cache set failed", zap.String("url", url), zap.Error(err))
	}
}

// Cleanup deletes every expired row.
func (s *PostgresStore) Cleanup(ctx context.Context) int {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM extraction_cache WHERE stored_at < $1`, s.opts.Now().Add(-s.opts.MaxAge))
	if err != nil {
		s.logger.Warn("postgres cache cleanup failed", zap.Error(err))
		return 0
	}
	return int(tag.RowsAffected())
}

// Len returns the number of rows.
func (s *PostgresStore) Len(ctx context.Context) int {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM extraction_cache`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Clear truncates the table.
func (s *PostgresStore) Clear(ctx context.Context) {
	if _, err := s.pool.Exec(ctx, `DELETE FROM extraction_cache`); err != nil {
		s.logger.Warn("postgres cache clear failed", zap.Error(err))
	}
}

// Close closes the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
