package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipereel/colette/internal/recipe"
)

// Schema for the recipe cache. One row per (source_url, language) key.
const Schema = `
CREATE TABLE IF NOT EXISTS recipe_cache (
	source_url       TEXT        NOT NULL,
	language         TEXT        NOT NULL,
	recipe           JSONB       NOT NULL,
	strategy         TEXT        NOT NULL,
	access_count     BIGINT      NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL,
	last_accessed_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (source_url, language)
);
`

// PostgresStore persists cache records in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the cache table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, url, language string) (*Record, error) {
	var (
		recipeJSON []byte
		rec        Record
		strategy   string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT recipe, strategy, access_count, created_at, last_accessed_at
		 FROM recipe_cache WHERE source_url = $1 AND language = $2`,
		url, language,
	).Scan(&recipeJSON, &strategy, &rec.AccessCount, &rec.CreatedAt, &rec.LastAccessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(recipeJSON, &rec.Recipe); err != nil {
		return nil, fmt.Errorf("cache get: corrupt recipe payload: %w", err)
	}
	rec.Strategy = recipe.Strategy(strategy)
	return &rec, nil
}

func (s *PostgresStore) Put(ctx context.Context, url, language string, rec *Record) error {
	recipeJSON, err := json.Marshal(rec.Recipe)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	// Overwrites keep access_count: a re-parse replaces the content of an
	// existing record, not its access history.
	_, err = s.pool.Exec(ctx,
		`INSERT INTO recipe_cache (source_url, language, recipe, strategy, access_count, created_at, last_accessed_at)
		 VALUES ($1, $2, $3, $4, 0, $5, $6)
		 ON CONFLICT (source_url, language) DO UPDATE
		 SET recipe = EXCLUDED.recipe,
		     strategy = EXCLUDED.strategy,
		     created_at = EXCLUDED.created_at,
		     last_accessed_at = EXCLUDED.last_accessed_at`,
		url, language, recipeJSON, string(rec.Strategy), rec.CreatedAt, rec.LastAccessedAt,
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (s *PostgresStore) Touch(ctx context.Context, url, language string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE recipe_cache
		 SET access_count = access_count + 1, last_accessed_at = now()
		 WHERE source_url = $1 AND language = $2`,
		url, language,
	)
	if err != nil {
		return fmt.Errorf("cache touch: %w", err)
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(access_count), 0) FROM recipe_cache`,
	).Scan(&stats.TotalRecipes, &stats.TotalAccesses)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// DeleteStale removes records not accessed since the cutoff; used by the
// cleanup worker task. Returns the number of rows removed.
func (s *PostgresStore) DeleteStale(ctx context.Context, cutoffDays int) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM recipe_cache WHERE last_accessed_at < now() - make_interval(days => $1)`,
		cutoffDays,
	)
	if err != nil {
		return 0, fmt.Errorf("cache cleanup: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes one record; used by the explicit re-parse flow.
func (s *PostgresStore) Delete(ctx context.Context, url, language string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM recipe_cache WHERE source_url = $1 AND language = $2`,
		url, language,
	)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
