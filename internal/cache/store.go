// Package cache implements the recipe cache coordinator: keyed storage of
// structured recipes with a single-flight guarantee per (URL, language) key
// and access-count bookkeeping.
package cache

import (
	"context"
	"time"

	"github.com/recipereel/colette/internal/recipe"
)

// Record is the persisted form of a Recipe plus access bookkeeping. The
// coordinator is the sole writer; readers receive value copies.
type Record struct {
	Recipe         recipe.Recipe   `json:"recipe"`
	Strategy       recipe.Strategy `json:"strategy"`
	AccessCount    int64           `json:"access_count"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
}

// Stats is the read-only cache statistics snapshot.
type Stats struct {
	TotalRecipes  int64 `json:"total_recipes"`
	TotalAccesses int64 `json:"total_accesses"`
}

// Store is the persistence backend for cache records, one row per
// (url, language) key.
type Store interface {
	// Get returns the record for a key, or (nil, nil) when absent.
	Get(ctx context.Context, url, language string) (*Record, error)

	// Put creates or overwrites the record for a key. Overwrites keep the
	// existing access count: a re-parse replaces content, not identity.
	Put(ctx context.Context, url, language string, rec *Record) error

	// Touch increments the access counter and stamps last_accessed_at.
	Touch(ctx context.Context, url, language string) error

	// Stats returns totals across all records.
	Stats(ctx context.Context) (Stats, error)
}
