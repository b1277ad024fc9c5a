package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/recipereel/colette/internal/lang"
	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/extractor"
)

// Reparser re-runs the extraction pipeline for a cached entry; satisfied by
// extractor.Orchestrator.
type Reparser interface {
	Reparse(ctx context.Context, req extractor.Request) (*extractor.Result, error)
}

// StaleDeleter removes cache entries not accessed since a cutoff; satisfied
// by cache.PostgresStore.
type StaleDeleter interface {
	DeleteStale(ctx context.Context, cutoffDays int) (int64, error)
}

type RecipeProcessor struct {
	reparser Reparser
	store    StaleDeleter
	metrics  *WorkerMetrics
}

func NewRecipeProcessor(reparser Reparser, store StaleDeleter, metrics *WorkerMetrics) *RecipeProcessor {
	return &RecipeProcessor{
		reparser: reparser,
		store:    store,
		metrics:  metrics,
	}
}

// HandleReparseRecipe re-extracts a post into each requested language,
// overwriting the cached entries. An empty language list means all supported
// languages.
func (p *RecipeProcessor) HandleReparseRecipe(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ReparseRecipePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	languages := payload.Languages
	if len(languages) == 0 {
		languages = lang.Supported()
	}

	slog.Info("Re-parsing recipe", "url", payload.URL, "languages", languages, "strategy", payload.Strategy)

	funcs := make([]ParallelFunc, 0, len(languages))
	for _, language := range languages {
		language := language
		funcs = append(funcs, func(ctx context.Context) error {
			_, err := p.reparser.Reparse(ctx, extractor.Request{
				URL:      payload.URL,
				Language: language,
				Strategy: recipe.Strategy(payload.Strategy),
			})
			if err != nil {
				return fmt.Errorf("language %s: %w", language, err)
			}
			return nil
		})
	}

	result := RunParallel(ctx, funcs)
	status := "ok"
	var err error
	if len(result.Errors) > 0 {
		status = "failed"
		err = fmt.Errorf("re-parse failed for %d of %d languages: %v", len(result.Errors), len(languages), result.Errors)
		slog.Error("Re-parse failed", "url", payload.URL, "error", err.Error())
	}

	p.metrics.RecordJob(ctx, TypeReparseRecipe, status, time.Since(start).Seconds())
	return err
}

// HandleCleanupCache deletes cache rows whose last access predates the
// configured cutoff.
func (p *RecipeProcessor) HandleCleanupCache(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload CleanupCachePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.OlderThanDays <= 0 {
		payload.OlderThanDays = 90
	}

	deleted, err := p.store.DeleteStale(ctx, payload.OlderThanDays)
	if err != nil {
		p.metrics.RecordJob(ctx, TypeCleanupCache, "failed", time.Since(start).Seconds())
		return fmt.Errorf("cache cleanup failed: %w", err)
	}

	slog.Info("Cache cleanup finished", "deleted", deleted, "older_than_days", payload.OlderThanDays)
	p.metrics.RecordJob(ctx, TypeCleanupCache, "ok", time.Since(start).Seconds())
	return nil
}
