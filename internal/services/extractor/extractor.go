// Package extractor is the top-level entry point of the extraction
// pipeline: cache lookup, source fetch, strategy selection with one-shot
// fallback, and cache store, composed into a single request lifecycle.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/recipereel/colette/internal/cache"
	apperrors "github.com/recipereel/colette/internal/errors"
	"github.com/recipereel/colette/internal/lang"
	"github.com/recipereel/colette/internal/metrics"
	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/parser"
	"github.com/recipereel/colette/internal/services/scraper"
	"github.com/recipereel/colette/internal/validation"
)

// Request describes one extraction: a post URL, the language the recipe
// should be rendered in and the preferred parsing strategy.
type Request struct {
	URL      string
	Language string
	Strategy recipe.Strategy
}

// Result is a successful extraction. Strategy is the strategy that actually
// produced the recipe, which differs from the requested one after a
// fallback.
type Result struct {
	Recipe    *recipe.Recipe  `json:"recipe"`
	Strategy  recipe.Strategy `json:"strategy"`
	FromCache bool            `json:"from_cache"`
}

// Sourcer fetches a post for a URL; satisfied by scraper.Registry.
type Sourcer interface {
	Scrape(ctx context.Context, postURL string) (*scraper.SourcePost, error)
}

// PostCache caches scraped posts across languages of the same URL.
// Satisfied by cache.PostCache; nil disables it.
type PostCache interface {
	Get(ctx context.Context, url string) (*scraper.SourcePost, error)
	Set(ctx context.Context, url string, post *scraper.SourcePost, ttl time.Duration) error
	Delete(ctx context.Context, url string) error
}

// Options carry the process-wide extraction configuration, passed in at
// construction rather than read ambiently inside the strategies.
type Options struct {
	DefaultLanguage string
	DefaultStrategy recipe.Strategy
	PostCacheTTL    time.Duration
}

// Orchestrator drives the per-request state machine:
// RECEIVED → CACHE_LOOKUP → {HIT: RETURN} | {MISS: FETCH_SOURCE → PARSE → STORE → RETURN}.
type Orchestrator struct {
	coordinator *cache.Coordinator
	sourcer     Sourcer
	postCache   PostCache
	strategies  parser.Set
	opts        Options
}

func New(coordinator *cache.Coordinator, sourcer Sourcer, postCache PostCache, strategies parser.Set, opts Options) *Orchestrator {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = recipe.StrategyHeuristic
	}
	if opts.PostCacheTTL <= 0 {
		opts.PostCacheTTL = 24 * time.Hour
	}
	return &Orchestrator{
		coordinator: coordinator,
		sourcer:     sourcer,
		postCache:   postCache,
		strategies:  strategies,
		opts:        opts,
	}
}

// Extract runs one request through the pipeline. Concurrent requests for the
// same (URL, language) key collapse into a single scrape+parse.
func (o *Orchestrator) Extract(ctx context.Context, req Request) (*Result, error) {
	if req.Language == "" {
		req.Language = o.opts.DefaultLanguage
	}
	req.Language = lang.Get(req.Language).Code
	if req.Strategy == "" {
		req.Strategy = o.opts.DefaultStrategy
	}

	start := time.Now()

	rec, ok := o.coordinator.Lookup(ctx, req.URL, req.Language)
	metrics.CacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("hit", ok),
		attribute.String("language", req.Language),
	))
	if ok {
		o.countExtraction(ctx, rec.Recipe.SourcePlatform, rec.Strategy, true)
		r := rec.Recipe
		return &Result{Recipe: &r, Strategy: rec.Strategy, FromCache: true}, nil
	}

	val, shared, err := o.coordinator.Do(ctx, req.URL, req.Language, func(ctx context.Context) (interface{}, error) {
		return o.extractMiss(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	res := val.(*Result)
	metrics.ExtractionDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("strategy", string(res.Strategy)),
	))
	if shared {
		// Waiters piggybacked on another request's extraction; hand each
		// its own copy.
		cp := *res.Recipe
		res = &Result{Recipe: &cp, Strategy: res.Strategy, FromCache: res.FromCache}
	}
	return res, nil
}

// Reparse forces a fresh scrape and parse for the key, overwriting any
// cached entry while preserving its access counter.
func (o *Orchestrator) Reparse(ctx context.Context, req Request) (*Result, error) {
	if req.Language == "" {
		req.Language = o.opts.DefaultLanguage
	}
	req.Language = lang.Get(req.Language).Code
	if req.Strategy == "" {
		req.Strategy = o.opts.DefaultStrategy
	}

	if o.postCache != nil {
		_ = o.postCache.Delete(ctx, req.URL)
	}

	val, _, err := o.coordinator.Do(ctx, req.URL, req.Language, func(ctx context.Context) (interface{}, error) {
		return o.extractMiss(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return val.(*Result), nil
}

// extractMiss is the MISS arm: fetch, parse (with at most one ai→heuristic
// fallback), store. Runs under the key's single-flight claim.
func (o *Orchestrator) extractMiss(ctx context.Context, req Request) (*Result, error) {
	rules := lang.Get(req.Language)

	post, err := o.fetchSource(ctx, req.URL)
	if err != nil {
		return nil, o.classifySourceError(err, rules)
	}

	rec, used, err := o.parse(ctx, post, req)
	if err != nil {
		return nil, err
	}

	// A store failure never fails the request; the coordinator degrades
	// and the parsed recipe is still returned.
	o.coordinator.Store(ctx, req.URL, req.Language, rec, used)

	o.countExtraction(ctx, post.Platform, used, false)
	return &Result{Recipe: rec, Strategy: used, FromCache: false}, nil
}

func (o *Orchestrator) fetchSource(ctx context.Context, url string) (*scraper.SourcePost, error) {
	if o.postCache != nil {
		if post, _ := o.postCache.Get(ctx, url); post != nil {
			return post, nil
		}
	}

	post, err := o.sourcer.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	if o.postCache != nil {
		_ = o.postCache.Set(ctx, url, post, o.opts.PostCacheTTL)
	}
	return post, nil
}

// parse applies the requested strategy. An AI-assisted failure triggers
// exactly one heuristic fallback; a heuristic failure is terminal.
func (o *Orchestrator) parse(ctx context.Context, post *scraper.SourcePost, req Request) (*recipe.Recipe, recipe.Strategy, error) {
	rules := lang.Get(req.Language)
	strat := o.strategies.For(req.Strategy)

	rec, err := strat.Parse(ctx, post, req.Language)
	if err == nil {
		return rec, strat.Type(), nil
	}

	if strat.Type() == recipe.StrategyAIAssisted {
		slog.Info("AI-assisted parsing failed, falling back to heuristic",
			"url", req.URL, "language", req.Language, "error", err.Error())
		metrics.StrategyFallbackTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from_strategy", string(recipe.StrategyAIAssisted)),
			attribute.String("to_strategy", string(recipe.StrategyHeuristic)),
		))

		rec, fallbackErr := o.strategies.Heuristic.Parse(ctx, post, req.Language)
		if fallbackErr == nil {
			return rec, recipe.StrategyHeuristic, nil
		}
		err = fmt.Errorf("ai-assisted: %w; heuristic fallback: %v", err, fallbackErr)
	}

	quick := validation.QuickValidate(post.Caption, rules)
	slog.Warn("extraction produced no structured recipe",
		"url", req.URL, "language", req.Language,
		"caption_nontrivial", quick.NonTrivial, "reason", quick.Reason)

	return nil, "", apperrors.NewUnstructurableError(rules.Message("UNSTRUCTURABLE_CONTENT"), err)
}

func (o *Orchestrator) classifySourceError(err error, rules *lang.Rules) error {
	switch {
	case errors.Is(err, scraper.ErrInvalidURL):
		return apperrors.NewValidationError(rules.Message("INVALID_URL"), "INVALID_URL")
	case errors.Is(err, scraper.ErrUnsupportedPlatform):
		return apperrors.NewValidationError(rules.Message("UNSUPPORTED_PLATFORM"), "UNSUPPORTED_PLATFORM")
	case errors.Is(err, scraper.ErrRateLimited):
		return apperrors.NewRateLimitError(rules.Message("RATE_LIMITED"), "RATE_LIMITED")
	default:
		return apperrors.NewSourceUnavailableError(rules.Message("SOURCE_UNAVAILABLE"), "SOURCE_UNAVAILABLE", err)
	}
}

func (o *Orchestrator) countExtraction(ctx context.Context, platform recipe.Platform, strategy recipe.Strategy, hit bool) {
	metrics.ExtractionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("platform", string(platform)),
		attribute.String("strategy", string(strategy)),
		attribute.Bool("cache_hit", hit),
	))
}

// CacheStats exposes the coordinator's statistics to the transport layer.
func (o *Orchestrator) CacheStats(ctx context.Context) (cache.Stats, error) {
	return o.coordinator.Stats(ctx)
}
