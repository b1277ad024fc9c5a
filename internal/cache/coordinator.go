package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/recipereel/colette/internal/errors"
	"github.com/recipereel/colette/internal/recipe"
	"golang.org/x/sync/singleflight"
)

const touchTimeout = 5 * time.Second

// Coordinator fronts the Store with the concurrency discipline the pipeline
// relies on: at most one extraction in flight per key, non-blocking access
// counting, and pass-through degradation when the store is unavailable.
type Coordinator struct {
	store Store
	group singleflight.Group

	// degraded flips once per transition so the condition is logged once,
	// not once per request.
	degraded atomic.Bool

	// pending tracks in-flight async counter bumps so tests and shutdown
	// can drain them.
	pending sync.WaitGroup
}

func NewCoordinator(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// Lookup returns the cached record for a key if present. A hit increments
// the access counter asynchronously; returning the record never waits on
// that write.
func (c *Coordinator) Lookup(ctx context.Context, url, language string) (*Record, bool) {
	rec, err := c.store.Get(ctx, url, language)
	if err != nil {
		c.markDegraded(err)
		return nil, false
	}
	c.markHealthy()
	if rec == nil {
		return nil, false
	}

	c.pending.Add(1)
	go func(ctx context.Context) {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, touchTimeout)
		defer cancel()
		if err := c.store.Touch(ctx, url, language); err != nil {
			c.markDegraded(err)
		}
	}(context.WithoutCancel(ctx))

	out := *rec
	return &out, true
}

// Store creates or overwrites the record for a key. A store failure degrades
// to a no-op: the caller still gets a record to return.
func (c *Coordinator) Store(ctx context.Context, url, language string, r *recipe.Recipe, strategy recipe.Strategy) *Record {
	rec := &Record{
		Recipe:         *r,
		Strategy:       strategy,
		CreatedAt:      r.CreatedAt,
		LastAccessedAt: r.CreatedAt,
	}
	if err := c.store.Put(ctx, url, language, rec); err != nil {
		c.markDegraded(err)
		return rec
	}
	c.markHealthy()
	return rec
}

// Stats returns cache totals; zeros while degraded.
func (c *Coordinator) Stats(ctx context.Context) (Stats, error) {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		c.markDegraded(err)
		return Stats{}, nil
	}
	c.markHealthy()
	return stats, nil
}

// Do collapses concurrent calls for the same key into one execution of fn;
// waiters share the leader's result. The claim on the key is released as
// soon as fn returns, including on cancellation, so an abandoned request
// never wedges the key.
func (c *Coordinator) Do(ctx context.Context, url, language string, fn func(context.Context) (interface{}, error)) (interface{}, bool, error) {
	key := url + "\x00" + language

	// singleflight releases the key when fn returns, so cancellation can
	// never leave the key claimed.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return fn(ctx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		// The leader keeps running for any remaining waiters; this
		// caller just stops listening.
		return nil, false, ctx.Err()
	}
}

// Degraded reports whether the coordinator is currently in pass-through mode.
func (c *Coordinator) Degraded() bool {
	return c.degraded.Load()
}

func (c *Coordinator) markDegraded(err error) {
	if c.degraded.CompareAndSwap(false, true) {
		appErr := apperrors.NewCacheDegradedError(err)
		slog.Warn("cache store unavailable, degrading to pass-through",
			"error_code", appErr.Code(), "error", appErr.Error())
	}
}

func (c *Coordinator) markHealthy() {
	if c.degraded.CompareAndSwap(true, false) {
		slog.Info("cache store recovered")
	}
}
