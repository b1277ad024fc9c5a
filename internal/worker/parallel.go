package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ParallelFunc is a function that can be executed in parallel.
type ParallelFunc func(ctx context.Context) error

// ParallelResult holds the results from parallel operations.
type ParallelResult struct {
	Errors []error
}

// RunParallel executes multiple functions concurrently and returns when all
// complete. Errors are collected rather than aborting the remaining
// functions; context cancellation still stops all goroutines.
func RunParallel(ctx context.Context, funcs []ParallelFunc) ParallelResult {
	if len(funcs) == 0 {
		return ParallelResult{}
	}

	g, ctx := errgroup.WithContext(ctx)
	errors := make([]error, len(funcs))
	var mu sync.Mutex

	for i, fn := range funcs {
		i, fn := i, fn
		g.Go(func() error {
			if err := fn(ctx); err != nil {
				mu.Lock()
				errors[i] = err
				mu.Unlock()
			}
			// Returning nil keeps the group from cancelling siblings on
			// the first failure.
			return nil
		})
	}

	_ = g.Wait()

	var nonNilErrors []error
	for _, err := range errors {
		if err != nil {
			nonNilErrors = append(nonNilErrors, err)
		}
	}

	return ParallelResult{Errors: nonNilErrors}
}
