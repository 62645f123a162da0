package pool

import (
	"context"
	"sync"
)

// WorkerFunc processes one item and may return an error.
type WorkerFunc[T any] func(ctx context.Context, item T) error

// Run processes items on numWorkers goroutines and returns the errors that
// occurred. Feeding stops when ctx is cancelled.
func Run[T any](ctx context.Context, items []T, numWorkers int, workerFunc WorkerFunc[T]) []error {
	results := Map(ctx, items, numWorkers, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, workerFunc(ctx, item)
	})
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Result is the outcome for the item at the same index.
type Result[R any] struct {
	Value R
	Err   error
}

// Map applies fn to every item on numWorkers goroutines. The result slice is
// index-aligned with items; items never started because ctx was cancelled
// carry ctx.Err().
func Map[T, R any](ctx context.Context, items []T, numWorkers int, fn func(ctx context.Context, item T) (R, error)) []Result[R] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	results := make([]Result[R], len(items))
	started := make([]bool, len(items))
	taskChan := make(chan int, numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskChan {
				if ctx.Err() != nil {
					continue
				}
				started[idx] = true
				v, err := fn(ctx, items[idx])
				results[idx] = Result[R]{Value: v, Err: err}
			}
		}()
	}

OUT:
	for idx := range items {
		select {
		case taskChan <- idx:
		case <-ctx.Done():
			break OUT
		}
	}
	close(taskChan)
	wg.Wait()

	for idx := range results {
		if !started[idx] {
			results[idx].Err = ctx.Err()
		}
	}
	return results
}
