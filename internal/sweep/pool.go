// Package sweep runs many independent engine instances in parallel and
// aggregates their outcomes per parameter point.
package sweep

import (
	"context"
	"runtime"
	"sync"
)

type indexed[R any] struct {
	idx int
	res R
}

// run evaluates fn for every job on workers goroutines and returns the
// results in job order. Each job must own all the state it touches.
func run[J, R any](ctx context.Context, workers int, jobs []J, fn func(J) R) ([]R, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = max(1, len(jobs))
	}

	queue := make(chan int)
	results := make(chan indexed[R])
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				results <- indexed[R]{idx: idx, res: fn(jobs[idx])}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(queue)
		for idx := range jobs {
			select {
			case queue <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := make([]R, len(jobs))
	for r := range results {
		out[r.idx] = r.res
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
