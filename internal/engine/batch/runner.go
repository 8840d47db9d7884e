// internal/engine/batch/runner.go
package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Runner processes a list of items on a bounded number of workers
type Runner struct {
	concurrency int
}

// New creates a Runner. See Resolve for how concurrency is interpreted.
func New(concurrency int) *Runner {
	return &Runner{concurrency: Resolve(concurrency)}
}

// Concurrency returns the number of workers
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// Process calls fn for every item and returns the results in item order,
// regardless of completion order. onDone, if set, is called after each item
// completes and may be called from several goroutines at once.
// Items not dispatched before ctx is cancelled are left as the zero value and
// done reports false for them.
func Process[T, R any](ctx context.Context, r *Runner, items []T, fn func(context.Context, T) R, onDone func(int, R)) (results []R, done []bool) {
	results = make([]R, len(items))
	done = make([]bool, len(items))
	if len(items) == 0 {
		return results, done
	}

	workers := r.concurrency
	if workers > len(items) {
		workers = len(items)
	}

	queue := make(chan int)
	var wg sync.WaitGroup

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range queue {
				log.Debug().Int("worker_id", id).Int("item", i).Msg("Worker processing item")
				res := fn(ctx, items[i])
				// each slot is written by exactly one worker
				results[i] = res
				done[i] = true
				if onDone != nil {
					onDone(i, res)
				}
			}
		}(w)
	}

dispatch:
	for i := range items {
		if ctx.Err() != nil {
			log.Debug().Int("dispatched", i).Int("total", len(items)).Msg("Batch cancelled")
			break
		}
		select {
		case queue <- i:
		case <-ctx.Done():
			log.Debug().Int("dispatched", i).Int("total", len(items)).Msg("Batch cancelled")
			break dispatch
		}
	}
	close(queue)
	wg.Wait()

	return results, done
}
