package executor

import (
	"context"
	"sync"

	"github.com/jamesainslie/fanout/pkg/fanout/logging"
	"golang.org/x/sync/semaphore"
)

// runGated starts one goroutine per item immediately; each must acquire
// a slot from a counting semaphore of capacity plan.MaxConcurrent before
// invoking the task, so at most that many tasks run at once no matter
// how many goroutines are pending. The slot release is deferred, so a
// failing or panicking task still frees its slot.
//
// This trades goroutine-count economy for per-item independence, which
// suits externally rate-limited work where callers retry individual
// items upstream.
func runGated[T, R any](items []T, results []Result[R], plan Plan, task Task[T, R], tr *tracker, logger *logging.Logger) {
	gate := semaphore.NewWeighted(int64(plan.MaxConcurrent))
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			// Background context: the engine runs to completion,
			// so Acquire cannot fail.
			_ = gate.Acquire(context.Background(), 1)
			defer gate.Release(1)

			results[i] = invoke(i, items[i], task, logger)
			tr.step()
		}(i)
	}

	wg.Wait()
}
