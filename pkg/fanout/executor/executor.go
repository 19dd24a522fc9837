// Package executor fans a finite, in-memory list of work items out
// across goroutines and returns one result per item, in input order.
//
// Three strategies are offered: a bounded worker pool (the default), a
// batched pool that bounds work held in flight, and a semaphore-gated
// mode for externally rate-limited tasks. All three share the same
// contract: results[i] always belongs to items[i] regardless of
// completion order, and one failing item never aborts the batch.
//
// The engine provides no cancellation or timeout; Execute runs to
// completion. Callers needing deadlines enforce them inside the task.
//
// Basic usage:
//
//	results, err := executor.Execute(paths, executor.Options{
//	    Shape: sizing.ShapeIO,
//	}, checksumFile)
//	if err != nil {
//	    return err // configuration error, nothing was run
//	}
//	for i, r := range results {
//	    if !r.Ok() {
//	        log.Warn("skipped", "path", paths[i], "error", r.Err)
//	    }
//	}
package executor

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jamesainslie/fanout/pkg/fanout/logging"
	"github.com/jamesainslie/fanout/pkg/fanout/progress"
)

// poolingThreshold is the smallest input that justifies spinning up a
// worker pool. Below it, goroutine setup overhead dominates and the
// pooled path degrades to strict sequential processing.
const poolingThreshold = 4

// Task is the per-item work function. It must be safe to invoke
// concurrently. A returned error (or a panic, which is recovered) marks
// only that item's result slot as failed.
type Task[T, R any] func(item T) (R, error)

// Execute runs task over every item under the configured strategy and
// returns one Result per item, positionally matched to the input.
//
// The only error Execute itself returns is a configuration error from
// the fail-fast validation pass; per-item failures land in the result
// slice. An empty input returns an empty slice immediately without
// spawning workers.
func Execute[T, R any](items []T, opts Options, task Task[T, R]) ([]Result[R], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Result[R]{}, nil
	}

	plan := planFor(len(items), opts)
	logger := logging.Get("executor").With("run", runID())
	logger.Debug("batch starting",
		"items", len(items),
		"strategy", plan.Strategy.String(),
		"workers", plan.Workers,
		"batch_size", plan.BatchSize)

	tr := &tracker{reporter: opts.Progress}
	results := make([]Result[R], len(items))

	switch plan.Strategy {
	case StrategyBatched:
		runBatched(items, results, plan, task, tr, logger)
	case StrategyGated:
		runGated(items, results, plan, task, tr, logger)
	default:
		runPooled(items, results, plan.Workers, 0, task, tr, logger)
	}

	tr.finish(len(items))

	if failed := len(Failures(results)); failed > 0 {
		logger.Warn("batch finished with failures",
			"items", len(items), "failed", failed)
	} else {
		logger.Debug("batch finished", "items", len(items))
	}

	return results, nil
}

// runID returns a short correlation id for one invocation's log lines.
func runID() string {
	return uuid.NewString()[:8]
}

// tracker drives the optional progress reporter from an atomic
// completion counter shared by all workers. Delivery to the reporter is
// serialized under a mutex so observed counts never go backwards: a
// worker holding a stale count finds a newer one already reported and
// stays silent.
type tracker struct {
	reporter progress.Reporter
	done     atomic.Int64

	mu       sync.Mutex
	reported int64
}

// step records one completed item (failed or not) and forwards the new
// count to the reporter unless a higher count was already delivered.
func (t *tracker) step() {
	n := t.done.Add(1)
	if t.reporter == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if n > t.reported {
		t.reported = n
		t.reporter.SetCurrent(int(n))
	}
}

// finish pins the count to the total and fires Finish. The total is
// reported even when items failed, so consumers always see completion.
func (t *tracker) finish(total int) {
	if t.reporter == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.reported = int64(total)
	t.reporter.SetCurrent(total)
	t.reporter.Finish()
}

// invoke runs the task for one item, converting panics into per-item
// errors. The index is global to the batch for log correlation.
func invoke[T, R any](index int, item T, task Task[T, R], logger *logging.Logger) (res Result[R]) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "index", index, "panic", r)
			res = Result[R]{Err: fmt.Errorf("task panicked: %v", r)}
		}
	}()

	value, err := task(item)
	if err != nil {
		logger.Error("task failed", "index", index, "error", err)
		return Result[R]{Err: err}
	}
	return Result[R]{Value: value}
}

// runPooled executes items with a fixed worker pool, writing each
// outcome into results at the item's own index. items and results must
// have equal length; offset is the position of items[0] in the overall
// batch (non-zero when called per chunk from the batched strategy).
//
// Inputs below poolingThreshold, or a single resolved worker, process
// sequentially: for tiny batches the pool costs more than it saves.
func runPooled[T, R any](items []T, results []Result[R], workers, offset int, task Task[T, R], tr *tracker, logger *logging.Logger) {
	workers = min(workers, len(items))

	if len(items) < poolingThreshold || workers == 1 {
		for i, item := range items {
			results[i] = invoke(offset+i, item, task, logger)
			tr.step()
		}
		return
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = invoke(offset+i, items[i], task, logger)
				tr.step()
			}
		}()
	}

	for i := range items {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}
