package executor

import "github.com/jamesainslie/fanout/pkg/fanout/logging"

// runBatched splits the input into consecutive chunks of plan.BatchSize
// and runs each chunk through the pooled path in turn. Chunks execute
// one after another, so at most one chunk's worth of work is in flight;
// results land in the shared slice at their global positions, which
// preserves ordering across chunk boundaries.
//
// The chunks share one tracker: progress counts are global to the
// batch, not reset per chunk.
func runBatched[T, R any](items []T, results []Result[R], plan Plan, task Task[T, R], tr *tracker, logger *logging.Logger) {
	size := max(plan.BatchSize, 1)

	for lo := 0; lo < len(items); lo += size {
		hi := min(lo+size, len(items))
		runPooled(items[lo:hi], results[lo:hi], plan.Workers, lo, task, tr, logger)
	}
}
