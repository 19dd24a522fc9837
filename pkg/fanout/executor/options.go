package executor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jamesainslie/fanout/pkg/fanout/progress"
	"github.com/jamesainslie/fanout/pkg/fanout/sizing"
	"github.com/jamesainslie/fanout/pkg/fanout/telemetry"
)

// Strategy selects how a batch is fanned out across goroutines.
type Strategy int

const (
	// StrategyPooled is the default: a fixed set of workers pulling
	// indexed items from a shared queue. Small inputs fall back to
	// sequential processing.
	StrategyPooled Strategy = iota

	// StrategyBatched splits the input into consecutive chunks and
	// runs each chunk through the pooled path in turn. Preferred for
	// very large item lists since it bounds work held in flight.
	StrategyBatched

	// StrategyGated starts one goroutine per item immediately, but
	// admits at most MaxConcurrent of them into the task at once.
	// Meant for externally rate-limited work such as remote API calls.
	StrategyGated
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyPooled:
		return "pooled"
	case StrategyBatched:
		return "batched"
	case StrategyGated:
		return "gated"
	default:
		return "unknown"
	}
}

// ErrInvalidStrategy is returned when an unrecognized strategy is parsed
// or configured.
var ErrInvalidStrategy = errors.New("invalid strategy")

// ParseStrategy parses a string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "pooled":
		return StrategyPooled, nil
	case "batched":
		return StrategyBatched, nil
	case "gated":
		return StrategyGated, nil
	default:
		return StrategyPooled, fmt.Errorf("%w: %s", ErrInvalidStrategy, s)
	}
}

// Configuration errors. These are programmer errors: Execute fails fast
// with one of them before any work is dispatched.
var (
	ErrInvalidWorkers         = errors.New("workers must not be negative")
	ErrInvalidMaxConcurrent   = errors.New("max concurrent must not be negative")
	ErrInvalidBatchSize       = errors.New("batch size must not be negative")
	ErrInvalidBatchDivisor    = errors.New("batch divisor must not be negative")
	ErrInvalidMemoryPerWorker = errors.New("memory per worker must not be negative")
)

// Options configures a single Execute invocation. The zero value is
// valid: telemetry-derived defaults fill every unset field.
type Options struct {
	// Workers is the worker count for the pooled and batched
	// strategies. Zero means size from a fresh telemetry snapshot.
	Workers int

	// Shape hints the sizing policy when Workers is zero.
	Shape sizing.TaskShape

	// MemoryPerWorkerMB caps auto-sized workers by available memory.
	// Zero means no memory bound.
	MemoryPerWorkerMB int

	// MaxConcurrent is the gate capacity for StrategyGated. Zero means
	// use the resolved worker count.
	MaxConcurrent int

	// BatchSize is the chunk length for StrategyBatched. Zero means
	// derive it from the batch sizing policy.
	BatchSize int

	// BatchDivisor overrides the batch sizing divisor. Zero means the
	// policy default.
	BatchDivisor int

	// Strategy selects the fan-out strategy.
	Strategy Strategy

	// Progress optionally receives completion updates. The engine
	// behaves identically when nil.
	Progress progress.Reporter
}

// validate is the fail-fast configuration pass. It runs before any
// goroutine is spawned.
func (o Options) validate() error {
	if o.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, o.Workers)
	}
	if o.MaxConcurrent < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxConcurrent, o.MaxConcurrent)
	}
	if o.BatchSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, o.BatchSize)
	}
	if o.BatchDivisor < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchDivisor, o.BatchDivisor)
	}
	if o.MemoryPerWorkerMB < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMemoryPerWorker, o.MemoryPerWorkerMB)
	}
	if o.Strategy < StrategyPooled || o.Strategy > StrategyGated {
		return fmt.Errorf("%w: %d", ErrInvalidStrategy, int(o.Strategy))
	}
	return nil
}

// Plan is the concurrency plan for one invocation: derived once from
// the options and a telemetry snapshot, then never mutated.
type Plan struct {
	// Workers is the resolved worker count, in [1, item count].
	Workers int

	// BatchSize is the resolved chunk length, >= 1.
	BatchSize int

	// MaxConcurrent is the resolved gate capacity, >= 1.
	MaxConcurrent int

	// Strategy is the chosen fan-out strategy.
	Strategy Strategy
}

// PlanFor validates the options and computes the concurrency plan that
// Execute would use for a batch of the given size. Exposed so callers
// and the CLI can inspect the plan without running work.
func PlanFor(items int, opts Options) (Plan, error) {
	if err := opts.validate(); err != nil {
		return Plan{}, err
	}
	if items < 0 {
		items = 0
	}
	return planFor(items, opts), nil
}

// planFor resolves worker count, batch size and gate capacity.
// Auto-sizing samples telemetry at most once per invocation.
func planFor(items int, opts Options) Plan {
	workers := opts.Workers
	if workers == 0 {
		snap := telemetry.Detect()
		workers = sizing.Workers(snap, opts.Shape, opts.MemoryPerWorkerMB)
	}
	if items > 0 {
		workers = min(workers, items)
	}
	workers = max(workers, 1)

	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = sizing.BatchSizeWith(items, workers, opts.BatchDivisor)
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent == 0 {
		maxConcurrent = workers
	}

	return Plan{
		Workers:       workers,
		BatchSize:     batchSize,
		MaxConcurrent: maxConcurrent,
		Strategy:      opts.Strategy,
	}
}
