// Package sizing maps a telemetry snapshot and a caller-supplied task
// shape to recommended worker and batch counts. Both policies are pure
// functions: same inputs, same answer, no OS access.
//
// The worker policy is deliberately conservative (its floors favor fewer
// workers) because its main consumer is background automation sharing a
// desktop machine with interactive use.
package sizing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jamesainslie/fanout/pkg/fanout/telemetry"
)

// TaskShape hints whether work is CPU-bound, IO-bound, or a mix.
// It biases the CPU term of the worker formula.
type TaskShape int

const (
	// ShapeMixed is the default: work with both compute and IO phases.
	ShapeMixed TaskShape = iota

	// ShapeCPU marks compute-dominated work; sizing leaves headroom
	// for the rest of the machine.
	ShapeCPU

	// ShapeIO marks work that mostly waits on disks or networks;
	// sizing oversubscribes the cores.
	ShapeIO
)

// String returns the string representation of the shape.
func (s TaskShape) String() string {
	switch s {
	case ShapeMixed:
		return "mixed"
	case ShapeCPU:
		return "cpu"
	case ShapeIO:
		return "io"
	default:
		return "unknown"
	}
}

// ErrInvalidShape is returned when an unrecognized shape string is parsed.
var ErrInvalidShape = errors.New("invalid task shape")

// ParseShape parses a string into a TaskShape.
func ParseShape(s string) (TaskShape, error) {
	switch strings.ToLower(s) {
	case "", "mixed":
		return ShapeMixed, nil
	case "cpu", "cpu-intensive":
		return ShapeCPU, nil
	case "io", "io-intensive":
		return ShapeIO, nil
	default:
		return ShapeMixed, fmt.Errorf("%w: %s", ErrInvalidShape, s)
	}
}

// Worker formula constants.
const (
	// cpuShapeReserve is how many cores the CPU-bound formula leaves
	// for the rest of the machine.
	cpuShapeReserve = 4

	// mixedShapeReserve is how many cores the mixed formula leaves.
	mixedShapeReserve = 2

	// ioShapeMultiplier oversubscribes cores for IO-bound work.
	ioShapeMultiplier = 2

	// loadFactorFloor stops a loaded machine from collapsing
	// concurrency toward zero.
	loadFactorFloor = 0.25
)

// DefaultBatchDivisor targets roughly three batches of work in flight
// per worker so a slow item in one batch does not starve idle workers.
// Tunable via BatchSizeWith and the batch_divisor config key.
const DefaultBatchDivisor = 3

// Workers recommends a worker count for the given snapshot and shape.
//
// The calculation:
//  1. A CPU term per shape: cpu-bound max(cores-4, 1), io-bound cores*2,
//     mixed max(cores-2, 1).
//  2. A memory bound floor(availableMB / memoryPerWorkerMB) when
//     memoryPerWorkerMB > 0; otherwise the memory term is unbounded.
//  3. A load factor max(1 - load1/cores, 0.25) when load1 > 0.
//
// The result is round(min(cpu, memory) * loadFactor), clamped to >= 1.
func Workers(snap telemetry.Snapshot, shape TaskShape, memoryPerWorkerMB int) int {
	cores := snap.CPUCores
	if cores < 1 {
		cores = 1
	}

	var cpuWorkers int
	switch shape {
	case ShapeCPU:
		cpuWorkers = max(cores-cpuShapeReserve, 1)
	case ShapeIO:
		cpuWorkers = cores * ioShapeMultiplier
	default:
		cpuWorkers = max(cores-mixedShapeReserve, 1)
	}

	workers := cpuWorkers
	if memoryPerWorkerMB > 0 {
		memoryWorkers := snap.MemoryAvailableMB() / memoryPerWorkerMB
		workers = min(workers, memoryWorkers)
	}

	loadFactor := 1.0
	if snap.Load1 > 0 {
		loadFactor = math.Max(1.0-snap.Load1/float64(cores), loadFactorFloor)
	}

	return max(int(math.Round(float64(workers)*loadFactor)), 1)
}

// BatchSize recommends items per batch for the given totals using the
// default divisor.
func BatchSize(totalItems, workers int) int {
	return BatchSizeWith(totalItems, workers, DefaultBatchDivisor)
}

// BatchSizeWith is BatchSize with an explicit divisor: the batch size is
// max(totalItems / (workers * divisor), 1). Non-positive divisors fall
// back to the default.
func BatchSizeWith(totalItems, workers, divisor int) int {
	if workers < 1 {
		workers = 1
	}
	if divisor < 1 {
		divisor = DefaultBatchDivisor
	}
	return max(totalItems/(workers*divisor), 1)
}
