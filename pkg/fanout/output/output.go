// Package output provides formatters for displaying system snapshots,
// concurrency plans, and run summaries in various output formats
// (pretty, plain, json, jsonl).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"
)

// SnapshotInfo describes the detected system resources for formatting.
type SnapshotInfo struct {
	// CPUCores is the detected physical core count.
	CPUCores int `json:"cpu_cores"`

	// MemoryTotal is total system memory in bytes.
	MemoryTotal int64 `json:"memory_total"`

	// MemoryAvailable is memory available for new work in bytes.
	MemoryAvailable int64 `json:"memory_available"`

	// Load1, Load5 and Load15 are the load averages. Zero means the
	// probe was unavailable on this platform.
	Load1  float64 `json:"load_1"`
	Load5  float64 `json:"load_5"`
	Load15 float64 `json:"load_15"`

	// AppleSilicon reports an Apple Silicon host.
	AppleSilicon bool `json:"apple_silicon"`

	// GPUAvailable reports a usable GPU device.
	GPUAvailable bool `json:"gpu_available"`
}

// PlanInfo describes the resolved concurrency plan for formatting.
type PlanInfo struct {
	// Strategy is the fan-out strategy name.
	Strategy string `json:"strategy"`

	// Shape is the workload shape name.
	Shape string `json:"shape"`

	// Workers is the resolved worker count.
	Workers int `json:"workers"`

	// BatchSize is the resolved chunk length.
	BatchSize int `json:"batch_size"`

	// MaxConcurrent is the resolved gate capacity.
	MaxConcurrent int `json:"max_concurrent"`

	// Items is the number of items the plan was computed for.
	Items int `json:"items"`
}

// ItemResult is one item's outcome in a run summary.
type ItemResult struct {
	// Index is the item's position in the input.
	Index int `json:"index"`

	// Label identifies the item (a path, an ID).
	Label string `json:"label"`

	// Detail is the successful result rendered as text, empty on failure.
	Detail string `json:"detail,omitempty"`

	// Err is the failure message, empty on success.
	Err string `json:"error,omitempty"`
}

// RunStats contains statistics about a completed run.
type RunStats struct {
	// Total is the number of items processed.
	Total int `json:"total"`

	// Failed is the number of items whose task returned an error.
	Failed int `json:"failed"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Report contains the complete output data for formatting. Snapshot and
// Plan are optional so the same formatters serve the snapshot, plan and
// run commands.
type Report struct {
	// Snapshot is the detected system state, if requested.
	Snapshot *SnapshotInfo `json:"snapshot,omitempty"`

	// Plan is the resolved concurrency plan, if requested.
	Plan *PlanInfo `json:"plan,omitempty"`

	// Items contains per-item outcomes from a run.
	Items []ItemResult `json:"items,omitempty"`

	// Stats summarizes a run.
	Stats *RunStats `json:"stats,omitempty"`

	// Source is the input path or description the run covered.
	Source string `json:"source,omitempty"`

	// Warnings contains any warning messages generated during the run.
	Warnings []string `json:"warnings,omitempty"`
}

// Succeeded returns the number of items that completed without error.
func (r *Report) Succeeded() int {
	if r.Stats == nil {
		return 0
	}
	return r.Stats.Total - r.Stats.Failed
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
