// Package config provides configuration management for the fanout task runner.
package config

// Default configuration values for fanout.
const (
	// DefaultPath is the default path to process when none is specified.
	DefaultPath = "."

	// DefaultConfigDir is the default configuration directory path.
	DefaultConfigDir = "~/.config/fanout"

	// DefaultShape is the workload shape assumed when none is configured.
	DefaultShape = "mixed"

	// DefaultStrategy is the fan-out strategy used when none is configured.
	DefaultStrategy = "pooled"

	// DefaultBatchDivisor controls how many batches each worker receives.
	DefaultBatchDivisor = 3

	// DefaultMemoryPerWorkerMB caps workers by available memory. Zero
	// disables the memory bound.
	DefaultMemoryPerWorkerMB = 0
)

// DefaultExclusions contains paths that should be excluded from file
// discovery by default.
var DefaultExclusions = []string{
	"/proc",
	"/sys",
	"/dev",
}
