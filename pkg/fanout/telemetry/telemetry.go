// Package telemetry detects host machine facts (CPU cores, memory, load
// averages, platform capabilities) that drive worker sizing for the fanout
// task engine. Detection is platform-dispatched via build tags and never
// fails: any probe error degrades to a documented conservative default so
// a batch job is never blocked by a telemetry problem.
package telemetry

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fanout/pkg/fanout/logging"
)

// Default values substituted when a probe fails.
const (
	// DefaultCPUCores is assumed when core-count detection fails.
	DefaultCPUCores = 4

	// DefaultMemoryTotal is assumed when memory detection fails (8 GiB,
	// a reasonable floor for modern machines).
	DefaultMemoryTotal = 8 * 1024 * 1024 * 1024
)

// busyLoadFraction is the fraction of core count above which the
// 1-minute load average marks the system as busy.
const busyLoadFraction = 0.8

// Snapshot is a point-in-time read of host resources. It is a plain
// value: callers may copy it freely and re-Detect as often as they like
// across a long-running batch.
type Snapshot struct {
	// CPUCores is the number of CPU cores. Physical cores are preferred
	// where the platform exposes them, logical cores otherwise.
	CPUCores int

	// MemoryTotal is the total physical memory in bytes.
	MemoryTotal int64

	// MemoryAvailable is the estimated available memory in bytes.
	// Platform-specific heuristics apply; treat as approximate.
	MemoryAvailable int64

	// Load1, Load5 and Load15 are the OS load averages. Zero on
	// platforms without the concept and on detection failure.
	Load1  float64
	Load5  float64
	Load15 float64

	// AppleSilicon is true on Apple Silicon (arm64 darwin) hosts.
	AppleSilicon bool

	// GPUAvailable is a coarse flag for accelerator presence.
	GPUAvailable bool
}

// SystemBusy reports whether the 1-minute load average exceeds 80% of
// the core count.
func (s Snapshot) SystemBusy() bool {
	return s.Load1 > float64(s.CPUCores)*busyLoadFraction
}

// MemoryAvailableMB returns the available memory in whole megabytes.
func (s Snapshot) MemoryAvailableMB() int {
	return int(s.MemoryAvailable / (1024 * 1024))
}

// String renders the snapshot for logs and diagnostics.
func (s Snapshot) String() string {
	return fmt.Sprintf("cores=%d mem=%s/%s load=%.2f/%.2f/%.2f",
		s.CPUCores,
		humanize.IBytes(uint64(s.MemoryAvailable)),
		humanize.IBytes(uint64(s.MemoryTotal)),
		s.Load1, s.Load5, s.Load15)
}

// probes holds the per-platform detection hooks. Each hook may fail;
// detectWith substitutes defaults so Detect itself never can.
type probes struct {
	cores    func() (int, error)
	memory   func() (total, available int64, err error)
	loadAvg  func() (load1, load5, load15 float64, err error)
	platform func() (appleSilicon, gpuAvailable bool)
}

// Detect reads the current host telemetry. It never fails: each probe
// error is logged at warn level and replaced by the package defaults
// (4 cores, zero loads, 8 GiB total with half available). The snapshot
// is recomputed on every call, never cached.
func Detect() Snapshot {
	return detectWith(platformProbes())
}

// detectWith runs the given probes with fallback defaults. Split from
// Detect so tests can inject failing probes.
func detectWith(p probes) Snapshot {
	logger := logging.Get("telemetry")

	snap := Snapshot{
		CPUCores:        DefaultCPUCores,
		MemoryTotal:     DefaultMemoryTotal,
		MemoryAvailable: DefaultMemoryTotal / 2,
	}

	if p.cores != nil {
		if cores, err := p.cores(); err == nil && cores > 0 {
			snap.CPUCores = cores
		} else if err != nil {
			logger.Warn("cpu core detection failed, using default",
				"default", DefaultCPUCores, "error", err)
		}
	}

	if p.memory != nil {
		if total, available, err := p.memory(); err == nil && total > 0 {
			snap.MemoryTotal = total
			snap.MemoryAvailable = available
		} else if err != nil {
			logger.Warn("memory detection failed, using default",
				"default_total", DefaultMemoryTotal, "error", err)
		}
	}

	if p.loadAvg != nil {
		if l1, l5, l15, err := p.loadAvg(); err == nil {
			snap.Load1, snap.Load5, snap.Load15 = l1, l5, l15
		} else {
			logger.Warn("load average detection failed, using zero", "error", err)
		}
	}

	if p.platform != nil {
		snap.AppleSilicon, snap.GPUAvailable = p.platform()
	}

	return snap
}
