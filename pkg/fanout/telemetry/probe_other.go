//go:build !darwin && !linux

package telemetry

import "runtime"

// platformProbes returns detection hooks for platforms without native
// probes. Core count comes from the runtime; memory and load averages
// fall back to the package defaults.
func platformProbes() probes {
	return probes{
		cores: func() (int, error) {
			return runtime.NumCPU(), nil
		},
		// No memory or load probes: detectWith substitutes defaults.
	}
}
