//go:build darwin

package telemetry

import (
	"encoding/binary"
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// platformProbes returns the darwin (macOS) detection hooks, backed by
// read-only sysctl queries.
func platformProbes() probes {
	return probes{
		cores:    detectCores,
		memory:   detectMemory,
		loadAvg:  detectLoadAvg,
		platform: detectPlatform,
	}
}

// detectCores prefers the physical core count (hw.physicalcpu) and falls
// back to logical cores (hw.ncpu, then runtime.NumCPU).
func detectCores() (int, error) {
	if physical, err := unix.SysctlUint32("hw.physicalcpu"); err == nil && physical > 0 {
		return int(physical), nil
	}
	if logical, err := unix.SysctlUint32("hw.ncpu"); err == nil && logical > 0 {
		return int(logical), nil
	}
	return runtime.NumCPU(), nil
}

// detectMemory reads total physical memory via sysctl hw.memsize.
// Precise available memory on macOS requires host_statistics or parsing
// vm_stat; a conservative 50% heuristic is sufficient for worker sizing.
func detectMemory() (total, available int64, err error) {
	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, 0, fmt.Errorf("sysctl hw.memsize: %w", err)
	}
	total = int64(memsize)
	return total, total / 2, nil
}

// detectLoadAvg decodes the vm.loadavg sysctl. The kernel returns
// struct loadavg: three fixed-point uint32 samples followed by the
// scaling factor.
func detectLoadAvg() (load1, load5, load15 float64, err error) {
	raw, err := unix.SysctlRaw("vm.loadavg")
	if err != nil {
		return 0, 0, 0, fmt.Errorf("sysctl vm.loadavg: %w", err)
	}
	// 3 x uint32 samples, padding, then int64 fscale at offset 16.
	if len(raw) < 24 {
		return 0, 0, 0, fmt.Errorf("sysctl vm.loadavg: short read (%d bytes)", len(raw))
	}

	fscale := float64(binary.LittleEndian.Uint64(raw[16:24]))
	if fscale <= 0 {
		return 0, 0, 0, fmt.Errorf("sysctl vm.loadavg: invalid fscale")
	}

	load1 = float64(binary.LittleEndian.Uint32(raw[0:4])) / fscale
	load5 = float64(binary.LittleEndian.Uint32(raw[4:8])) / fscale
	load15 = float64(binary.LittleEndian.Uint32(raw[8:12])) / fscale
	return load1, load5, load15, nil
}

// detectPlatform reports capability flags. Every Apple Silicon machine
// ships an on-die GPU usable through Metal, so both flags track arm64.
func detectPlatform() (appleSilicon, gpuAvailable bool) {
	arm := runtime.GOARCH == "arm64"
	return arm, arm
}
