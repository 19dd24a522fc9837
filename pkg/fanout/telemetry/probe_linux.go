//go:build linux

package telemetry

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// sysinfoLoadScale converts the fixed-point load averages returned by
// sysinfo(2) (scaled by 1 << SI_LOAD_SHIFT).
const sysinfoLoadScale = 1 << 16

// platformProbes returns the linux detection hooks, backed by sysinfo(2)
// and read-only /proc files.
func platformProbes() probes {
	return probes{
		cores:    detectCores,
		memory:   detectMemory,
		loadAvg:  detectLoadAvg,
		platform: detectPlatform,
	}
}

// detectCores prefers the physical core count from /proc/cpuinfo and
// falls back to the logical count from runtime.NumCPU.
func detectCores() (int, error) {
	if physical := physicalCores("/proc/cpuinfo"); physical > 0 {
		return physical, nil
	}
	return runtime.NumCPU(), nil
}

// physicalCores counts unique (physical id, core id) pairs in cpuinfo.
// Returns 0 when the file is missing or lacks topology fields (common in
// containers and on some architectures).
func physicalCores(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var physicalID, coreID string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, ":")
		if !found {
			// Blank line ends a processor block.
			if physicalID != "" && coreID != "" {
				seen[physicalID+"/"+coreID] = struct{}{}
			}
			physicalID, coreID = "", ""
			continue
		}

		switch strings.TrimSpace(key) {
		case "physical id":
			physicalID = strings.TrimSpace(value)
		case "core id":
			coreID = strings.TrimSpace(value)
		}
	}
	if physicalID != "" && coreID != "" {
		seen[physicalID+"/"+coreID] = struct{}{}
	}

	return len(seen)
}

// detectMemory reads total memory from sysinfo(2). Available memory
// prefers MemAvailable from /proc/meminfo, which accounts for
// reclaimable page cache; Freeram is the fallback.
func detectMemory() (total, available int64, err error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return 0, 0, fmt.Errorf("sysinfo: %w", err)
	}

	unit := int64(si.Unit)
	if unit == 0 {
		unit = 1
	}
	total = int64(si.Totalram) * unit

	if avail := memAvailable("/proc/meminfo"); avail > 0 {
		return total, avail, nil
	}
	return total, int64(si.Freeram) * unit, nil
}

// memAvailable parses the MemAvailable line from meminfo (kB units).
// Returns 0 when the field is absent (kernels before 3.14).
func memAvailable(path string) int64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return kb * 1024
	}
	return 0
}

// detectLoadAvg reads the fixed-point load averages from sysinfo(2).
func detectLoadAvg() (load1, load5, load15 float64, err error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return 0, 0, 0, fmt.Errorf("sysinfo: %w", err)
	}

	load1 = float64(si.Loads[0]) / sysinfoLoadScale
	load5 = float64(si.Loads[1]) / sysinfoLoadScale
	load15 = float64(si.Loads[2]) / sysinfoLoadScale
	return load1, load5, load15, nil
}

// detectPlatform reports capability flags. On linux a GPU is assumed
// present when a well-known device node exists.
func detectPlatform() (appleSilicon, gpuAvailable bool) {
	for _, dev := range []string{"/dev/nvidia0", "/dev/dri/renderD128"} {
		if _, err := os.Stat(dev); err == nil {
			return false, true
		}
	}
	return false, false
}
