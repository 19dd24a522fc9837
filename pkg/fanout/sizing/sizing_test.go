package sizing

import (
	"errors"
	"testing"

	"github.com/jamesainslie/fanout/pkg/fanout/telemetry"
)

// snap builds a quiet snapshot with the given core count and 16 GiB
// available memory.
func snap(cores int) telemetry.Snapshot {
	return telemetry.Snapshot{
		CPUCores:        cores,
		MemoryTotal:     32 * 1024 * 1024 * 1024,
		MemoryAvailable: 16 * 1024 * 1024 * 1024,
	}
}

func TestWorkersByShape(t *testing.T) {
	tests := []struct {
		name  string
		cores int
		shape TaskShape
		want  int
	}{
		{"cpu-bound leaves headroom", 8, ShapeCPU, 4},
		{"cpu-bound small machine floors at one", 2, ShapeCPU, 1},
		{"io-bound oversubscribes", 8, ShapeIO, 16},
		{"mixed default", 8, ShapeMixed, 6},
		{"mixed small machine floors at one", 2, ShapeMixed, 1},
		{"single core", 1, ShapeIO, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Workers(snap(tt.cores), tt.shape, 0)
			if got != tt.want {
				t.Errorf("Workers(cores=%d, %v) = %d, want %d",
					tt.cores, tt.shape, got, tt.want)
			}
		})
	}
}

func TestWorkersAlwaysAtLeastOne(t *testing.T) {
	shapes := []TaskShape{ShapeMixed, ShapeCPU, ShapeIO}
	for cores := 0; cores <= 16; cores++ {
		for _, shape := range shapes {
			s := snap(cores)
			s.Load1 = float64(cores) * 2 // heavily overloaded
			if got := Workers(s, shape, 4096); got < 1 {
				t.Errorf("Workers(cores=%d, %v) = %d, want >= 1", cores, shape, got)
			}
		}
	}
}

func TestWorkersIOExceedsCPUBound(t *testing.T) {
	// For any machine with at least 5 cores the IO formula must
	// recommend strictly more workers than the CPU formula.
	for cores := 5; cores <= 64; cores++ {
		s := snap(cores)
		io := Workers(s, ShapeIO, 0)
		cpu := Workers(s, ShapeCPU, 0)
		if io <= cpu {
			t.Errorf("cores=%d: Workers(io)=%d <= Workers(cpu)=%d", cores, io, cpu)
		}
	}
}

func TestWorkersMemoryBound(t *testing.T) {
	s := snap(16)
	s.MemoryAvailable = 1024 * 1024 * 1024 // 1 GiB

	// 1024 MB available / 512 MB per worker = 2 workers, below the
	// CPU term of 14.
	if got := Workers(s, ShapeMixed, 512); got != 2 {
		t.Errorf("Workers(memory-bound) = %d, want 2", got)
	}

	// Zero estimate means the memory term is unbounded.
	if got := Workers(s, ShapeMixed, 0); got != 14 {
		t.Errorf("Workers(unbounded memory) = %d, want 14", got)
	}
}

func TestWorkersLoadFactor(t *testing.T) {
	s := snap(8)

	// Half loaded: mixed gives 6 workers * 0.5 = 3.
	s.Load1 = 4.0
	if got := Workers(s, ShapeMixed, 0); got != 3 {
		t.Errorf("Workers(half loaded) = %d, want 3", got)
	}

	// Fully loaded: the 0.25 floor applies, not a collapse to zero.
	// 6 * 0.25 = 1.5, rounds to 2.
	s.Load1 = 8.0
	if got := Workers(s, ShapeMixed, 0); got != 2 {
		t.Errorf("Workers(fully loaded) = %d, want 2 via the 0.25 floor", got)
	}

	// Load beyond core count still floors at 0.25.
	s.Load1 = 32.0
	if got := Workers(s, ShapeMixed, 0); got != 2 {
		t.Errorf("Workers(overloaded) = %d, want 2 via the 0.25 floor", got)
	}
}

func TestBatchSize(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		workers int
		want    int
	}{
		{"spreads into thirds per worker", 300, 10, 10},
		{"small input floors at one", 5, 10, 1},
		{"zero items", 0, 4, 1},
		{"single worker", 90, 1, 30},
		{"zero workers treated as one", 90, 0, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BatchSize(tt.total, tt.workers); got != tt.want {
				t.Errorf("BatchSize(%d, %d) = %d, want %d",
					tt.total, tt.workers, got, tt.want)
			}
		})
	}
}

func TestBatchSizeWithDivisor(t *testing.T) {
	if got := BatchSizeWith(400, 10, 2); got != 20 {
		t.Errorf("BatchSizeWith(divisor=2) = %d, want 20", got)
	}
	// Nonsense divisor falls back to the default.
	if got := BatchSizeWith(300, 10, 0); got != 10 {
		t.Errorf("BatchSizeWith(divisor=0) = %d, want 10", got)
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in      string
		want    TaskShape
		wantErr bool
	}{
		{"mixed", ShapeMixed, false},
		{"", ShapeMixed, false},
		{"cpu", ShapeCPU, false},
		{"CPU-Intensive", ShapeCPU, false},
		{"io", ShapeIO, false},
		{"io-intensive", ShapeIO, false},
		{"gpu", ShapeMixed, true},
	}

	for _, tt := range tests {
		got, err := ParseShape(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("ParseShape(%q) error = %v, want ErrInvalidShape", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseShape(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseShape(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShapeString(t *testing.T) {
	if ShapeMixed.String() != "mixed" || ShapeCPU.String() != "cpu" || ShapeIO.String() != "io" {
		t.Errorf("unexpected shape strings: %v %v %v", ShapeMixed, ShapeCPU, ShapeIO)
	}
}
