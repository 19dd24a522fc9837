package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		Snapshot: &SnapshotInfo{
			CPUCores:        8,
			MemoryTotal:     17179869184, // 16 GiB
			MemoryAvailable: 8589934592,  // 8 GiB
			Load1:           1.5,
			Load5:           1.2,
			Load15:          0.9,
		},
		Plan: &PlanInfo{
			Strategy:      "pooled",
			Shape:         "mixed",
			Workers:       6,
			BatchSize:     10,
			MaxConcurrent: 6,
			Items:         180,
		},
		Items: []ItemResult{
			{Index: 0, Label: "a.txt", Detail: "done"},
			{Index: 1, Label: "b.txt", Err: "permission denied"},
			{Index: 2, Label: "c.txt", Detail: "done"},
		},
		Stats: &RunStats{
			Total:    3,
			Failed:   1,
			Duration: 1500 * time.Millisecond,
		},
		Source:   "/home/user/work",
		Warnings: []string{"skipped symlink: /home/user/work/link"},
	}
}

func TestReportSucceeded(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 2, r.Succeeded())

	empty := &Report{}
	assert.Equal(t, 0, empty.Succeeded())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	reg.Register("test", func() Formatter {
		return &PlainFormatter{}
	})

	formatter, err := reg.Get("test")
	require.NoError(t, err)
	assert.NotNil(t, formatter)

	_, err = reg.Get("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formatter")
}

func TestRegistryAvailable(t *testing.T) {
	reg := NewRegistry()
	reg.Register("zebra", func() Formatter { return &PlainFormatter{} })
	reg.Register("alpha", func() Formatter { return &PlainFormatter{} })

	assert.Equal(t, []string{"alpha", "zebra"}, reg.Available())
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	for _, name := range []string{"pretty", "plain", "json", "jsonl"} {
		formatter, err := Get(name)
		require.NoError(t, err, "formatter %q should be registered", name)
		assert.NotNil(t, formatter)
	}
}

func TestAllFormattersHandleFullReport(t *testing.T) {
	r := sampleReport()

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			formatter, err := Get(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, formatter.Format(&buf, r))
		})
	}
}

func TestAllFormattersHandleEmptyReport(t *testing.T) {
	r := &Report{}

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			formatter, err := Get(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, formatter.Format(&buf, r))
		})
	}
}
