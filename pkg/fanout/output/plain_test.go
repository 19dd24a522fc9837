package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatterSnapshot(t *testing.T) {
	r := &Report{Snapshot: sampleReport().Snapshot}

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "cores")
	assert.Contains(t, out, "8")
	assert.Contains(t, out, "16 GiB")
	assert.Contains(t, out, "1.50 1.20 0.90")
}

func TestPlainFormatterPlan(t *testing.T) {
	r := &Report{Plan: sampleReport().Plan}

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "strategy")
	assert.Contains(t, out, "pooled")
	assert.Contains(t, out, "workers")
	assert.Contains(t, out, "max_concurrent")
}

func TestPlainFormatterItems(t *testing.T) {
	r := sampleReport()
	r.Snapshot = nil
	r.Plan = nil

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "fail")
	assert.Contains(t, out, "b.txt")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "duration")
}

func TestPlainFormatterNoColorCodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, sampleReport()))

	assert.NotContains(t, buf.String(), "\x1b[")
}
