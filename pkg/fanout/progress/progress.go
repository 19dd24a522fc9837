// Package progress defines the reporting collaborator consumed by the
// fanout executor. The executor treats a nil Reporter as "no progress
// wanted" and behaves identically either way.
package progress

import "sync/atomic"

// Reporter receives completion updates from a running batch.
// Implementations must be safe to call from multiple goroutines.
type Reporter interface {
	// SetCurrent reports how many items have finished (successfully
	// or not). Values are monotonically non-decreasing and reach the
	// batch total before Finish is called.
	SetCurrent(n int)

	// Finish marks the batch as complete. It is called exactly once,
	// after the final SetCurrent.
	Finish()
}

// Func adapts a callback to the Reporter interface, the same way scan
// style APIs take an OnProgress closure. A nil Finish is allowed.
type Func struct {
	// OnCurrent is invoked for every SetCurrent call.
	OnCurrent func(n int)

	// OnFinish is invoked once when the batch completes.
	OnFinish func()
}

// SetCurrent implements Reporter.
func (f *Func) SetCurrent(n int) {
	if f.OnCurrent != nil {
		f.OnCurrent(n)
	}
}

// Finish implements Reporter.
func (f *Func) Finish() {
	if f.OnFinish != nil {
		f.OnFinish()
	}
}

// Counter is an instrumented Reporter that records the last reported
// value and whether Finish fired. Used by tests and by callers that only
// want to poll progress.
type Counter struct {
	current  atomic.Int64
	finished atomic.Bool
}

// SetCurrent implements Reporter.
func (c *Counter) SetCurrent(n int) {
	c.current.Store(int64(n))
}

// Finish implements Reporter.
func (c *Counter) Finish() {
	c.finished.Store(true)
}

// Current returns the last reported completion count.
func (c *Counter) Current() int {
	return int(c.current.Load())
}

// Finished reports whether Finish has been called.
func (c *Counter) Finished() bool {
	return c.finished.Load()
}
