package progress

import (
	"sync"
	"testing"
)

func TestCounter(t *testing.T) {
	var c Counter

	if c.Current() != 0 {
		t.Errorf("Current() = %d, want 0", c.Current())
	}
	if c.Finished() {
		t.Error("Finished() = true before Finish")
	}

	c.SetCurrent(3)
	c.SetCurrent(7)
	if c.Current() != 7 {
		t.Errorf("Current() = %d, want 7", c.Current())
	}

	c.Finish()
	if !c.Finished() {
		t.Error("Finished() = false after Finish")
	}
}

func TestCounterConcurrentUpdates(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.SetCurrent(n)
		}(i)
	}
	wg.Wait()

	if got := c.Current(); got < 1 || got > 100 {
		t.Errorf("Current() = %d, want a reported value in [1, 100]", got)
	}
}

func TestFunc(t *testing.T) {
	var current int
	var finished bool

	f := Func{
		OnCurrent: func(n int) { current = n },
		OnFinish:  func() { finished = true },
	}

	f.SetCurrent(42)
	f.Finish()

	if current != 42 {
		t.Errorf("OnCurrent received %d, want 42", current)
	}
	if !finished {
		t.Error("OnFinish never fired")
	}
}

func TestFuncNilCallbacks(t *testing.T) {
	var f Func
	f.SetCurrent(1)
	f.Finish()
}
