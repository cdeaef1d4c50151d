// Package leaktest checks that code under test stops the goroutines it
// starts: worker pools, schedulers and connection pools.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleDelay = 10 * time.Millisecond
	pollDelay   = 10 * time.Millisecond
	// DefaultTimeout bounds how long Check waits for goroutines to exit.
	DefaultTimeout = time.Second
)

// GoroutineChecker compares the goroutine count before and after a test.
type GoroutineChecker struct {
	before  int
	timeout time.Duration
	t       testing.TB
}

// NewGoroutineChecker creates a new checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(settleDelay)

	return &GoroutineChecker{
		before:  runtime.NumGoroutine(),
		timeout: DefaultTimeout,
		t:       t,
	}
}

// Check fails the test when more than tolerance goroutines are still running
// after the timeout. Goroutines that are merely slow to exit do not count.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after := waitFor(g.before+tolerance, g.timeout)
	if leaked := after - g.before; leaked > tolerance {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, leaked, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and fails the test if it leaves goroutines behind.
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// waitFor polls until at most target goroutines run or timeout passes, and
// returns the last count.
func waitFor(target int, timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target || time.Now().After(deadline) {
			return n
		}
		time.Sleep(pollDelay)
	}
}
