package leaktest

import (
	"testing"
	"time"
)

type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) { r.failed = true }

func TestGoroutineChecker_NoLeak(t *testing.T) {
	checker := NewGoroutineChecker(t)
	checker.Check(0)
}

func TestGoroutineChecker_WaitsForExit(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		go func() {
			time.Sleep(50 * time.Millisecond)
		}()
	})
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	defer close(done)
	go func() {
		<-done
	}()

	checker.Check(1)
}

func TestGoroutineChecker_DetectsLeak(t *testing.T) {
	rec := &recorder{TB: t}
	checker := NewGoroutineChecker(rec)
	checker.timeout = 50 * time.Millisecond

	done := make(chan struct{})
	defer close(done)
	go func() {
		<-done
	}()

	checker.Check(0)
	if !rec.failed {
		t.Error("expected leaked goroutine to be reported")
	}
}
