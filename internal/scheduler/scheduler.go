// Package scheduler enqueues jobs on a worker pool at fixed intervals.
package scheduler

import (
	"sync"
	"time"

	"github.com/wpk-/aapi-versioned/internal/worker"
)

// Enqueuer accepts jobs without blocking.
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool Enqueuer
	quit       chan struct{}
	wg         sync.WaitGroup
}

// New creates a new scheduler
func New(pool Enqueuer) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. With immediate set
// the job is also enqueued right away. A tick that finds the queue full is
// skipped.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job, immediate bool) {
	if immediate {
		s.workerPool.Enqueue(job)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.workerPool.Enqueue(job)
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
