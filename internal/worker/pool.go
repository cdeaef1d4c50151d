// Package worker runs queued jobs on a fixed number of goroutines.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/wpk-/aapi-versioned/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Pool represents a worker pool. A pool with one worker runs its jobs
// strictly one after another.
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPool creates a new worker pool. Jobs run with a context derived from
// ctx that is cancelled by Stop.
func NewPool(ctx context.Context, workers int, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.ctx.Done():
			return
		}
	}
}

// run processes one job. A panicking job is logged and does not take the
// worker down.
func (p *Pool) run(job Job) {
	log := logger.FromContext(p.ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgWorkerJobPanicked, "error", fmt.Sprint(r))
		}
	}()
	if err := job.Process(p.ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue adds a job to the queue without blocking. It reports false when
// the queue is full or the pool is stopped.
func (p *Pool) Enqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgQueueFull)
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs
// are dropped.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}
