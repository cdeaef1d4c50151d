package syncer

import (
	"context"
	"time"

	"github.com/wpk-/aapi-versioned/internal/logger"
)

// Runner is one dataset task with its type parameter erased.
type Runner interface {
	Target() string
	Fields() []string
	Pull(ctx context.Context) Result
	RecentChanges(ctx context.Context, at time.Time) ([][]any, error)
}

// Orchestrator runs every task in turn. A failing task never stops the
// tasks after it.
type Orchestrator struct {
	runners []Runner
}

// NewOrchestrator creates an orchestrator over runners, run in the given
// order.
func NewOrchestrator(runners ...Runner) *Orchestrator {
	return &Orchestrator{runners: runners}
}

// Runners returns the tasks in run order.
func (o *Orchestrator) Runners() []Runner {
	return o.runners
}

// Runner returns the task for target.
func (o *Orchestrator) Runner(target string) (Runner, bool) {
	for _, r := range o.runners {
		if r.Target() == target {
			return r, true
		}
	}
	return nil, false
}

// RunAll pulls every dataset sequentially and returns one result per task.
// Cancelling ctx skips the tasks not yet started; their results are Failed
// with the context error.
func (o *Orchestrator) RunAll(ctx context.Context) []Result {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRunStarted, LogFieldTasks, len(o.runners))

	results := make([]Result, 0, len(o.runners))
	failed := 0
	for _, r := range o.runners {
		var res Result
		if err := ctx.Err(); err != nil {
			res = Result{Target: r.Target(), Outcome: Failed, Err: err}
		} else {
			res = r.Pull(ctx)
		}
		if res.Outcome == Failed {
			failed++
		}
		results = append(results, res)
	}

	log.Info(LogMsgRunFinished, LogFieldTasks, len(results), LogFieldFailed, failed)
	return results
}

// Job adapts the orchestrator to worker.Job. Results are delivered to
// OnDone when set.
type Job struct {
	Orchestrator *Orchestrator
	OnDone       func([]Result)
}

// Process runs all tasks. Task failures are reported through results, not
// the returned error.
func (j *Job) Process(ctx context.Context) error {
	results := j.Orchestrator.RunAll(ctx)
	if j.OnDone != nil {
		j.OnDone(results)
	}
	return ctx.Err()
}
