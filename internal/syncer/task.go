package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/logger"
	"github.com/wpk-/aapi-versioned/internal/metrics"
	"github.com/wpk-/aapi-versioned/internal/query"
	"github.com/wpk-/aapi-versioned/internal/versioned"
)

// Task synchronizes one dataset.
type Task[T versioned.Model] struct {
	store  Store[T]
	source Source[T]
	jobs   joblog.Repository
	clock  Clock
	local  []query.P
}

// TaskOption configures a Task.
type TaskOption[T versioned.Model] func(*Task[T])

// WithLocalFilter restricts the stored rows taken into the diff. It must
// select the same records the source is filtered to, otherwise rows outside
// the remote window are deleted.
func WithLocalFilter[T versioned.Model](preds ...query.P) TaskOption[T] {
	return func(t *Task[T]) { t.local = preds }
}

// WithClock replaces SystemClock.
func WithClock[T versioned.Model](clock Clock) TaskOption[T] {
	return func(t *Task[T]) { t.clock = clock }
}

// NewTask creates a task that mirrors source into store.
func NewTask[T versioned.Model](store Store[T], source Source[T], jobs joblog.Repository, opts ...TaskOption[T]) *Task[T] {
	t := &Task[T]{
		store:  store,
		source: source,
		jobs:   jobs,
		clock:  SystemClock,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Target returns the dataset table name.
func (t *Task[T]) Target() string {
	return t.store.Name()
}

// Fields returns the column names of the dataset table.
func (t *Task[T]) Fields() []string {
	return t.store.Fields()
}

// RecentChanges returns the rows changed by the job that ran at at.
func (t *Task[T]) RecentChanges(ctx context.Context, at time.Time) ([][]any, error) {
	return t.store.RecentChanges(ctx, at)
}

// Fetch collects the remote set keyed by content. A transport failure ends
// the fetch and sets partial; the records collected before it are returned.
// Any other error is returned as is.
func (t *Task[T]) Fetch(ctx context.Context) (map[versioned.Key]T, bool, error) {
	remote := make(map[versioned.Key]T)
	for item, err := range t.source.Fetch(ctx) {
		if err != nil {
			if IsTransport(err) {
				logger.FromContext(ctx).Warn(LogMsgFetchIncomplete,
					LogFieldTarget, t.Target(), LogFieldFetched, len(remote), "error", err)
				return remote, true, nil
			}
			return nil, false, err
		}
		remote[versioned.KeyOf(item)] = item
	}
	return remote, false, nil
}

// Diff removes from remote every record already active in the store and
// returns the ids of active rows the remote set does not contain. What is
// left in remote afterwards are the additions.
func (t *Task[T]) Diff(ctx context.Context, remote map[versioned.Key]T) ([]int64, error) {
	preds := append([]query.P{query.Pred(versioned.ColumnDeleted, nil)}, t.local...)

	var gone []int64
	for rec, err := range t.store.All(ctx, preds...) {
		if err != nil {
			return nil, err
		}
		key := versioned.KeyOf(rec.Data)
		if _, ok := remote[key]; ok {
			delete(remote, key)
			continue
		}
		gone = append(gone, rec.ID)
	}
	return gone, nil
}

// Pull runs one synchronization and records it in the job log. It never
// panics on dataset errors; failures are reported in the Result.
func (t *Task[T]) Pull(ctx context.Context) (res Result) {
	ctx = logger.WithRunID(ctx)
	log := logger.FromContext(ctx).With(LogFieldTarget, t.Target())

	started := t.clock()
	res = Result{Target: t.Target(), Started: started}

	defer func() {
		end := t.clock()
		metrics.RecordSync(res.Target, res.Outcome.String(), res.Created, res.Deleted, end.Sub(started), end)
	}()

	if err := t.store.CreateTable(ctx); err != nil {
		log.Error(LogMsgTaskSetupFailed, "error", err)
		return res.fail(joblog.StatusStart, err)
	}
	jobID, err := t.jobs.Start(ctx, t.Target(), started)
	if err != nil {
		log.Error(LogMsgTaskSetupFailed, "error", err)
		return res.fail(joblog.StatusStart, err)
	}
	res.JobID = jobID
	log = log.With(LogFieldJobID, jobID)

	// phase is the last status persisted for the job.
	phase := joblog.StatusStart
	advance := func(status joblog.Status, opts ...joblog.Option) error {
		if err := t.jobs.Status(ctx, jobID, status, opts...); err != nil {
			return err
		}
		phase = status
		return nil
	}

	runErr := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: %v", ErrMsgPanic, r)
			}
		}()

		if err := advance(joblog.StatusFetch); err != nil {
			return err
		}
		added, partial, err := t.Fetch(ctx)
		if err != nil {
			return err
		}

		if err := advance(joblog.StatusSync); err != nil {
			return err
		}
		gone, err := t.Diff(ctx, added)
		if err != nil {
			return err
		}

		if partial {
			res.Outcome = Partial
			gone = nil
		}

		if len(added) > 0 {
			if err := advance(joblog.StatusCreate, joblog.WithCreated(len(added))); err != nil {
				return err
			}
			items := make([]T, 0, len(added))
			for _, item := range added {
				items = append(items, item)
			}
			n, err := t.store.Add(ctx, started, items)
			if err != nil {
				return err
			}
			res.Created = n
		}

		if len(gone) > 0 {
			if err := advance(joblog.StatusDelete, joblog.WithDeleted(len(gone))); err != nil {
				return err
			}
			n, err := t.store.Delete(ctx, started, gone)
			if err != nil {
				return err
			}
			res.Deleted = n
		}
		return nil
	}()

	finished := t.clock()

	switch {
	case runErr != nil:
		log.Error(LogMsgTaskFailed, LogFieldPhase, phase, "error", runErr)
		if err := t.finish(ctx, jobID, joblog.StatusFailed,
			joblog.WithError(fmt.Sprintf("%s: %v", phase, runErr)), joblog.WithFinished(finished)); err != nil {
			log.Error(LogMsgStatusFailed, "error", err)
		}
		return res.fail(phase, runErr)

	case res.Outcome == Partial:
		log.Warn(LogMsgTaskPartial, LogFieldCreated, res.Created)
		if err := t.finish(ctx, jobID, joblog.StatusFailed,
			joblog.WithError(ErrMsgFetchIncomplete), joblog.WithFinished(finished)); err != nil {
			log.Error(LogMsgStatusFailed, "error", err)
		}
		res.Err = errors.New(ErrMsgFetchIncomplete)
		return res

	default:
		if err := t.finish(ctx, jobID, joblog.StatusDone, joblog.WithFinished(finished)); err != nil {
			log.Error(LogMsgStatusFailed, "error", err)
			return res.fail(joblog.StatusDone, err)
		}
		log.Info(LogMsgTaskDone, LogFieldCreated, res.Created, LogFieldDeleted, res.Deleted)
		return res
	}
}

// finish records a terminal status. It outlives cancellation of ctx so that
// an interrupted run still ends in a terminal state.
func (t *Task[T]) finish(ctx context.Context, jobID int64, status joblog.Status, opts ...joblog.Option) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FinishTimeout)
	defer cancel()
	return t.jobs.Status(ctx, jobID, status, opts...)
}

func (r Result) fail(phase joblog.Status, err error) Result {
	r.Outcome = Failed
	r.Phase = string(phase)
	r.Err = err
	return r
}
