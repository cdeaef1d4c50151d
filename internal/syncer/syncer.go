// Package syncer reconciles a stored versioned dataset with its remote
// source. A run fetches the full remote set, diffs it by content key against
// the active stored rows, appends what is new and soft-deletes what is gone.
package syncer

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/wpk-/aapi-versioned/internal/query"
	"github.com/wpk-/aapi-versioned/internal/versioned"
)

// Source yields the current remote records of one dataset. Errors that
// implement TransportError end the fetch early without failing the run.
type Source[T any] interface {
	Fetch(ctx context.Context) iter.Seq2[T, error]
}

// Store is the versioned table of one dataset.
type Store[T versioned.Model] interface {
	Name() string
	Fields() []string
	CreateTable(ctx context.Context) error
	Add(ctx context.Context, created time.Time, items []T) (int, error)
	Delete(ctx context.Context, deleted time.Time, ids []int64) (int, error)
	All(ctx context.Context, preds ...query.P) iter.Seq2[versioned.Record[T], error]
	RecentChanges(ctx context.Context, at time.Time) ([][]any, error)
}

// TransportError is implemented by remote failures after which the records
// fetched so far are still valid.
type TransportError interface {
	error
	Transport() bool
}

// IsTransport reports whether err or any error it wraps is a transport
// failure.
func IsTransport(err error) bool {
	var te TransportError
	return errors.As(err, &te) && te.Transport()
}

// Clock returns the current time.
type Clock func() time.Time

// SystemClock returns UTC wall time at microsecond precision, the
// resolution the store keeps.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Outcome classifies a finished run.
type Outcome int

const (
	// Success means the remote set was fetched completely and reconciled.
	Success Outcome = iota
	// Partial means the fetch stopped early; additions were applied and
	// deletions were withheld.
	Partial
	// Failed means the run stopped on an error.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Partial:
		return "partial"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports one run of one task.
type Result struct {
	Target  string
	JobID   int64
	Outcome Outcome
	Created int
	Deleted int
	Started time.Time
	// Phase is the last status reached before a failure.
	Phase string
	Err   error
}

// OK reports whether the run did not fail.
func (r Result) OK() bool {
	return r.Outcome != Failed
}
