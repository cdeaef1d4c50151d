// Package joblog keeps the audit trail of synchronization runs: one row per
// run of one dataset task, updated in place as the run moves through its
// phases. Rows are never deleted.
package joblog

import (
	"context"
	"time"
)

// Status is a phase of a job.
type Status string

// Job statuses in the order a successful run passes through them. Failed is
// reachable from any non-terminal status.
const (
	StatusStart  Status = "start"
	StatusFetch  Status = "fetch"
	StatusSync   Status = "sync"
	StatusCreate Status = "create"
	StatusDelete Status = "delete"
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// LogItem is one audited run.
type LogItem struct {
	ID       int64      `json:"id"`
	Target   string     `json:"target"`
	Status   Status     `json:"status"`
	Error    *string    `json:"error"`
	Created  int        `json:"created"`
	Deleted  int        `json:"deleted"`
	Started  time.Time  `json:"started"`
	Finished *time.Time `json:"finished"`
}

// Fields lists the audit table columns in LogItem order.
var Fields = []string{"id", "target", "status", "error", "created", "deleted", "started", "finished"}

// Tuple returns the item as a row in Fields order.
func (l LogItem) Tuple() []any {
	var errText, finished any
	if l.Error != nil {
		errText = *l.Error
	}
	if l.Finished != nil {
		finished = *l.Finished
	}
	return []any{l.ID, l.Target, string(l.Status), errText, l.Created, l.Deleted, l.Started, finished}
}

// Update carries the counters changed along with a status.
type Update struct {
	Error    *string
	Created  *int
	Deleted  *int
	Finished *time.Time
}

// Option sets one counter of an Update.
type Option func(*Update)

// WithError records the failure message.
func WithError(msg string) Option {
	return func(u *Update) { u.Error = &msg }
}

// WithCreated records the number of rows added.
func WithCreated(n int) Option {
	return func(u *Update) { u.Created = &n }
}

// WithDeleted records the number of rows soft-deleted.
func WithDeleted(n int) Option {
	return func(u *Update) { u.Deleted = &n }
}

// WithFinished records the end of the run.
func WithFinished(at time.Time) Option {
	return func(u *Update) { u.Finished = &at }
}

// NewUpdate applies opts to an empty Update.
func NewUpdate(opts ...Option) Update {
	var u Update
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// Repository stores the audit trail.
type Repository interface {
	// CreateTable ensures the audit table exists.
	CreateTable(ctx context.Context) error

	// Start inserts a new job in StatusStart and returns its id.
	Start(ctx context.Context, target string, started time.Time) (int64, error)

	// Status moves a job to status and applies any counters in opts.
	Status(ctx context.Context, jobID int64, status Status, opts ...Option) error

	// Recent returns the jobs started since midnight of the configured number
	// of days before now, ordered by target then id.
	Recent(ctx context.Context, now time.Time) ([]LogItem, error)
}

// RecentSince returns the start of a window of days ending at now. A
// non-positive days falls back to DefaultHistoryDays.
func RecentSince(now time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -days)
}
