package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wpk-/aapi-versioned/internal/database"
	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/logger"
	"github.com/wpk-/aapi-versioned/internal/query"
)

type jobLogRepository struct {
	db          *pgxpool.Pool
	historyDays int
}

// NewJobLogRepository creates a new PostgreSQL job log repository whose
// Recent covers historyDays days.
func NewJobLogRepository(db *pgxpool.Pool, historyDays int) joblog.Repository {
	return &jobLogRepository{db: db, historyDays: historyDays}
}

// CreateTable applies the audit table migration.
func (r *jobLogRepository) CreateTable(ctx context.Context) error {
	if err := database.Migrate(ctx, r.db); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateJobsLog, err)
	}
	return nil
}

// Start inserts a job in the start status and returns its id.
func (r *jobLogRepository) Start(ctx context.Context, target string, started time.Time) (int64, error) {
	q, err := query.Insert(joblog.TableName).
		Values(
			query.Pred("target", target),
			query.Pred("status", string(joblog.StatusStart)),
			query.Pred("started", started),
		).
		Returning("id").
		Build()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}

	var id int64
	err = inTx(ctx, r.db, func(tx pgx.Tx) error {
		logQuery(ctx, q)
		return tx.QueryRow(ctx, q.SQL, q.Args...).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToStartJob, err)
	}

	logger.FromContext(ctx).Info(joblog.LogMsgJobStarted,
		joblog.LogFieldJobID, id, joblog.LogFieldTarget, target)
	return id, nil
}

// Status moves a job to status, updating the counters given in opts.
func (r *jobLogRepository) Status(ctx context.Context, jobID int64, status joblog.Status, opts ...joblog.Option) error {
	u := joblog.NewUpdate(opts...)

	set := []query.P{query.Pred("status", string(status))}
	if u.Error != nil {
		set = append(set, query.Pred("error", *u.Error))
	}
	if u.Created != nil {
		set = append(set, query.Pred("created", *u.Created))
	}
	if u.Deleted != nil {
		set = append(set, query.Pred("deleted", *u.Deleted))
	}
	if u.Finished != nil {
		set = append(set, query.Pred("finished", *u.Finished))
	}

	q, err := query.Update(joblog.TableName).
		Set(set...).
		Where(query.Pred("id", jobID)).
		Build()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}

	n, err := execTx(ctx, r.db, q)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateJob, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %d", ErrMsgJobNotFound, jobID)
	}

	logger.FromContext(ctx).Info(joblog.LogMsgJobStatusChanged,
		joblog.LogFieldJobID, jobID, joblog.LogFieldStatus, status)
	return nil
}

// Recent returns the jobs of the last historyDays days.
func (r *jobLogRepository) Recent(ctx context.Context, now time.Time) ([]joblog.LogItem, error) {
	q, err := query.Select(joblog.TableName, joblog.Fields...).
		Where(query.Pred("started__gte", joblog.RecentSince(now, r.historyDays))).
		OrderBy("target", "id").
		Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}

	logQuery(ctx, q)
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryJobs, err)
	}
	defer rows.Close()

	items := []joblog.LogItem{}
	for rows.Next() {
		var (
			item   joblog.LogItem
			status string
		)
		if err := rows.Scan(&item.ID, &item.Target, &status, &item.Error,
			&item.Created, &item.Deleted, &item.Started, &item.Finished); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		item.Status = joblog.Status(status)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryJobs, err)
	}
	return items, nil
}
