package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wpk-/aapi-versioned/internal/logger"
	"github.com/wpk-/aapi-versioned/internal/query"
	"github.com/wpk-/aapi-versioned/internal/versioned"
)

// Endpoint stores the versioned rows of one dataset in one table. Rows are
// only ever appended or soft-deleted.
type Endpoint[T versioned.Model, PT versioned.ModelPtr[T]] struct {
	db     *pgxpool.Pool
	schema versioned.Schema
}

// NewEndpoint binds a model to its table. It fails when the model's values
// do not line up with the schema.
func NewEndpoint[T versioned.Model, PT versioned.ModelPtr[T]](db *pgxpool.Pool, schema versioned.Schema) (*Endpoint[T, PT], error) {
	if err := versioned.Check[T, PT](schema); err != nil {
		return nil, err
	}
	return &Endpoint[T, PT]{db: db, schema: schema}, nil
}

// Name returns the table name.
func (e *Endpoint[T, PT]) Name() string {
	return e.schema.Table
}

// Schema returns the dataset schema.
func (e *Endpoint[T, PT]) Schema() versioned.Schema {
	return e.schema
}

// Fields returns all column names, version columns first.
func (e *Endpoint[T, PT]) Fields() []string {
	return e.schema.AllColumns()
}

// CreateTable creates the table if it does not exist yet.
func (e *Endpoint[T, PT]) CreateTable(ctx context.Context) error {
	defs := []query.ColumnDef{
		{Name: versioned.ColumnID, Type: "BIGSERIAL PRIMARY KEY"},
		{Name: versioned.ColumnCreated, Type: "TIMESTAMP WITHOUT TIME ZONE NOT NULL"},
		{Name: versioned.ColumnDeleted, Type: "TIMESTAMP WITHOUT TIME ZONE"},
	}
	for _, f := range e.schema.Fields {
		defs = append(defs, query.ColumnDef{Name: f.Name, Type: f.Type.SQLType()})
	}

	q, err := query.CreateTable(e.schema.Table, defs).Build()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}
	if _, err := execTx(ctx, e.db, q); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgFailedToCreateTable, e.schema.Table, err)
	}

	logger.FromContext(ctx).Debug(LogMsgTableCreated, LogFieldTable, e.schema.Table)
	return nil
}

// Add appends one active row per item, all stamped with created. The batch
// is loaded with COPY and commits as a whole.
func (e *Endpoint[T, PT]) Add(ctx context.Context, created time.Time, items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	cols := append([]string{versioned.ColumnCreated}, e.schema.Columns()...)
	copyQ := query.CopyFrom(e.schema.Table, cols...)

	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = append([]any{created}, item.Values()...)
	}

	var n int64
	err := inTx(ctx, e.db, func(tx pgx.Tx) error {
		logger.FromContext(ctx).Debug(LogMsgSQL, LogFieldSQL, copyQ.String(), LogFieldCount, len(rows))
		var err error
		n, err = tx.CopyFrom(ctx, pgx.Identifier(strings.Split(copyQ.Table(), ".")), copyQ.Columns(), pgx.CopyFromRows(rows))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", ErrMsgFailedToCopyRows, e.schema.Table, err)
	}

	logger.FromContext(ctx).Debug(LogMsgRowsAdded, LogFieldTable, e.schema.Table, LogFieldCount, n)
	return int(n), nil
}

// Delete soft-deletes the active rows among ids. Rows already deleted keep
// their original timestamp.
func (e *Endpoint[T, PT]) Delete(ctx context.Context, deleted time.Time, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	q, err := query.Update(e.schema.Table).
		Set(query.Pred(versioned.ColumnDeleted, deleted)).
		Where(
			query.Pred(versioned.ColumnDeleted, nil),
			query.Pred(versioned.ColumnID+"__in", ids),
		).
		Build()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}

	n, err := execTx(ctx, e.db, q)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", ErrMsgFailedToDeleteRows, e.schema.Table, err)
	}

	logger.FromContext(ctx).Debug(LogMsgRowsDeleted, LogFieldTable, e.schema.Table, LogFieldCount, n)
	return int(n), nil
}

// All yields the rows matching preds in id order. All predicates form a
// single AND group. Rows are read BatchSize at a time, so memory use does
// not depend on the size of the table. Iteration stops at the first error.
func (e *Endpoint[T, PT]) All(ctx context.Context, preds ...query.P) iter.Seq2[versioned.Record[T], error] {
	return func(yield func(versioned.Record[T], error) bool) {
		var after *int64
		for {
			group := slices.Clone(preds)
			if after != nil {
				group = append(group, query.Pred(versioned.ColumnID+"__gt", *after))
			}
			q, err := query.Select(e.schema.Table, e.Fields()...).
				Where(group...).
				OrderBy(versioned.ColumnID).
				Limit(BatchSize).
				Build()
			if err != nil {
				yield(versioned.Record[T]{}, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err))
				return
			}

			batch, err := e.fetch(ctx, q)
			if err != nil {
				yield(versioned.Record[T]{}, err)
				return
			}
			for _, rec := range batch {
				if !yield(rec, nil) {
					return
				}
			}
			if len(batch) < BatchSize {
				return
			}
			last := batch[len(batch)-1].ID
			after = &last
		}
	}
}

// One returns the first row matching preds, or versioned.ErrNotFound.
func (e *Endpoint[T, PT]) One(ctx context.Context, preds ...query.P) (versioned.Record[T], error) {
	q, err := query.Select(e.schema.Table, e.Fields()...).
		Where(preds...).
		OrderBy(versioned.ColumnID).
		Limit(1).
		Build()
	if err != nil {
		return versioned.Record[T]{}, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}

	batch, err := e.fetch(ctx, q)
	if err != nil {
		return versioned.Record[T]{}, err
	}
	if len(batch) == 0 {
		return versioned.Record[T]{}, versioned.ErrNotFound
	}
	return batch[0], nil
}

// Count returns the number of rows matching preds.
func (e *Endpoint[T, PT]) Count(ctx context.Context, preds ...query.P) (int, error) {
	q, err := query.Count(e.schema.Table).Where(preds...).Build()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}

	logQuery(ctx, q)
	var n int64
	if err := e.db.QueryRow(ctx, q.SQL, q.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s %s: %w", ErrMsgFailedToCountRows, e.schema.Table, err)
	}
	return int(n), nil
}

// RecentChanges returns up to RecentChangesLimit raw rows created or deleted
// at the given job timestamp, in Fields order.
func (e *Endpoint[T, PT]) RecentChanges(ctx context.Context, at time.Time) ([][]any, error) {
	order := versioned.ColumnID
	if e.schema.HasField("id") {
		order = "id"
	}

	q, err := query.Select(e.schema.Table, e.Fields()...).
		Where(query.Pred(versioned.ColumnCreated, at)).
		Or(query.Pred(versioned.ColumnDeleted, at)).
		OrderBy(order, versioned.ColumnCreated).
		Limit(RecentChangesLimit).
		Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBuildQuery, err)
	}

	logQuery(ctx, q)
	rows, err := e.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedToQueryChanges, e.schema.Table, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedToQueryChanges, e.schema.Table, err)
	}
	return out, nil
}

func (e *Endpoint[T, PT]) fetch(ctx context.Context, q query.Query) ([]versioned.Record[T], error) {
	logQuery(ctx, q)
	rows, err := e.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedToQueryRows, e.schema.Table, err)
	}
	defer rows.Close()

	var batch []versioned.Record[T]
	for rows.Next() {
		var rec versioned.Record[T]
		targets := append([]any{&rec.ID, &rec.Created, &rec.Deleted}, PT(&rec.Data).Targets()...)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		batch = append(batch, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedToQueryRows, e.schema.Table, err)
	}
	return batch, nil
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, versioned.ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}
