package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wpk-/aapi-versioned/internal/logger"
	"github.com/wpk-/aapi-versioned/internal/query"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(LogMsgFailedToRollback, "error", err)
	}
}

// inTx runs fn in a transaction that commits when fn returns nil and rolls
// back otherwise.
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// execTx runs one statement in its own transaction and returns the number of
// affected rows.
func execTx(ctx context.Context, db *pgxpool.Pool, q query.Query) (int64, error) {
	var affected int64
	err := inTx(ctx, db, func(tx pgx.Tx) error {
		logQuery(ctx, q)
		tag, err := tx.Exec(ctx, q.SQL, q.Args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	return affected, err
}

func logQuery(ctx context.Context, q query.Query) {
	logger.FromContext(ctx).Debug(LogMsgSQL, LogFieldSQL, q.SQL, LogFieldArgs, len(q.Args))
}
