// Package dbx holds the database/sql plumbing of the try-on journal. A
// status transition reads the current row (locked with FOR UPDATE on
// Postgres) and writes the next status inside one WithTx call, so two
// concurrent updates of the same job cannot both pass the status check.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX lets journal queries run against either the pool or the transaction
// that holds the job row lock.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs one journal transition. A rejected transition returned by fn
// (ErrTerminal, ErrInvalidTransition) rolls back and releases the row lock
// untouched; a panic is re-raised after the rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
