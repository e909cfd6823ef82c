package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// execer is the part of database/sql the repository needs. Both *sql.DB and
// *sql.Tx satisfy it.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txOptionsFor picks the isolation used by WithTx. Session writes read the
// user list and write it back, so Postgres runs them serializable. SQLite
// already serializes writers on its single connection.
func txOptionsFor(driver string) *sql.TxOptions {
	if driver == DriverPostgres {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

// runTx runs fn inside a transaction opened with opts. fn's writes are
// committed together; an error or panic in fn rolls them back. A failed
// rollback is joined to fn's error.
func runTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx execer) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin records transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("failed to roll back records transaction: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit records transaction: %w", cErr)
		}
	}()

	return fn(ctx, tx)
}
