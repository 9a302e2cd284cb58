package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DBTX is what repositories run queries against: the pooled *sql.DB for
// single statements, or the *sql.Tx handed out by WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork manages transactional boundaries. The callback receives a DBTX
// backed by a *sql.Tx; callers create tx-scoped repositories from it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork using database/sql transactions.
// A transaction that fails because another process holds the write lock is
// rolled back and re-run from scratch, up to busyRetries times, so fn must be
// safe to repeat.
type SQLiteUnitOfWork struct {
	db          *sql.DB
	busyRetries int
	busyBackoff time.Duration
}

// UnitOfWorkOption configures a SQLiteUnitOfWork.
type UnitOfWorkOption func(*SQLiteUnitOfWork)

// WithBusyRetries sets how many times a lock-contended transaction is re-run
// and the base delay between attempts (doubled each time).
func WithBusyRetries(n int, backoff time.Duration) UnitOfWorkOption {
	return func(u *SQLiteUnitOfWork) {
		u.busyRetries = n
		u.busyBackoff = backoff
	}
}

// NewSQLiteUnitOfWork creates a UnitOfWork backed by the given *sql.DB.
func NewSQLiteUnitOfWork(db *sql.DB, opts ...UnitOfWorkOption) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{db: db, busyRetries: 3, busyBackoff: 25 * time.Millisecond}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	delay := u.busyBackoff
	for attempt := 0; ; attempt++ {
		err := u.runTx(ctx, fn)
		if err == nil || !IsBusy(err) || attempt >= u.busyRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for write lock: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (u *SQLiteUnitOfWork) runTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// IsBusy reports whether err is SQLite lock contention.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
