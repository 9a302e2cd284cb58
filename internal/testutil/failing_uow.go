package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/obra/internal/db"
)

// FaultyUoW runs transactions against DB but fails one write: the Nth
// statement whose text contains Statement returns Err instead of executing.
// An empty Statement counts every write. Reads are never faulted.
type FaultyUoW struct {
	DB        *sql.DB
	Statement string
	Nth       int
	Err       error
}

func (u *FaultyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) (err error) {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, &faultyTx{DBTX: tx, uow: u}); err != nil {
		return err
	}
	return tx.Commit()
}

type faultyTx struct {
	db.DBTX
	uow  *FaultyUoW
	seen int
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Statement) {
		f.seen++
		if f.seen == f.uow.Nth {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// errLocked is how modernc sqlite reports a write lock held elsewhere.
var errLocked = errors.New("database is locked (5) (SQLITE_BUSY)")

// ContendedUoW wraps a real unit of work and fails Times writes matching
// Statement with SQLITE_BUSY, as if another process held the write lock.
// The first After matching writes go through. Retries in Inner see the
// statement succeed once the budget is spent.
type ContendedUoW struct {
	Inner     db.UnitOfWork
	Statement string
	After     int
	Times     int
	// Attempts counts how many times the transaction body ran.
	Attempts int
	seen     int
	busy     int
}

func (u *ContendedUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		u.Attempts++
		return fn(ctx, &contendedTx{DBTX: tx, uow: u})
	})
}

type contendedTx struct {
	db.DBTX
	uow *ContendedUoW
}

func (c *contendedTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, c.uow.Statement) {
		c.uow.seen++
		if c.uow.seen > c.uow.After && c.uow.busy < c.uow.Times {
			c.uow.busy++
			return nil, errLocked
		}
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
