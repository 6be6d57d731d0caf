package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/planboard/internal/domain"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories run the same
// way inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork runs one board mutation in a transaction. op names the mutation
// ("closing day") in the error returned when it fails.
//
// Failures come back as domain.ErrStorage wrapping the cause. Rule violations
// returned by fn (validation, conflict, forbidden) pass through unchanged so
// a check made against the store reads the same as one made against the board.
type UnitOfWork interface {
	WithinTx(ctx context.Context, op string, fn func(ctx context.Context, tx DBTX) error) error
}

// TxError classifies a failed transaction as WithinTx does. Test units of
// work use it to fail the same way the SQLite one does.
func TxError(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrStorage) || domain.IsRuleViolation(err) {
		return err
	}
	return domain.StorageError(op, err)
}

// SQLiteUnitOfWork implements UnitOfWork using database/sql transactions.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, op string, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return TxError(op, fmt.Errorf("begin: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return TxError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return TxError(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}
