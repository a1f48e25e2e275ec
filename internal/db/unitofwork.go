package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// UnitOfWork runs fn inside a transaction. The callback receives a DBTX
// backed by a *sql.Tx; callers build tx-scoped repositories from it. A non-nil
// error or a panic from fn rolls everything back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type SQLiteUnitOfWork struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteUnitOfWork(db *sql.DB, logger *zap.Logger) *SQLiteUnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteUnitOfWork{db: db, logger: logger.Named("uow")}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
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

	if fnErr := fn(ctx, tx); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			u.logger.Error("rollback failed", zap.Error(rbErr), zap.NamedError("cause", fnErr))
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, fnErr)
		}
		u.logger.Debug("transaction rolled back", zap.Error(fnErr))
		return fnErr
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
