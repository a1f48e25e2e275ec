package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/db"
)

// FailingWriteUoW runs each unit of work in a real transaction but fails
// every insert into Table with Err. Reads pass through, so repositories behave
// normally up to the injected failure and the transaction is rolled back.
type FailingWriteUoW struct {
	DB    *sql.DB
	Table string
	Err   error
}

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingWrites{DBTX: tx, table: u.Table, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingWrites struct {
	db.DBTX
	table string
	err   error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, "INTO "+f.table+" ") {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
