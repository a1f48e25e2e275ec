package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/sprintwise/internal/db"
	"go.uber.org/zap/zaptest"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(t *testing.T, database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database, zaptest.NewLogger(t))
}
