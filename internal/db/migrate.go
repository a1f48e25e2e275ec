package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; the index+1 is the schema version. Never
// edit a released entry, append a new one.
var migrations = []string{
	`CREATE TABLE users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX idx_users_name ON users(name);

	CREATE TABLE projects (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		keywords       TEXT NOT NULL DEFAULT '',
		project_type   TEXT NOT NULL DEFAULT '',
		master_plan    TEXT NOT NULL DEFAULT '[]',
		initial_prompt TEXT NOT NULL DEFAULT '',
		num_sprints    INTEGER NOT NULL CHECK(num_sprints > 0),
		current_sprint INTEGER NOT NULL DEFAULT 1 CHECK(current_sprint > 0),
		complete       INTEGER NOT NULL DEFAULT 0,
		achievements   TEXT NOT NULL DEFAULT '',
		owner_id       TEXT NOT NULL REFERENCES users(id),
		created_at     TEXT NOT NULL,
		due_date       TEXT NOT NULL
	);
	CREATE INDEX idx_projects_owner ON projects(owner_id);

	CREATE TABLE collaborators (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role       TEXT NOT NULL CHECK(role IN ('owner','member')),
		accepted   INTEGER NOT NULL DEFAULT 0,
		invited_at TEXT NOT NULL,
		PRIMARY KEY (project_id, user_id)
	);
	CREATE INDEX idx_collaborators_user ON collaborators(user_id);

	CREATE TABLE tasks (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type        TEXT NOT NULL CHECK(type IN ('feature','bug','scope')),
		priority    TEXT NOT NULL CHECK(priority IN ('low','medium','high')),
		status      TEXT NOT NULL DEFAULT 'todo'
		            CHECK(status IN ('todo','in_progress','done')),
		sprint      INTEGER NOT NULL DEFAULT 1 CHECK(sprint > 0),
		due_date    TEXT NOT NULL,
		assignee_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX idx_tasks_project_sprint ON tasks(project_id, sprint);`,
}

// SchemaVersion is the version a fully migrated database reports.
func SchemaVersion() int { return len(migrations) }

// Migrate applies every migration newer than the database's user_version,
// each in its own transaction. Running it on an up-to-date database is a
// no-op.
func Migrate(database *sql.DB) error {
	ctx := context.Background()

	current, err := userVersion(ctx, database)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, len(migrations))
	}

	for v := current; v < len(migrations); v++ {
		if err := applyMigration(ctx, database, v+1, migrations[v]); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, database *sql.DB, version int, stmt string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %d: beginning transaction: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migration %d: %w", version, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("migration %d: recording version: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: committing: %w", version, err)
	}
	return nil
}

func userVersion(ctx context.Context, database *sql.DB) (int, error) {
	var v int
	if err := database.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
