package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sprintwise/internal/db"
	"github.com/alexanderramin/sprintwise/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(d db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: d}
}

const taskColumns = `id, project_id, title, description, type, priority, status, sprint, due_date, assignee_id, created_at`

// priorityOrder sorts high before medium before low.
const priorityOrder = `CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(t.Type),
		string(t.Priority),
		string(t.Status),
		t.Sprint,
		formatTime(t.DueDate),
		nullableString(t.AssigneeID),
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *SQLiteTaskRepo) GetByPrefix(ctx context.Context, prefix string) (*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE lower(id) LIKE ? ESCAPE '\' LIMIT 2`,
		prefixPattern(prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("looking up task %q: %w", prefix, err)
	}
	tasks, err := collect(rows, scanTask)
	if err != nil {
		return nil, err
	}
	switch len(tasks) {
	case 0:
		return nil, fmt.Errorf("task %q: %w", prefix, ErrNotFound)
	case 1:
		return tasks[0], nil
	default:
		return nil, fmt.Errorf("task %q: %w", prefix, ErrAmbiguous)
	}
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ?
		ORDER BY sprint, `+priorityOrder+`, created_at, rowid`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return collect(rows, scanTask)
}

func (r *SQLiteTaskRepo) ListBySprint(ctx context.Context, projectID string, sprint int) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? AND sprint = ?
		ORDER BY `+priorityOrder+`, created_at, rowid`,
		projectID, sprint,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sprint tasks: %w", err)
	}
	return collect(rows, scanTask)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, sprint = ?, due_date = ?, assignee_id = ?
		WHERE id = ?`,
		t.Title,
		t.Description,
		string(t.Status),
		t.Sprint,
		formatTime(t.DueDate),
		nullableString(t.AssigneeID),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireOneRow(res, "task")
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var taskType, priority, status, dueDate, createdAt string
	var assignee sql.NullString

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description,
		&taskType, &priority, &status, &t.Sprint,
		&dueDate, &assignee, &createdAt,
	)
	if err != nil {
		return nil, notFound("task", err)
	}

	t.Type = domain.TaskType(taskType)
	t.Priority = domain.TaskPriority(priority)
	t.Status = domain.TaskStatus(status)
	t.AssigneeID = assignee.String

	if t.DueDate, err = parseTime("due_date", dueDate); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
