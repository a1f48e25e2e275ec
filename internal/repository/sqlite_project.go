package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/db"
	"github.com/alexanderramin/sprintwise/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo. d may be a *sql.DB
// or a transaction.
func NewSQLiteProjectRepo(d db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: d}
}

const projectColumns = `id, name, description, keywords, project_type, master_plan, initial_prompt, ` +
	`num_sprints, current_sprint, complete, achievements, owner_id, created_at, due_date`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	keywords, err := encodeKeywords(p.Keywords)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		keywords,
		string(p.Type),
		p.MasterPlan,
		p.InitialPrompt,
		p.NumSprints,
		p.CurrentSprint,
		boolToInt(p.Complete),
		p.Achievements,
		p.OwnerID,
		formatTime(p.CreatedAt),
		formatTime(p.DueDate),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (r *SQLiteProjectRepo) GetByPrefix(ctx context.Context, prefix string) (*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE lower(id) LIKE ? ESCAPE '\' LIMIT 2`,
		prefixPattern(prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("looking up project %q: %w", prefix, err)
	}
	projects, err := collect(rows, scanProject)
	if err != nil {
		return nil, err
	}
	switch len(projects) {
	case 0:
		return nil, fmt.Errorf("project %q: %w", prefix, ErrNotFound)
	case 1:
		return projects[0], nil
	default:
		return nil, fmt.Errorf("project %q: %w", prefix, ErrAmbiguous)
	}
}

func (r *SQLiteProjectRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.`+strings.ReplaceAll(projectColumns, ", ", ", p.")+`
		FROM projects p
		JOIN collaborators c ON c.project_id = p.id
		WHERE c.user_id = ?
		ORDER BY p.created_at DESC, p.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return collect(rows, scanProject)
}

func (r *SQLiteProjectRepo) UpdateProgress(ctx context.Context, id string, currentSprint int, complete bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET current_sprint = ?, complete = ? WHERE id = ?`,
		currentSprint, boolToInt(complete), id,
	)
	if err != nil {
		return fmt.Errorf("updating project progress: %w", err)
	}
	return requireOneRow(res, "project")
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var keywords, projectType, createdAt, dueDate string
	var complete int

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &keywords, &projectType,
		&p.MasterPlan, &p.InitialPrompt,
		&p.NumSprints, &p.CurrentSprint, &complete, &p.Achievements,
		&p.OwnerID, &createdAt, &dueDate,
	)
	if err != nil {
		return nil, notFound("project", err)
	}

	if p.Keywords, err = decodeKeywords(keywords); err != nil {
		return nil, err
	}
	p.Type = domain.ProjectType(projectType)
	p.Complete = complete != 0

	if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.DueDate, err = parseTime("due_date", dueDate); err != nil {
		return nil, err
	}
	return &p, nil
}
