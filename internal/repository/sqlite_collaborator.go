package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintwise/internal/db"
	"github.com/alexanderramin/sprintwise/internal/domain"
)

type SQLiteCollaboratorRepo struct {
	db db.DBTX
}

func NewSQLiteCollaboratorRepo(d db.DBTX) *SQLiteCollaboratorRepo {
	return &SQLiteCollaboratorRepo{db: d}
}

func (r *SQLiteCollaboratorRepo) Create(ctx context.Context, c *domain.Collaborator) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collaborators (project_id, user_id, role, accepted, invited_at) VALUES (?, ?, ?, ?, ?)`,
		c.ProjectID, c.UserID, string(c.Role), boolToInt(c.Accepted), formatTime(c.InvitedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting collaborator: %w", err)
	}
	return nil
}

func (r *SQLiteCollaboratorRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Collaborator, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, user_id, role, accepted, invited_at
		FROM collaborators WHERE project_id = ? ORDER BY invited_at, user_id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing collaborators: %w", err)
	}
	return collect(rows, scanCollaborator)
}

func scanCollaborator(row rowScanner) (*domain.Collaborator, error) {
	var c domain.Collaborator
	var role, invitedAt string
	var accepted int
	if err := row.Scan(&c.ProjectID, &c.UserID, &role, &accepted, &invitedAt); err != nil {
		return nil, notFound("collaborator", err)
	}
	c.Role = domain.CollaboratorRole(role)
	c.Accepted = accepted != 0

	var err error
	if c.InvitedAt, err = parseTime("invited_at", invitedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
