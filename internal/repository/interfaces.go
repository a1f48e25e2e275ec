package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/sprintwise/internal/domain"
)

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when an ID prefix matches more than one row.
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// GetByPrefix resolves a display ID (or any unique ID prefix).
	GetByPrefix(ctx context.Context, prefix string) (*domain.Project, error)
	// ListForUser returns projects the user collaborates on, newest first.
	ListForUser(ctx context.Context, userID string) ([]*domain.Project, error)
	UpdateProgress(ctx context.Context, id string, currentSprint int, complete bool) error
}

type CollaboratorRepo interface {
	Create(ctx context.Context, c *domain.Collaborator) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Collaborator, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetByPrefix(ctx context.Context, prefix string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListBySprint(ctx context.Context, projectID string, sprint int) ([]*domain.Task, error)
	// Update writes the mutable fields of t (title, description, status,
	// sprint, due date, assignee).
	Update(ctx context.Context, t *domain.Task) error
}
