package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
)

// CommitResult is what a wizard commit wrote. Tasks holds only the rows that
// were inserted; Failures lists the rest.
type CommitResult struct {
	Project      *domain.Project
	Collaborator *domain.Collaborator
	Tasks        []*domain.Task
	Failures     []TaskFailure
}

// Partial reports whether some tasks were not written.
func (r *CommitResult) Partial() bool {
	return r != nil && len(r.Failures) > 0
}

// CommitService persists an accepted wizard run.
type CommitService interface {
	// Commit writes the project and its owner collaborator atomically, then
	// each task in order. A task failure does not stop the remaining inserts
	// and is reported through *PartialCommitError alongside a non-nil result.
	Commit(ctx context.Context, draft domain.ProjectDraft, plan domain.ProjectPlan, tasks []domain.TaskDraft, ownerID string) (*CommitResult, error)
}

type ProjectService interface {
	// Get resolves a project by full ID or unique ID prefix.
	Get(ctx context.Context, ref string) (*domain.Project, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Project, error)
	// AdvanceSprint moves the project to its next sprint, marking it
	// complete when the last sprint is finished.
	AdvanceSprint(ctx context.Context, ref string) (*domain.Project, error)
}

// Column is one kanban column of a Board.
type Column struct {
	Status domain.TaskStatus
	Tasks  []*domain.Task
}

// Board is a project's tasks for one sprint, grouped by status in
// domain.BoardColumns order.
type Board struct {
	Project *domain.Project
	Sprint  int
	Columns []Column
}

// TaskPatch names the task fields to change; nil fields are left alone.
type TaskPatch struct {
	Title       *string
	Description *string
	Sprint      *int
	DueDate     *time.Time
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Sprint == nil && p.DueDate == nil
}

type BoardService interface {
	// Board returns the board for sprint, or for the project's current
	// sprint when sprint is 0.
	Board(ctx context.Context, projectRef string, sprint int) (*Board, error)
	MoveTask(ctx context.Context, taskRef string, status domain.TaskStatus) (*domain.Task, error)
	UpdateTask(ctx context.Context, taskRef string, patch TaskPatch) (*domain.Task, error)
}

type UserService interface {
	// Ensure returns the user with name, creating it on first use.
	Ensure(ctx context.Context, name, email string) (*domain.User, error)
}
