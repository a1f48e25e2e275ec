package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/repository"
	"github.com/google/uuid"
)

// FixedNow is the clock used by fixtures and service tests.
var FixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func NewTestUser(name string) *domain.User {
	return &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     name + "@example.com",
		CreatedAt: FixedNow,
	}
}

// TenWeekPlan returns a valid plan with one entry per sprint.
func TenWeekPlan() domain.ProjectPlan {
	plan := make(domain.ProjectPlan, domain.DefaultNumSprints)
	for i := range plan {
		plan[i] = domain.WeekPlanItem{
			Title:       fmt.Sprintf("Week %d", i+1),
			Description: fmt.Sprintf("Goals for week %d", i+1),
		}
	}
	plan[0].Description = "Set up repo and auth scaffold"
	return plan
}

// RecipeTrackerDraft is the canonical wizard input used across tests.
func RecipeTrackerDraft() domain.ProjectDraft {
	return domain.ProjectDraft{
		Name:        "Recipe Tracker",
		Description: "A web app to log recipes",
		Keywords:    []string{"React", "Supabase"},
		Type:        domain.ProjectSaaSApp,
	}
}

// TaskDrafts returns n valid task drafts titled "Task 1".."Task n".
func TaskDrafts(n int) []domain.TaskDraft {
	out := make([]domain.TaskDraft, n)
	for i := range out {
		out[i] = domain.TaskDraft{
			Title:       fmt.Sprintf("Task %d", i+1),
			Description: fmt.Sprintf("Do thing %d", i+1),
			Type:        domain.TaskFeature,
			Priority:    domain.PriorityMedium,
		}
	}
	return out
}

// Project options
type ProjectOption func(*domain.Project)

func WithSprint(current int) ProjectOption {
	return func(p *domain.Project) {
		p.CurrentSprint = current
	}
}

func WithNumSprints(n int) ProjectOption {
	return func(p *domain.Project) {
		p.NumSprints = n
	}
}

func WithCreatedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = t
	}
}

func NewTestProject(name, ownerID string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   name + " description",
		Keywords:      []string{"go"},
		Type:          domain.ProjectSideProject,
		MasterPlan:    TenWeekPlan().Serialize(),
		NumSprints:    domain.DefaultNumSprints,
		CurrentSprint: 1,
		OwnerID:       ownerID,
		CreatedAt:     FixedNow,
		DueDate:       FixedNow.Add(domain.SprintLength),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithTaskSprint(n int) TaskOption {
	return func(t *domain.Task) {
		t.Sprint = n
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Type:      domain.TaskFeature,
		Priority:  domain.PriorityMedium,
		Status:    domain.TaskTodo,
		Sprint:    1,
		DueDate:   FixedNow.Add(domain.SprintLength),
		CreatedAt: FixedNow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SeedProject inserts a user, a project owned by it and its owner
// collaborator row.
func SeedProject(t *testing.T, database *sql.DB, name string, opts ...ProjectOption) (*domain.User, *domain.Project) {
	t.Helper()
	ctx := context.Background()

	user := NewTestUser("owner-" + uuid.NewString()[:8])
	if err := repository.NewSQLiteUserRepo(database).Create(ctx, user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	project := NewTestProject(name, user.ID, opts...)
	if err := repository.NewSQLiteProjectRepo(database).Create(ctx, project); err != nil {
		t.Fatalf("seeding project: %v", err)
	}
	collab := &domain.Collaborator{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      domain.RoleOwner,
		Accepted:  true,
		InvitedAt: FixedNow,
	}
	if err := repository.NewSQLiteCollaboratorRepo(database).Create(ctx, collab); err != nil {
		t.Fatalf("seeding collaborator: %v", err)
	}
	return user, project
}
