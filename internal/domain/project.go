package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultNumSprints is the length of every generated plan, in weeks.
	DefaultNumSprints = 10

	// SprintLength is the duration of one sprint.
	SprintLength = 7 * 24 * time.Hour
)

type Project struct {
	ID            string
	Name          string
	Description   string
	Keywords      []string
	Type          ProjectType
	MasterPlan    string
	InitialPrompt string
	NumSprints    int
	CurrentSprint int
	Complete      bool
	Achievements  string
	OwnerID       string
	CreatedAt     time.Time
	DueDate       time.Time
}

// Plan parses MasterPlan back into weeks.
func (p *Project) Plan() (ProjectPlan, error) {
	return ParsePlan(p.MasterPlan)
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Collaborator links a user to a project.
type Collaborator struct {
	ProjectID string
	UserID    string
	Role      CollaboratorRole
	Accepted  bool
	InvitedAt time.Time
}

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Type        TaskType
	Priority    TaskPriority
	Status      TaskStatus
	Sprint      int
	DueDate     time.Time
	AssigneeID  string
	CreatedAt   time.Time
}

// DisplayID returns the first 8 characters of the ID.
func (t *Task) DisplayID() string {
	if len(t.ID) >= 8 {
		return t.ID[:8]
	}
	return t.ID
}

type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// ProjectBundle is everything written when a wizard run is committed.
type ProjectBundle struct {
	Project      *Project
	Collaborator *Collaborator
	Tasks        []*Task
}

// NewProjectBundle builds the records for a freshly generated project: the
// project on sprint 1 of DefaultNumSprints, its owner collaborator, and one
// todo task per draft, all due one sprint after now.
func NewProjectBundle(draft ProjectDraft, plan ProjectPlan, tasks []TaskDraft, ownerID string, now time.Time) *ProjectBundle {
	now = now.UTC().Truncate(time.Second)
	due := now.Add(SprintLength)

	project := &Project{
		ID:            uuid.New().String(),
		Name:          draft.Name,
		Description:   draft.Description,
		Keywords:      CleanKeywords(draft.Keywords),
		Type:          draft.Type,
		MasterPlan:    plan.Serialize(),
		InitialPrompt: draft.Description,
		NumSprints:    DefaultNumSprints,
		CurrentSprint: 1,
		Complete:      false,
		Achievements:  "",
		OwnerID:       ownerID,
		CreatedAt:     now,
		DueDate:       due,
	}

	collab := &Collaborator{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      RoleOwner,
		Accepted:  true,
		InvitedAt: now,
	}

	records := make([]*Task, 0, len(tasks))
	for _, td := range tasks {
		records = append(records, &Task{
			ID:          uuid.New().String(),
			ProjectID:   project.ID,
			Title:       td.Title,
			Description: td.Description,
			Type:        td.Type,
			Priority:    td.Priority,
			Status:      TaskTodo,
			Sprint:      1,
			DueDate:     due,
			AssigneeID:  ownerID,
			CreatedAt:   now,
		})
	}

	return &ProjectBundle{Project: project, Collaborator: collab, Tasks: records}
}
