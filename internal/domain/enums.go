package domain

// ProjectType tags the kind of project being created. It selects the prompt
// templates used by the wizard; unknown values are allowed and fall back to
// the default templates.
type ProjectType string

const (
	ProjectSaaSApp     ProjectType = "SaaS App"
	ProjectMobileApp   ProjectType = "Mobile App"
	ProjectHackathon   ProjectType = "Hackathon"
	ProjectOpenSource  ProjectType = "Open Source Library"
	ProjectSideProject ProjectType = "Side Project"
)

// ProjectTypes lists the built-in project types in menu order.
var ProjectTypes = []ProjectType{ProjectSaaSApp, ProjectMobileApp, ProjectHackathon, ProjectOpenSource, ProjectSideProject}

type TaskType string

const (
	TaskFeature TaskType = "feature"
	TaskBug     TaskType = "bug"
	TaskScope   TaskType = "scope"
)

// Valid reports whether t is one of the accepted task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskFeature, TaskBug, TaskScope:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatus is the kanban column a task sits in.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// BoardColumns is the display order of the kanban columns.
var BoardColumns = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}

type CollaboratorRole string

const (
	RoleOwner  CollaboratorRole = "owner"
	RoleMember CollaboratorRole = "member"
)
