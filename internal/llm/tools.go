package llm

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/domain"
)

const (
	planToolName  = "create_project_plan"
	tasksToolName = "create_project_tasks"
)

func minItems(n int) *int { return &n }

func stringProp(desc string) *jsonSchema {
	return &jsonSchema{Type: "string", Description: desc}
}

// planTool declares {weeks: [{title, description}, ...]}.
var planTool = toolDef{
	Type: "function",
	Function: functionDef{
		Name:        planToolName,
		Description: "Create a week by week project plan.",
		Parameters: &jsonSchema{
			Type: "object",
			Properties: map[string]*jsonSchema{
				"weeks": {
					Type:     "array",
					MinItems: minItems(1),
					Items: &jsonSchema{
						Type: "object",
						Properties: map[string]*jsonSchema{
							"title":       stringProp("Short title for the week"),
							"description": stringProp("Concrete goals for the week"),
						},
						Required: []string{"title", "description"},
					},
				},
			},
			Required: []string{"weeks"},
		},
	},
}

// tasksTool declares {tasks: [{title, description, priority, type}, ...]}.
var tasksTool = toolDef{
	Type: "function",
	Function: functionDef{
		Name:        tasksToolName,
		Description: "Create the tasks for the first week of a project.",
		Parameters: &jsonSchema{
			Type: "object",
			Properties: map[string]*jsonSchema{
				"tasks": {
					Type:     "array",
					MinItems: minItems(1),
					Items: &jsonSchema{
						Type: "object",
						Properties: map[string]*jsonSchema{
							"title":       stringProp("Task title"),
							"description": stringProp("What needs to be done"),
							"priority": {
								Type: "string",
								Enum: []string{string(domain.PriorityLow), string(domain.PriorityMedium), string(domain.PriorityHigh)},
							},
							"type": {
								Type: "string",
								Enum: []string{string(domain.TaskFeature), string(domain.TaskScope), string(domain.TaskBug)},
							},
						},
						Required: []string{"title", "description", "priority", "type"},
					},
				},
			},
			Required: []string{"tasks"},
		},
	},
}

func forceTool(name string) *toolChoice {
	return &toolChoice{Type: "function", Function: toolChoiceFunction{Name: name}}
}

// planArguments is the argument payload of create_project_plan.
type planArguments struct {
	Weeks []domain.WeekPlanItem `json:"weeks"`
}

// taskArguments is the argument payload of create_project_tasks.
type taskArguments struct {
	Tasks []domain.TaskDraft `json:"tasks"`
}

func validatePlanArguments(args planArguments) error {
	if len(args.Weeks) != domain.DefaultNumSprints {
		return fmt.Errorf("expected %d weeks, got %d", domain.DefaultNumSprints, len(args.Weeks))
	}
	for i, w := range args.Weeks {
		if strings.TrimSpace(w.Title) == "" {
			return fmt.Errorf("week %d: title is required", i+1)
		}
		if strings.TrimSpace(w.Description) == "" {
			return fmt.Errorf("week %d: description is required", i+1)
		}
	}
	return nil
}

func validateTaskArguments(args taskArguments) error {
	if len(args.Tasks) == 0 {
		return fmt.Errorf("at least one task is required")
	}
	for i, t := range args.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
	}
	return nil
}
