package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProjectDraft is the user's project idea captured by the first wizard step.
// It is never persisted directly.
type ProjectDraft struct {
	Name        string
	Description string
	Keywords    []string
	Type        ProjectType
}

// Validate checks that the required fields are present. Content is not
// otherwise inspected.
func (d ProjectDraft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(string(d.Type)) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("project draft is missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Clone returns a copy that shares no slices with d.
func (d ProjectDraft) Clone() ProjectDraft {
	d.Keywords = append([]string(nil), d.Keywords...)
	return d
}

// WeekPlanItem is one week of a generated project plan.
type WeekPlanItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProjectPlan is the ordered list of weekly goals. Position i is week i+1.
type ProjectPlan []WeekPlanItem

// Serialize renders the plan as the string stored in projects.master_plan.
// The same string is handed verbatim to the task generation prompt.
func (p ProjectPlan) Serialize() string {
	items := p
	if items == nil {
		items = ProjectPlan{}
	}
	// The text is prompt input, so &, < and > stay literal.
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		// Only strings are marshalled; this cannot fail.
		panic(fmt.Sprintf("serializing project plan: %v", err))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// ParsePlan reverses Serialize.
func ParsePlan(s string) (ProjectPlan, error) {
	var plan ProjectPlan
	if err := json.Unmarshal([]byte(s), &plan); err != nil {
		return nil, fmt.Errorf("parsing master plan: %w", err)
	}
	return plan, nil
}

// Week returns the 1-based week n, or false when out of range.
func (p ProjectPlan) Week(n int) (WeekPlanItem, bool) {
	if n < 1 || n > len(p) {
		return WeekPlanItem{}, false
	}
	return p[n-1], true
}

// Clone returns a copy with its own backing array.
func (p ProjectPlan) Clone() ProjectPlan {
	if p == nil {
		return nil
	}
	return append(ProjectPlan(nil), p...)
}

// TaskDraft is a generated, not yet persisted task.
type TaskDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        TaskType     `json:"type"`
	Priority    TaskPriority `json:"priority"`
}

// Validate checks that the draft has a title and enum values in range.
func (t TaskDraft) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("task %q: invalid type %q", t.Title, t.Type)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("task %q: invalid priority %q", t.Title, t.Priority)
	}
	return nil
}
