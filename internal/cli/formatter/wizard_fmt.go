package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/service"
)

// FormatDraftSummary renders the captured project details on one line.
func FormatDraftSummary(d domain.ProjectDraft) string {
	line := Bold(d.Name) + "  " + StylePurple.Render(string(d.Type))
	if len(d.Keywords) > 0 {
		line += "  " + Dim(strings.Join(d.Keywords, ", "))
	}
	return line
}

// FormatTaskDrafts lists generated tasks. The task at cursor is marked;
// pass -1 for no cursor.
func FormatTaskDrafts(tasks []domain.TaskDraft, cursor int) string {
	if len(tasks) == 0 {
		return Dim("No tasks left. Regenerate the plan or quit.")
	}

	var b strings.Builder
	for i, t := range tasks {
		marker := "  "
		title := StyleBold.Render(t.Title)
		if i == cursor {
			marker = StyleHeader.Render("› ")
			title = StyleHeader.Render(t.Title)
		}
		fmt.Fprintf(&b, "%s%s %s %s %s\n", marker, Dim(fmt.Sprintf("%d.", i+1)), title, TypeBadge(t.Type), PriorityBadge(t.Priority))
		if t.Description != "" {
			fmt.Fprintf(&b, "     %s\n", Dim(t.Description))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCommitResult reports what a commit wrote. err may carry a
// *service.PartialCommitError, in which case the failed tasks are listed.
func FormatCommitResult(result *service.CommitResult, err error) string {
	if result == nil || result.Project == nil {
		if err != nil {
			return StyleRed.Render("Commit failed: " + err.Error())
		}
		return ""
	}

	var b strings.Builder
	p := result.Project
	fmt.Fprintf(&b, "%s %s %s\n", StyleGreen.Render("✔ Created"), Bold(p.Name), TruncID(p.ID))
	fmt.Fprintf(&b, "  %d of %d sprints planned, %d tasks on sprint 1\n",
		len(mustPlan(p)), p.NumSprints, len(result.Tasks))

	var partial *service.PartialCommitError
	if errors.As(err, &partial) {
		fmt.Fprintf(&b, "%s\n", StyleYellow.Render(fmt.Sprintf("  %d of %d tasks could not be saved:", len(partial.Failures), partial.Total)))
		for _, f := range partial.Failures {
			fmt.Fprintf(&b, "    %s %s %s\n", StyleRed.Render(fmt.Sprintf("#%d", f.Index)), f.Title, Dim(f.Err.Error()))
		}
	}
	fmt.Fprintf(&b, "  %s", Dim("sprintwise board "+p.DisplayID()))
	return b.String()
}

func mustPlan(p *domain.Project) domain.ProjectPlan {
	plan, err := p.Plan()
	if err != nil {
		return nil
	}
	return plan
}
