package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
)

// FormatProjectList renders the user's projects inside a bordered box.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	if len(projects) == 0 {
		return RenderBox("Projects", Dim("No projects yet. Run `sprintwise new` to create one."))
	}

	headers := []string{"ID", "NAME", "TYPE", "SPRINT", "DUE"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			StylePurple.Render(string(p.Type)),
			SprintPill(p),
			DueLabel(p.DueDate, now),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// SprintPill shows where a project is in its plan, e.g. "● 3/10".
func SprintPill(p *domain.Project) string {
	if p.Complete {
		return StyleDim.Render("✔ complete")
	}
	return StyleGreen.Render(fmt.Sprintf("● %d/%d", p.CurrentSprint, p.NumSprints))
}

// FormatWeeks lists plan weeks. The week numbered current is highlighted;
// pass 0 to highlight none.
func FormatWeeks(plan domain.ProjectPlan, current int) string {
	var b strings.Builder
	for i, w := range plan {
		n := i + 1
		marker := "  "
		title := StyleBold.Render(w.Title)
		if n == current {
			marker = StyleHeader.Render("▶ ")
			title = StyleHeader.Render(w.Title)
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, Dim(fmt.Sprintf("Week %2d", n)), title)
		if w.Description != "" {
			fmt.Fprintf(&b, "           %s\n", StyleFg.Render(w.Description))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatProjectPlan renders a stored project's master plan with its current
// sprint highlighted.
func FormatProjectPlan(p *domain.Project, plan domain.ProjectPlan) string {
	current := p.CurrentSprint
	if p.Complete {
		current = 0
	}

	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "  " + SprintPill(p) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	if len(p.Keywords) > 0 {
		b.WriteString(StylePurple.Render(strings.Join(p.Keywords, " · ")) + "\n")
	}
	b.WriteString("\n")
	if len(plan) == 0 {
		b.WriteString(Dim("No plan stored."))
	} else {
		b.WriteString(FormatWeeks(plan, current))
	}
	return RenderBox("Plan", b.String())
}

// FormatSprintAdvance reports the outcome of moving a project to its next
// sprint.
func FormatSprintAdvance(p *domain.Project) string {
	if p.Complete {
		return StyleGreen.Render(fmt.Sprintf("%s is complete. All %d sprints finished.", p.Name, p.NumSprints))
	}
	return fmt.Sprintf("%s moved to sprint %s of %d.",
		Bold(p.Name), StyleHeader.Render(fmt.Sprint(p.CurrentSprint)), p.NumSprints)
}
