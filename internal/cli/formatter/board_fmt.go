package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/service"
	"github.com/charmbracelet/lipgloss"
)

const (
	minColumnWidth = 24
	maxColumnWidth = 44
)

// FormatBoard renders a sprint board as side-by-side columns sized to fit
// width. A width of 0 uses the widest column size.
func FormatBoard(board *service.Board, width int, now time.Time) string {
	colWidth := maxColumnWidth
	if width > 0 {
		colWidth = min(max((width-2*len(board.Columns))/max(len(board.Columns), 1)-4, minColumnWidth), maxColumnWidth)
	}

	cols := make([]string, 0, len(board.Columns))
	for _, col := range board.Columns {
		cols = append(cols, renderColumn(col, colWidth, now))
	}

	p := board.Project
	title := fmt.Sprintf("%s  %s  %s",
		StyleHeader.Render(strings.ToUpper(p.Name)),
		Dim(fmt.Sprintf("sprint %d of %d", board.Sprint, p.NumSprints)),
		TruncID(p.ID))
	if week, ok := planWeek(p, board.Sprint); ok {
		title += "\n" + StyleFg.Render(week.Title)
	}

	return title + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, interleave(cols, "  ")...)
}

func planWeek(p *domain.Project, sprint int) (domain.WeekPlanItem, bool) {
	plan, err := p.Plan()
	if err != nil {
		return domain.WeekPlanItem{}, false
	}
	return plan.Week(sprint)
}

func renderColumn(col service.Column, width int, now time.Time) string {
	style := StatusColor(col.Status)
	header := style.Bold(true).Render(fmt.Sprintf("%s (%d)", StatusLabel(col.Status), len(col.Tasks)))

	var b strings.Builder
	b.WriteString(header)
	if len(col.Tasks) == 0 {
		b.WriteString("\n\n" + Dim("empty"))
	}
	for _, t := range col.Tasks {
		b.WriteString("\n\n" + renderCard(t, width, now))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.GetForeground()).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

func renderCard(t *domain.Task, width int, now time.Time) string {
	title := Bold(Truncate(t.Title, width))
	meta := fmt.Sprintf("%s %s %s", TruncID(t.ID), TypeBadge(t.Type), PriorityBadge(t.Priority))
	due := Dim("due ") + DueLabel(t.DueDate, now)
	return title + "\n" + meta + "\n" + due
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, 2*len(items))
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}

// FormatTask renders a single task after a move or edit.
func FormatTask(t *domain.Task, now time.Time) string {
	return fmt.Sprintf("%s %s  %s  %s  %s  %s",
		TruncID(t.ID),
		Bold(t.Title),
		StatusColor(t.Status).Render(StatusLabel(t.Status)),
		Dim(fmt.Sprintf("sprint %d", t.Sprint)),
		PriorityBadge(t.Priority),
		Dim("due ")+DueLabel(t.DueDate, now))
}
