package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style of a board column.
func StatusColor(status domain.TaskStatus) lipgloss.Style {
	switch status {
	case domain.TaskTodo:
		return StyleBlue
	case domain.TaskInProgress:
		return StyleYellow
	case domain.TaskDone:
		return StyleGreen
	default:
		return StyleDim
	}
}

// StatusLabel returns the column title for a task status, e.g. "IN PROGRESS".
func StatusLabel(status domain.TaskStatus) string {
	return strings.ToUpper(strings.ReplaceAll(string(status), "_", " "))
}

// PriorityBadge renders a task priority as a colored marker such as "▲ high".
func PriorityBadge(p domain.TaskPriority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ high")
	case domain.PriorityMedium:
		return StyleYellow.Render("● medium")
	case domain.PriorityLow:
		return StyleDim.Render("▽ low")
	default:
		return StyleDim.Render(string(p))
	}
}

// TypeBadge renders a task type in brackets.
func TypeBadge(t domain.TaskType) string {
	switch t {
	case domain.TaskBug:
		return StyleRed.Render("[bug]")
	case domain.TaskScope:
		return StylePurple.Render("[scope]")
	default:
		return StyleBlue.Render("[" + string(t) + "]")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
