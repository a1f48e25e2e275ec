package cli

import (
	"errors"
	"slices"
	"strings"

	"github.com/alexanderramin/sprintwise/internal/cli/formatter"
	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// sprintwiseHuhTheme returns a huh theme built on the Gruvbox palette.
func sprintwiseHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	accent := lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	dim := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	fg := lipgloss.NewStyle().Foreground(formatter.ColorFg)

	t.Focused.Base = t.Focused.Base.BorderForeground(formatter.ColorHeader)
	t.Focused.Title = accent.Bold(true)
	t.Focused.Description = dim
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.SelectSelector = accent.SetString("› ")
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = fg
	t.Focused.FocusedButton = fg.Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = dim.Padding(0, 1)
	t.Focused.TextInput.Cursor = accent
	t.Focused.TextInput.Prompt = accent
	t.Focused.TextInput.Text = fg
	t.Focused.TextInput.Placeholder = dim

	t.Blurred.Title = dim
	t.Blurred.SelectSelector = dim
	t.Blurred.SelectedOption = dim
	t.Blurred.UnselectedOption = dim
	t.Blurred.TextInput.Prompt = dim
	t.Blurred.TextInput.Text = dim

	return t
}

// detailsInput collects a project draft through a huh form. Flag values
// already set on the draft are used as defaults.
type detailsInput struct {
	draft       *domain.ProjectDraft
	projectType string
	keywords    string
}

func newDetailsInput(draft *domain.ProjectDraft) *detailsInput {
	return &detailsInput{
		draft:       draft,
		projectType: string(draft.Type),
		keywords:    strings.Join(draft.Keywords, ", "),
	}
}

func (in *detailsInput) form() *huh.Form {
	types := projectTypeNames()
	if in.projectType != "" && !slices.Contains(types, in.projectType) {
		types = append(types, in.projectType)
	}
	if in.projectType == "" && len(types) > 0 {
		in.projectType = types[0]
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Placeholder("Recipe Tracker").
				Value(&in.draft.Name).
				Validate(required("name")),
			huh.NewText().
				Title("Description").
				Description("A sentence or two about what you want to build").
				Value(&in.draft.Description).
				Validate(required("description")),
			huh.NewSelect[string]().
				Title("Project type").
				Options(huh.NewOptions(types...)...).
				Value(&in.projectType),
			huh.NewInput().
				Title("Keywords").
				Description("Comma separated, e.g. React, Supabase").
				Value(&in.keywords),
		),
	).WithTheme(sprintwiseHuhTheme()).WithShowHelp(false)
}

// apply copies the select and keyword fields back onto the draft.
func (in *detailsInput) apply() {
	in.draft.Type = domain.ProjectType(in.projectType)
	in.draft.Keywords = domain.SplitKeywords(in.keywords)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
