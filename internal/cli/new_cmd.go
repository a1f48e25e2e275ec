package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/alexanderramin/sprintwise/internal/cli/formatter"
	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/prompts"
	"github.com/alexanderramin/sprintwise/internal/wizard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// projectTypeValue is a --type flag that canonicalizes known project types
// and lets unknown ones through to the default prompts.
type projectTypeValue struct {
	val *domain.ProjectType
}

var _ pflag.Value = (*projectTypeValue)(nil)

func (v *projectTypeValue) String() string {
	if v.val == nil {
		return ""
	}
	return string(*v.val)
}

func (v *projectTypeValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("project type cannot be empty")
	}
	for _, known := range projectTypeNames() {
		if strings.EqualFold(known, s) {
			s = known
			break
		}
	}
	*v.val = domain.ProjectType(s)
	return nil
}

// projectTypeNames lists the built-in types followed by any other type the
// prompt catalog has templates for.
func projectTypeNames() []string {
	names := make([]string, 0, len(domain.ProjectTypes))
	for _, t := range domain.ProjectTypes {
		names = append(names, string(t))
	}
	for _, t := range prompts.Types() {
		if !slices.Contains(names, t) {
			names = append(names, t)
		}
	}
	return names
}

func (v *projectTypeValue) Type() string { return "type" }

func newNewCmd(app *App) *cobra.Command {
	var draft domain.ProjectDraft
	var yes bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a project with the AI wizard",
		Long: "Describe a project and get a streamed overview, a 10-week plan and the\n" +
			"first week of tasks. Without a terminal, or with --yes, every step is\n" +
			"accepted automatically.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if app.Gateway == nil {
				return errors.New("no model gateway configured")
			}
			owner, err := app.currentUser(ctx)
			if err != nil {
				return err
			}
			draft.Keywords = domain.CleanKeywords(draft.Keywords)

			if draft.Validate() != nil {
				if !app.interactive() {
					return fmt.Errorf("%w (pass --name, --description and --type)", draft.Validate())
				}
				in := newDetailsInput(&draft)
				if err := in.form().RunWithContext(ctx); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return fmt.Errorf("reading project details: %w", err)
				}
				in.apply()
			}

			if yes || !app.interactive() {
				return runPlainWizard(ctx, app, draft, owner.ID, cmd.OutOrStdout())
			}
			return runWizardTUI(ctx, app, draft, owner.ID, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&draft.Name, "name", "n", "", "project name")
	flags.StringVarP(&draft.Description, "description", "d", "", "what the project is about")
	flags.VarP(&projectTypeValue{val: &draft.Type}, "type", "t", "project type ("+strings.Join(projectTypeNames(), ", ")+")")
	flags.StringSliceVarP(&draft.Keywords, "keyword", "k", nil, "technology or topic keyword (repeatable)")
	flags.BoolVarP(&yes, "yes", "y", false, "accept every step without prompting")
	return cmd
}

// runWizardTUI runs the interactive wizard and prints the outcome once the
// terminal is restored.
func runWizardTUI(ctx context.Context, app *App, draft domain.ProjectDraft, ownerID string, out io.Writer) error {
	m := newWizardModel(ctx, app, draft, ownerID)
	defer m.shutdown()

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	snap := m.wiz.Snapshot()
	if snap.State != wizard.Committed {
		fmt.Fprintln(out, formatter.Dim("Wizard closed. Nothing was saved."))
		return nil
	}
	fmt.Fprintln(out, formatter.FormatCommitResult(snap.Result, snap.Err))
	return nil
}

// runPlainWizard walks the flow without a terminal UI, accepting every step
// and streaming the overview to out as it arrives.
func runPlainWizard(ctx context.Context, app *App, draft domain.ProjectDraft, ownerID string, out io.Writer) error {
	printer := &overviewPrinter{out: out}
	wiz := wizard.New(app.Gateway, app.Commit,
		wizard.WithListener(printer.onChange),
		wizard.WithLogger(app.logger()),
		wizard.WithClock(app.now),
	)
	defer wiz.Close()

	if err := wiz.SubmitDetails(draft); err != nil {
		return err
	}

	fmt.Fprintln(out, formatter.Header("Overview"))
	planErr := wiz.RequestPlan(ctx)
	printer.finish()
	if snap := wiz.Snapshot(); snap.OverviewErr != nil {
		fmt.Fprintln(out, formatter.StyleYellow.Render("Overview unavailable: "+snap.OverviewErr.Error()))
	}
	if planErr != nil {
		return planErr
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.Header("10-week plan"))
	fmt.Fprintln(out, formatter.FormatWeeks(wiz.Snapshot().Plan, 1))

	if err := wiz.AcceptPlan(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.Header("Week 1 tasks"))
	fmt.Fprintln(out, formatter.FormatTaskDrafts(wiz.Snapshot().Tasks, -1))

	result, err := wiz.AcceptTasks(ctx, ownerID)
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.FormatCommitResult(result, err))
	if result == nil {
		return err
	}
	// Task failures were listed above; the project itself exists.
	return nil
}

// overviewPrinter writes each new piece of the overview as the wizard
// reports it.
type overviewPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	printed int
}

func (p *overviewPrinter) onChange(snap wizard.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(snap.Overview) < p.printed {
		p.printed = 0
	}
	if len(snap.Overview) > p.printed {
		io.WriteString(p.out, snap.Overview[p.printed:])
		p.printed = len(snap.Overview)
	}
}

func (p *overviewPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.printed > 0 {
		io.WriteString(p.out, "\n")
	}
}
