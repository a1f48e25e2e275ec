package cli

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/alexanderramin/sprintwise/internal/cli/formatter"
	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/wizard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chromeHeight is the number of lines around the viewport: title, blank
// line, status and help.
const chromeHeight = 4

type wizardKeyMap struct {
	Accept     key.Binding
	Regenerate key.Binding
	Drop       key.Binding
	Up         key.Binding
	Down       key.Binding
	Quit       key.Binding
}

func newWizardKeyMap() wizardKeyMap {
	return wizardKeyMap{
		Accept:     key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "accept")),
		Regenerate: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regenerate")),
		Drop:       key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "drop task")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// wizardChangedMsg tells the model the wizard has a new snapshot.
type wizardChangedMsg struct{}

// stepDoneMsg reports a finished wizard call.
type stepDoneMsg struct {
	op  string
	err error
}

// wizardModel is the bubbletea front end of a wizard.Wizard. Wizard calls run
// as Cmds; progress arrives through the listener as wizardChangedMsg.
type wizardModel struct {
	ctx     context.Context
	wiz     *wizard.Wizard
	draft   domain.ProjectDraft
	ownerID string

	changed   chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	snap     wizard.Snapshot
	busy     bool
	status   string
	cursor   int
	quitting bool

	keys     wizardKeyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
}

func newWizardModel(ctx context.Context, app *App, draft domain.ProjectDraft, ownerID string) *wizardModel {
	m := &wizardModel{
		ctx:      ctx,
		draft:    draft,
		ownerID:  ownerID,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		keys:     newWizardKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		viewport: viewport.New(80, 20),
	}
	m.wiz = wizard.New(app.Gateway, app.Commit,
		wizard.WithListener(m.onChange),
		wizard.WithLogger(app.logger()),
		wizard.WithClock(app.now),
	)
	return m
}

// onChange runs on wizard goroutines. It never blocks; a pending signal
// already covers the new snapshot.
func (m *wizardModel) onChange(wizard.Snapshot) {
	select {
	case m.changed <- struct{}{}:
	default:
	}
}

func (m *wizardModel) waitForChange() tea.Cmd {
	changed, done := m.changed, m.done
	return func() tea.Msg {
		select {
		case <-changed:
			return wizardChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// shutdown closes the wizard, cancelling in-flight calls. Safe to call more
// than once.
func (m *wizardModel) shutdown() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.wiz.Close()
	})
}

func (m *wizardModel) step(op string, fn func(context.Context) error) tea.Cmd {
	m.busy = true
	m.status = ""
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg { return stepDoneMsg{op: op, err: fn(ctx)} },
		m.spinner.Tick,
	)
}

func (m *wizardModel) commit(ctx context.Context) error {
	_, err := m.wiz.AcceptTasks(ctx, m.ownerID)
	return err
}

func (m *wizardModel) Init() tea.Cmd {
	if err := m.wiz.SubmitDetails(m.draft); err != nil {
		m.status = err.Error()
		return nil
	}
	m.snap = m.wiz.Snapshot()
	m.refresh()
	return tea.Batch(m.step("plan", m.wiz.RequestPlan), m.waitForChange())
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case wizardChangedMsg:
		m.snap = m.wiz.Snapshot()
		m.refresh()
		return m, m.waitForChange()

	case stepDoneMsg:
		m.busy = false
		m.snap = m.wiz.Snapshot()
		m.clampCursor()
		switch {
		case msg.err == nil, errors.Is(msg.err, wizard.ErrAlreadyRequested):
		case msg.op == "commit" && m.snap.Result != nil:
			// Partial commit; the result view lists the failed tasks.
		default:
			m.status = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.working() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *wizardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.shutdown()
		return tea.Quit
	}
	if m.busy || m.snap.State.Pending() {
		return m.scroll(msg)
	}

	state := m.snap.State
	switch {
	case key.Matches(msg, m.keys.Accept):
		switch state {
		case wizard.DetailsCaptured:
			return m.step("plan", m.wiz.RequestPlan)
		case wizard.PlanReady:
			return m.step("tasks", m.wiz.AcceptPlan)
		case wizard.TasksReady:
			return m.step("commit", m.commit)
		case wizard.Committed:
			m.quitting = true
			return tea.Quit
		}

	case key.Matches(msg, m.keys.Regenerate):
		switch state {
		case wizard.DetailsCaptured:
			return m.step("plan", m.wiz.RequestPlan)
		case wizard.PlanReady:
			return m.step("plan", m.wiz.RegeneratePlan)
		case wizard.TasksReady:
			if m.snap.Err != nil {
				return m.step("commit", m.commit)
			}
		}

	case key.Matches(msg, m.keys.Drop) && state == wizard.TasksReady:
		if err := m.wiz.RemoveTask(m.cursor); err != nil {
			m.status = err.Error()
		}
		m.snap = m.wiz.Snapshot()
		m.clampCursor()
		m.refresh()
		return nil

	case key.Matches(msg, m.keys.Up) && state == wizard.TasksReady:
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
		return nil

	case key.Matches(msg, m.keys.Down) && state == wizard.TasksReady:
		if m.cursor < len(m.snap.Tasks)-1 {
			m.cursor++
			m.refresh()
		}
		return nil
	}

	return m.scroll(msg)
}

func (m *wizardModel) scroll(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// working reports whether a spinner should be shown.
func (m *wizardModel) working() bool {
	return m.busy || m.snap.State.Pending() || m.snap.OverviewLoading
}

func (m *wizardModel) clampCursor() {
	m.cursor = min(m.cursor, max(len(m.snap.Tasks)-1, 0))
}

// refresh re-renders the scrollable body from the current snapshot.
func (m *wizardModel) refresh() {
	s := m.snap
	width := max(m.viewport.Width, 20)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(formatter.FormatDraftSummary(s.Draft) + "\n")
	if s.Draft.Description != "" {
		b.WriteString(wrap.Render(formatter.Dim(s.Draft.Description)) + "\n")
	}

	if s.Overview != "" || s.OverviewLoading || s.OverviewErr != nil {
		b.WriteString("\n" + formatter.Header("Overview") + "\n")
		if s.Overview != "" {
			b.WriteString(wrap.Render(formatter.StyleFg.Render(s.Overview)) + "\n")
		}
		if s.OverviewErr != nil {
			b.WriteString(formatter.StyleYellow.Render("Overview unavailable: "+s.OverviewErr.Error()) + "\n")
		}
	}

	if len(s.Plan) > 0 {
		b.WriteString("\n" + formatter.Header("10-week plan") + "\n")
		b.WriteString(formatter.FormatWeeks(s.Plan, 0) + "\n")
	}

	switch s.State {
	case wizard.TasksReady, wizard.Committing:
		cursor := -1
		if s.State == wizard.TasksReady {
			cursor = m.cursor
		}
		b.WriteString("\n" + formatter.Header("Week 1 tasks") + "\n")
		b.WriteString(formatter.FormatTaskDrafts(s.Tasks, cursor) + "\n")
	case wizard.Committed:
		b.WriteString("\n" + formatter.FormatCommitResult(s.Result, s.Err) + "\n")
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(b.String())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *wizardModel) View() string {
	if m.quitting {
		return ""
	}
	title := formatter.StyleHeader.Render("NEW PROJECT") + "  " + formatter.Dim(strings.ReplaceAll(m.snap.State.String(), "_", " "))
	return title + "\n\n" + m.viewport.View() + "\n" + m.statusLine() + "\n" + m.help.ShortHelpView(m.bindings())
}

func (m *wizardModel) statusLine() string {
	s := m.snap
	switch {
	case s.State == wizard.PlanPending:
		return m.spinner.View() + " " + formatter.Dim("Drafting the 10-week plan…")
	case s.State == wizard.TasksPending:
		return m.spinner.View() + " " + formatter.Dim("Breaking week 1 into tasks…")
	case s.State == wizard.Committing:
		return m.spinner.View() + " " + formatter.Dim("Saving project…")
	case m.busy:
		return m.spinner.View() + " " + formatter.Dim("Working…")
	case m.status != "":
		return formatter.StyleRed.Render(m.status)
	case s.State == wizard.DetailsCaptured && s.Err != nil:
		return formatter.StyleRed.Render("Plan failed: "+s.Err.Error()) + formatter.Dim("  press r to retry")
	case s.State == wizard.PlanReady && s.Err != nil:
		return formatter.StyleRed.Render("Task generation failed: "+s.Err.Error()) + formatter.Dim("  press a to retry")
	case s.State == wizard.TasksReady && s.Err != nil:
		return formatter.StyleRed.Render("Save failed: "+s.Err.Error()) + formatter.Dim("  press a to retry")
	case s.OverviewLoading:
		return m.spinner.View() + " " + formatter.Dim("Streaming overview…")
	case s.State == wizard.PlanReady:
		return formatter.Dim("Accept the plan to generate week 1 tasks.")
	case s.State == wizard.TasksReady:
		return formatter.Dim("Drop any task you don't want, then accept to save.")
	case s.State == wizard.Committed:
		return formatter.StyleGreen.Render("Saved.") + formatter.Dim("  press a or esc to exit")
	}
	return ""
}

func (m *wizardModel) bindings() []key.Binding {
	switch m.snap.State {
	case wizard.DetailsCaptured, wizard.PlanReady:
		if !m.busy {
			return []key.Binding{m.keys.Accept, m.keys.Regenerate, m.keys.Quit}
		}
	case wizard.TasksReady:
		if !m.busy {
			return []key.Binding{m.keys.Accept, m.keys.Drop, m.keys.Up, m.keys.Down, m.keys.Quit}
		}
	case wizard.Committed:
		return []key.Binding{m.keys.Accept, m.keys.Quit}
	}
	return []key.Binding{m.keys.Quit}
}
