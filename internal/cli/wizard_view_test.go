package cli

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/teatest"
	"github.com/alexanderramin/sprintwise/internal/testutil"
	"github.com/alexanderramin/sprintwise/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWizardDriver(t *testing.T, env *testEnv) (*teatest.Driver, *wizardModel) {
	t.Helper()
	owner, err := env.app.currentUser(context.Background())
	require.NoError(t, err)

	m := newWizardModel(context.Background(), env.app, testutil.RecipeTrackerDraft(), owner.ID)
	t.Cleanup(m.shutdown)

	d := teatest.New(t, m,
		teatest.WithSize(100, 80),
		teatest.WithCmdTimeout(50*time.Millisecond),
	)
	return d, m
}

func TestWizardView_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	d, m := newWizardDriver(t, env)

	require.Equal(t, wizard.PlanReady, m.snap.State)
	view := d.View()
	assert.Contains(t, view, "Recipe Tracker")
	assert.Contains(t, view, "Build the MVP first.")
	assert.Contains(t, view, "Set up repo and auth scaffold")
	assert.Contains(t, view, "Accept the plan")

	d.PressKey('a')
	require.Equal(t, wizard.TasksReady, m.snap.State)
	assert.Contains(t, d.View(), "WEEK 1 TASKS")
	assert.Contains(t, d.View(), "› 1. Task 1")

	d.PressDown()
	d.PressKey('d')
	require.Len(t, m.snap.Tasks, 2)
	assert.Equal(t, "Task 3", m.snap.Tasks[1].Title)

	d.PressKey('a')
	require.Equal(t, wizard.Committed, m.snap.State)
	assert.Contains(t, d.View(), "Created Recipe Tracker")

	projects := env.userProjects(t, "alice")
	require.Len(t, projects, 1)
	tasks, err := env.app.Board.Board(context.Background(), projects[0].ID, 0)
	require.NoError(t, err)
	assert.Len(t, tasks.Columns[0].Tasks, 2)

	d.PressKey('a')
	assert.True(t, d.Quitting)
}

func TestWizardView_PlanFailureThenRetry(t *testing.T) {
	env := newTestEnv(t)
	var calls atomic.Int32
	env.gateway.PlanFn = func(context.Context, domain.ProjectDraft) (domain.ProjectPlan, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("model unavailable")
		}
		return testutil.TenWeekPlan(), nil
	}
	d, m := newWizardDriver(t, env)

	require.Equal(t, wizard.DetailsCaptured, m.snap.State)
	assert.Contains(t, d.View(), "model unavailable")

	d.PressKey('r')
	require.Equal(t, wizard.PlanReady, m.snap.State)
	assert.Equal(t, int32(2), env.gateway.PlanCalls.Load())
	assert.NotContains(t, d.View(), "model unavailable")
}

func TestWizardView_Regenerate(t *testing.T) {
	env := newTestEnv(t)
	d, m := newWizardDriver(t, env)
	require.Equal(t, wizard.PlanReady, m.snap.State)

	d.PressKey('r')

	assert.Equal(t, wizard.PlanReady, m.snap.State)
	assert.Equal(t, int32(2), env.gateway.PlanCalls.Load())
	assert.Equal(t, int32(2), env.gateway.OverviewCalls.Load())
}

func TestWizardView_IgnoresDropOutsideTaskReview(t *testing.T) {
	env := newTestEnv(t)
	d, m := newWizardDriver(t, env)

	d.PressKey('d')

	assert.Equal(t, wizard.PlanReady, m.snap.State)
	assert.Zero(t, env.gateway.TasksCalls.Load())
}

func TestWizardView_EscClosesWithoutSaving(t *testing.T) {
	env := newTestEnv(t)
	d, m := newWizardDriver(t, env)

	d.PressEsc()

	assert.True(t, d.Quitting)
	assert.True(t, m.quitting)
	assert.Empty(t, d.View())
	assert.ErrorIs(t, m.wiz.AcceptPlan(context.Background()), wizard.ErrClosed)
	assert.Empty(t, env.userProjects(t, "alice"))
}

func TestWizardView_EscCancelsPendingStream(t *testing.T) {
	env := newTestEnv(t)
	released := make(chan struct{})
	env.gateway.PlanFn = func(ctx context.Context, _ domain.ProjectDraft) (domain.ProjectPlan, error) {
		<-ctx.Done()
		close(released)
		return nil, ctx.Err()
	}
	d, m := newWizardDriver(t, env)
	assert.True(t, m.busy)

	d.PressEsc()

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("plan request was not cancelled")
	}
	assert.True(t, d.Quitting)
}
