package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/llm"
)

// SSEBody renders fragments as a chat-completions event stream terminated by
// [DONE].
func SSEBody(fragments ...string) io.ReadCloser {
	var b strings.Builder
	for _, f := range fragments {
		fmt.Fprintf(&b, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", f)
	}
	b.WriteString("data: [DONE]\n\n")
	return io.NopCloser(strings.NewReader(b.String()))
}

// FakeGateway is an in-memory llm.Gateway. Nil funcs fall back to a ten week
// plan, three tasks and a two-fragment overview.
type FakeGateway struct {
	PlanFn     func(ctx context.Context, draft domain.ProjectDraft) (domain.ProjectPlan, error)
	TasksFn    func(ctx context.Context, planText string, projectType domain.ProjectType) ([]domain.TaskDraft, error)
	OverviewFn func(ctx context.Context, draft domain.ProjectDraft) (io.ReadCloser, error)

	PlanCalls     atomic.Int32
	TasksCalls    atomic.Int32
	OverviewCalls atomic.Int32

	mu           sync.Mutex
	lastPlanText string
}

var _ llm.Gateway = (*FakeGateway)(nil)

func (g *FakeGateway) GeneratePlan(ctx context.Context, draft domain.ProjectDraft) (domain.ProjectPlan, error) {
	g.PlanCalls.Add(1)
	if g.PlanFn != nil {
		return g.PlanFn(ctx, draft)
	}
	return TenWeekPlan(), nil
}

func (g *FakeGateway) GenerateTasks(ctx context.Context, planText string, projectType domain.ProjectType) ([]domain.TaskDraft, error) {
	g.TasksCalls.Add(1)
	g.mu.Lock()
	g.lastPlanText = planText
	g.mu.Unlock()
	if g.TasksFn != nil {
		return g.TasksFn(ctx, planText, projectType)
	}
	return TaskDrafts(3), nil
}

func (g *FakeGateway) GenerateOverview(ctx context.Context, draft domain.ProjectDraft) (io.ReadCloser, error) {
	g.OverviewCalls.Add(1)
	if g.OverviewFn != nil {
		return g.OverviewFn(ctx, draft)
	}
	return SSEBody("Build ", "the MVP first."), nil
}

// LastPlanText is the plan text passed to the most recent GenerateTasks call.
func (g *FakeGateway) LastPlanText() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastPlanText
}
