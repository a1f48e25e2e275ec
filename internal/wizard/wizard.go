// Package wizard drives the project creation flow: capture details,
// generate a plan and an overview, generate first-week tasks, and commit.
//
// A Wizard is safe for concurrent use. Long-running steps block the calling
// goroutine; observers follow progress through snapshots delivered to the
// listener.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/llm"
	"github.com/alexanderramin/sprintwise/internal/service"
	"github.com/alexanderramin/sprintwise/internal/stream"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Committer persists an accepted flow. service.CommitService satisfies it.
type Committer interface {
	Commit(ctx context.Context, draft domain.ProjectDraft, plan domain.ProjectPlan, tasks []domain.TaskDraft, ownerID string) (*service.CommitResult, error)
}

// Snapshot is an immutable view of the wizard.
type Snapshot struct {
	State State
	Draft domain.ProjectDraft
	Plan  domain.ProjectPlan
	Tasks []domain.TaskDraft

	Overview        string
	OverviewLoading bool
	OverviewErr     error

	// Err is the failure of the last plan, tasks or commit step. It is
	// cleared when that step is retried.
	Err    error
	Result *service.CommitResult

	UpdatedAt time.Time
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithListener registers fn to receive a snapshot after every change. fn is
// called without the wizard lock held and must not call Close.
func WithListener(fn func(Snapshot)) Option {
	return func(w *Wizard) { w.listener = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		if now != nil {
			w.now = now
		}
	}
}

type Wizard struct {
	gateway   llm.Gateway
	committer Committer
	logger    *zap.Logger
	now       func() time.Time
	listener  func(Snapshot)

	// life is cancelled by Close and bounds every call the wizard makes.
	life       context.Context
	cancelLife context.CancelFunc
	wg         sync.WaitGroup

	mu              sync.Mutex
	state           State
	draft           domain.ProjectDraft
	plan            domain.ProjectPlan
	tasks           []domain.TaskDraft
	overview        strings.Builder
	overviewLoading bool
	overviewErr     error
	err             error
	result          *service.CommitResult
	updatedAt       time.Time

	// planFired and tasksFired make RequestPlan and AcceptPlan single-fire
	// until their step fails or the details change.
	planFired  bool
	tasksFired bool

	// epoch changes whenever in-flight results must be discarded.
	epoch  uint64
	closed bool

	// cancelFlow aborts the running plan request and overview stream.
	cancelFlow context.CancelFunc
}

func New(gateway llm.Gateway, committer Committer, opts ...Option) *Wizard {
	life, cancel := context.WithCancel(context.Background())
	w := &Wizard{
		gateway:    gateway,
		committer:  committer,
		logger:     zap.NewNop(),
		now:        time.Now,
		life:       life,
		cancelLife: cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named("wizard")
	w.updatedAt = w.now()
	return w
}

// SubmitDetails records the project idea. Editing details after a plan was
// generated discards the plan.
func (w *Wizard) SubmitDetails(draft domain.ProjectDraft) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	switch w.state {
	case Empty, DetailsCaptured, PlanReady:
	default:
		w.mu.Unlock()
		return &TransitionError{From: w.state, Op: "submit details"}
	}
	if err := draft.Validate(); err != nil {
		w.mu.Unlock()
		return err
	}

	w.draft = draft.Clone()
	w.draft.Keywords = domain.CleanKeywords(w.draft.Keywords)
	w.resetGeneratedLocked()
	w.state = DetailsCaptured
	w.touchLocked()
	w.mu.Unlock()

	w.notify()
	return nil
}

// RequestPlan generates the plan and streams the overview concurrently, and
// returns once both have finished. It fires at most once per entry into
// DetailsCaptured; a repeat call returns ErrAlreadyRequested without touching
// the gateway. A plan failure returns the wizard to DetailsCaptured with Err
// set so the user can retry. An overview failure only sets OverviewErr.
func (w *Wizard) RequestPlan(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.planFired {
		w.mu.Unlock()
		return ErrAlreadyRequested
	}
	if w.state != DetailsCaptured {
		w.mu.Unlock()
		return &TransitionError{From: w.state, Op: "request plan"}
	}

	// A failed attempt may still be streaming its overview.
	w.abortFlowLocked()
	w.planFired = true
	w.state = PlanPending
	w.err = nil
	w.plan = nil
	w.overview.Reset()
	w.overviewLoading = true
	w.overviewErr = nil
	w.touchLocked()
	epoch := w.epoch
	draft := w.draft.Clone()
	ctx, cancel := w.bound(ctx)
	w.cancelFlow = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	defer cancel()
	w.notify()

	var g errgroup.Group
	g.Go(func() error {
		w.streamOverview(ctx, epoch, draft)
		return nil
	})
	g.Go(func() error {
		plan, err := w.gateway.GeneratePlan(ctx, draft)
		w.finishPlan(epoch, plan, err)
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("requesting plan: %w", err)
	}
	return nil
}

func (w *Wizard) finishPlan(epoch uint64, plan domain.ProjectPlan, err error) {
	w.mu.Lock()
	if !w.currentLocked(epoch) {
		w.mu.Unlock()
		w.logger.Debug("discarding stale plan result")
		return
	}
	if err != nil {
		w.logger.Warn("plan generation failed", zap.Error(err))
		w.state = DetailsCaptured
		w.err = err
		w.planFired = false
	} else {
		w.state = PlanReady
		w.plan = plan.Clone()
	}
	w.touchLocked()
	w.mu.Unlock()
	w.notify()
}

func (w *Wizard) streamOverview(ctx context.Context, epoch uint64, draft domain.ProjectDraft) {
	body, err := w.gateway.GenerateOverview(ctx, draft)
	if err == nil {
		_, err = stream.DecodeContext(ctx, body, w.logger, func(fragment string) {
			w.mu.Lock()
			if !w.currentLocked(epoch) {
				w.mu.Unlock()
				return
			}
			w.overview.WriteString(fragment)
			w.touchLocked()
			w.mu.Unlock()
			w.notify()
		})
	}

	w.mu.Lock()
	if !w.currentLocked(epoch) {
		w.mu.Unlock()
		return
	}
	w.overviewLoading = false
	if err != nil {
		w.logger.Warn("overview stream failed", zap.Error(err))
		w.overviewErr = err
	}
	w.touchLocked()
	w.mu.Unlock()
	w.notify()
}

// RegeneratePlan discards the current plan and requests a new one.
func (w *Wizard) RegeneratePlan(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.state != PlanReady {
		w.mu.Unlock()
		return &TransitionError{From: w.state, Op: "regenerate plan"}
	}
	w.abortFlowLocked()
	w.state = DetailsCaptured
	w.plan = nil
	w.planFired = false
	w.tasksFired = false
	w.touchLocked()
	w.mu.Unlock()

	return w.RequestPlan(ctx)
}

// AcceptPlan generates first-week tasks from the accepted plan. The whole
// serialized plan is handed to the gateway. Like RequestPlan it is
// single-fire; a failure returns to PlanReady with Err set.
func (w *Wizard) AcceptPlan(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.tasksFired {
		w.mu.Unlock()
		return ErrAlreadyRequested
	}
	if w.state != PlanReady {
		w.mu.Unlock()
		return &TransitionError{From: w.state, Op: "accept plan"}
	}

	w.tasksFired = true
	w.state = TasksPending
	w.err = nil
	w.touchLocked()
	epoch := w.epoch
	planText := w.plan.Serialize()
	projectType := w.draft.Type
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	w.notify()

	ctx, cancel := w.bound(ctx)
	defer cancel()

	tasks, err := w.gateway.GenerateTasks(ctx, planText, projectType)

	w.mu.Lock()
	if !w.currentLocked(epoch) {
		w.mu.Unlock()
		w.logger.Debug("discarding stale tasks result")
		if err == nil {
			err = ErrClosed
		}
		return err
	}
	if err != nil {
		w.logger.Warn("task generation failed", zap.Error(err))
		w.state = PlanReady
		w.err = err
		w.tasksFired = false
	} else {
		w.state = TasksReady
		w.tasks = slices.Clone(tasks)
	}
	w.touchLocked()
	w.mu.Unlock()
	w.notify()

	if err != nil {
		return fmt.Errorf("accepting plan: %w", err)
	}
	return nil
}

// RemoveTask drops the generated task at index i before it is committed.
func (w *Wizard) RemoveTask(i int) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.state != TasksReady {
		w.mu.Unlock()
		return &TransitionError{From: w.state, Op: "remove task"}
	}
	if i < 0 || i >= len(w.tasks) {
		w.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoSuchTask, i)
	}
	w.tasks = slices.Delete(slices.Clone(w.tasks), i, i+1)
	w.touchLocked()
	w.mu.Unlock()

	w.notify()
	return nil
}

// AcceptTasks commits the project, its owner and the remaining tasks. When
// the project row cannot be written the wizard returns to TasksReady. When
// only some tasks fail the project exists, so the wizard still ends in
// Committed and the *service.PartialCommitError is returned alongside the
// result.
func (w *Wizard) AcceptTasks(ctx context.Context, ownerID string) (*service.CommitResult, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if w.state != TasksReady {
		w.mu.Unlock()
		return nil, &TransitionError{From: w.state, Op: "accept tasks"}
	}

	w.state = Committing
	w.err = nil
	w.touchLocked()
	epoch := w.epoch
	draft := w.draft.Clone()
	plan := w.plan.Clone()
	tasks := slices.Clone(w.tasks)
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	w.notify()

	ctx, cancel := w.bound(ctx)
	defer cancel()

	result, err := w.committer.Commit(ctx, draft, plan, tasks, ownerID)

	w.mu.Lock()
	if w.currentLocked(epoch) {
		if result != nil {
			w.state = Committed
			w.result = result
		} else {
			w.state = TasksReady
		}
		w.err = err
		w.touchLocked()
	}
	w.mu.Unlock()
	w.notify()

	if err != nil {
		var partial *service.PartialCommitError
		if errors.As(err, &partial) {
			w.logger.Warn("project committed with task failures", zap.Error(err))
		} else {
			w.logger.Error("commit failed", zap.Error(err))
		}
	}
	return result, err
}

// Snapshot returns a copy of the current state.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Close cancels any in-flight request, aborts the overview stream and waits
// for running steps to return. Results that arrive afterwards are dropped.
// Close is idempotent.
func (w *Wizard) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.epoch++
	w.cancelLife()
	w.mu.Unlock()

	w.wg.Wait()
}

// bound derives a context that is also cancelled by Close.
func (w *Wizard) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(w.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (w *Wizard) currentLocked(epoch uint64) bool {
	return !w.closed && w.epoch == epoch
}

// resetGeneratedLocked drops everything derived from the details and
// invalidates in-flight results.
func (w *Wizard) resetGeneratedLocked() {
	w.abortFlowLocked()
	w.plan = nil
	w.tasks = nil
	w.overview.Reset()
	w.overviewLoading = false
	w.overviewErr = nil
	w.err = nil
	w.result = nil
	w.planFired = false
	w.tasksFired = false
}

// abortFlowLocked cancels the running plan flow, if any, and bumps the
// epoch so its late results are dropped.
func (w *Wizard) abortFlowLocked() {
	w.epoch++
	if w.cancelFlow != nil {
		w.cancelFlow()
		w.cancelFlow = nil
	}
}

func (w *Wizard) touchLocked() {
	w.updatedAt = w.now()
}

func (w *Wizard) snapshotLocked() Snapshot {
	return Snapshot{
		State:           w.state,
		Draft:           w.draft.Clone(),
		Plan:            w.plan.Clone(),
		Tasks:           slices.Clone(w.tasks),
		Overview:        w.overview.String(),
		OverviewLoading: w.overviewLoading,
		OverviewErr:     w.overviewErr,
		Err:             w.err,
		Result:          w.result,
		UpdatedAt:       w.updatedAt,
	}
}

func (w *Wizard) notify() {
	if w.listener == nil {
		return
	}
	w.listener(w.Snapshot())
}
