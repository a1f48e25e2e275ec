package wizard

import (
	"errors"
	"fmt"
)

// State is a step of the project creation flow.
type State int

const (
	Empty State = iota
	DetailsCaptured
	PlanPending
	PlanReady
	TasksPending
	TasksReady
	Committing
	Committed
)

var stateNames = [...]string{
	Empty:           "empty",
	DetailsCaptured: "details_captured",
	PlanPending:     "plan_pending",
	PlanReady:       "plan_ready",
	TasksPending:    "tasks_pending",
	TasksReady:      "tasks_ready",
	Committing:      "committing",
	Committed:       "committed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Pending reports whether a model or database call is in flight.
func (s State) Pending() bool {
	return s == PlanPending || s == TasksPending || s == Committing
}

var (
	// ErrAlreadyRequested is returned when a single-fire step is triggered
	// again before the wizard has moved on.
	ErrAlreadyRequested = errors.New("wizard: request already in flight")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("wizard: closed")

	// ErrNoSuchTask is returned by RemoveTask for an out-of-range index.
	ErrNoSuchTask = errors.New("wizard: no such task")
)

// TransitionError reports an operation that is not legal in the current
// state.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("wizard: cannot %s while %s", e.Op, e.From)
}
