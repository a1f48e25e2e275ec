package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput wraps every argument validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProjectComplete is returned when advancing a finished project.
	ErrProjectComplete = errors.New("project is already complete")
)

// TaskFailure records one task that could not be written. Index is 1-based
// in the order the tasks were generated.
type TaskFailure struct {
	Index int
	Title string
	Err   error
}

// PartialCommitError reports that the project was saved but some tasks were
// not. The project is not rolled back.
type PartialCommitError struct {
	ProjectID string
	Total     int
	Failures  []TaskFailure
}

func (e *PartialCommitError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("task %d (%s): %v", f.Index, f.Title, f.Err)
	}
	return fmt.Sprintf("project %s saved but %d of %d tasks failed: %s",
		e.ProjectID, len(e.Failures), e.Total, strings.Join(parts, "; "))
}

func (e *PartialCommitError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
