package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is the class of all HTTP-level failures. *HTTPError
	// matches it with errors.Is.
	ErrTransport = errors.New("llm transport error")

	// ErrUnavailable indicates the model endpoint could not be reached.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the request exceeded its configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrSchemaViolation indicates the model did not call the forced tool, or
	// its arguments did not match the tool's declared schema.
	ErrSchemaViolation = errors.New("llm response violated tool schema")

	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("llm api key not configured")
)

// HTTPError is returned when the model endpoint answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llm endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("llm endpoint returned status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrTransport
}

func schemaError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchemaViolation, fmt.Sprintf(format, args...))
}
