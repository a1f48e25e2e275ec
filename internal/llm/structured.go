package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// SchemaValidator validates a decoded value after strict JSON decoding.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// DecodeArguments strictly decodes a tool call's arguments into T. The
// arguments may arrive either as a JSON string (the OpenAI wire format) or
// as an inline JSON object. Unknown fields, trailing data and validator
// failures are all reported as ErrSchemaViolation.
func DecodeArguments[T any](raw json.RawMessage, validator SchemaValidator[T]) (T, error) {
	var zero T

	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 {
		return zero, schemaError("tool call has no arguments")
	}
	if payload[0] == '"' {
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return zero, schemaError("arguments string: %v", err)
		}
		payload = bytes.TrimSpace([]byte(s))
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var result T
	if err := dec.Decode(&result); err != nil {
		return zero, schemaError("%v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return zero, schemaError("unexpected data after arguments object")
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, schemaError("validation failed: %v", err)
		}
	}
	return result, nil
}
