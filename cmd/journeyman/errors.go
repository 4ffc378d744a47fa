package main

import (
	"errors"
	"fmt"
)

// errJourneysFailed makes the process exit non-zero after reporters have
// already described the failures.
var errJourneysFailed = errors.New("one or more journeys failed")

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	if e.suggestion == "" {
		return fmt.Sprintf("Failed to %s: %s\n\nError: %v", e.operation, e.context, e.cause)
	}
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}
