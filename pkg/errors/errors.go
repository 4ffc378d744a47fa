// Package errors defines the typed failures journeyman reports: suite
// loading problems and the ways a journey can fail at run time.
package errors

import (
	"bytes"
	"fmt"
	"strings"
)

// ParseError is a suite file that could not be read or decoded. Line is 1-based
// and zero when unknown. Source, when set, is the text of that line.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Source  string
	Err     error
}

// NewParseError wraps err as a ParseError for path.
func NewParseError(path string, line int, err error) *ParseError {
	pe := &ParseError{Path: path, Line: line, Err: err}
	if err != nil {
		pe.Message = err.Error()
	}
	return pe
}

// WithSource records the offending line from the document, when Line points
// inside it.
func (e *ParseError) WithSource(document []byte) *ParseError {
	if e == nil || e.Line <= 0 {
		return e
	}
	lines := bytes.Split(document, []byte("\n"))
	if e.Line <= len(lines) {
		e.Source = strings.TrimRight(string(lines[e.Line-1]), "\r")
	}
	return e
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	location := e.Path
	if e.Line > 0 {
		location = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	msg := fmt.Sprintf("parse error: %s: %s", location, e.Message)
	if strings.TrimSpace(e.Source) != "" {
		msg += fmt.Sprintf("\n  %4d | %s", e.Line, e.Source)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError is a decoded suite that breaks a rule. Field is the path as
// written in the document, for example journeys[0].steps[2].url.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError builds a ValidationError. message should already name
// the field; Error does not repeat it.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" && !strings.HasPrefix(e.Message, e.Field) {
		return fmt.Sprintf("invalid suite: %s: %s", e.Field, e.Message)
	}
	return "invalid suite: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StepError represents a failure raised by a step action, the post-action
// load wait, or the screenshot capture.
type StepError struct {
	Journey string
	Step    string
	Index   int
	Err     error
}

// NewStepError constructs a StepError.
func NewStepError(journey, step string, index int, err error) error {
	return &StepError{Journey: journey, Step: step, Index: index, Err: err}
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("journey %q step %d (%s) failed: %v", e.Journey, e.Index, e.Step, e.Err)
}

// Unwrap exposes the root error.
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Session phases reported by SessionError.
const (
	PhaseLaunch  = "launch"
	PhaseContext = "context"
	PhasePage    = "page"
)

// SessionError indicates the browser session for a journey could not be
// acquired.
type SessionError struct {
	Journey string
	Phase   string
	Err     error
}

// NewSessionError constructs a SessionError for the given acquisition phase.
func NewSessionError(journey, phase string, err error) error {
	return &SessionError{Journey: journey, Phase: phase, Err: err}
}

func (e *SessionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("journey %q: browser %s failed: %v", e.Journey, e.Phase, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SessionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SetupError indicates a journey's setup callback failed before any step ran.
type SetupError struct {
	Journey string
	Err     error
}

// NewSetupError constructs a SetupError.
func NewSetupError(journey string, err error) error {
	return &SetupError{Journey: journey, Err: err}
}

func (e *SetupError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("journey %q setup failed: %v", e.Journey, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SetupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReporterError indicates an event subscriber failed and aborted the run.
type ReporterError struct {
	Event string
	Err   error
}

// NewReporterError constructs a ReporterError for the event being delivered.
func NewReporterError(event string, err error) error {
	return &ReporterError{Event: event, Err: err}
}

func (e *ReporterError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("reporter error [%s]: %v", e.Event, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ReporterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
