package journey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a DomainError.
type ErrorCode string

const (
	ErrCodeDuplicate ErrorCode = "DUPLICATE"
	ErrCodeNotFound  ErrorCode = "NOT_FOUND"
	ErrCodeMissing   ErrorCode = "MISSING_REQUIRED"
	ErrCodeInternal  ErrorCode = "INTERNAL_ERROR"
)

// DomainError is a registry or lookup failure. Context holds the values a
// user needs to fix it, such as the name asked for and the names known.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// NewDomainError builds a DomainError. context may be nil.
func NewDomainError(code ErrorCode, message string, cause error, context map[string]interface{}) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause, Context: context}
}

// NewNotFoundError reports that no kind is registered under name.
func NewNotFoundError(kind, name string) *DomainError {
	return NewDomainError(ErrCodeNotFound, kind+" not found", nil, map[string]interface{}{"name": name})
}

// NewDuplicateError reports a second registration of name.
func NewDuplicateError(kind, name string) *DomainError {
	return NewDomainError(ErrCodeDuplicate, "duplicate "+kind, nil, map[string]interface{}{"name": name})
}

func newMissingFieldError(field string) *DomainError {
	return NewDomainError(ErrCodeMissing, "missing required field", nil, map[string]interface{}{"field": field})
}

// Error renders "CODE: message (k=v, ...): cause" with context keys sorted.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, e.Context[k])
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(pairs, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another DomainError with the same code and message, ignoring
// context, so errors.Is(err, NewNotFoundError("reporter", "")) works as a
// category test.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) || other == nil {
		return false
	}
	return e.Code == other.Code && e.Message == other.Message
}

// WithContext returns a copy of e whose context also holds extra. Keys in
// extra win.
func (e *DomainError) WithContext(extra map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(extra))
	for _, src := range []map[string]interface{}{e.Context, extra} {
		for k, v := range src {
			merged[k] = v
		}
	}
	clone := *e
	clone.Context = merged
	return &clone
}
