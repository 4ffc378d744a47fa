package journey

import (
	"context"

	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Session bundles the browser handles owned by the executing journey.
type Session struct {
	Browser ports.Browser
	Context ports.BrowserContext
	Page    ports.Page
}

// StepContext is handed to every step action.
type StepContext struct {
	Session
	Params Params
}

// StepFunc performs one step against the page. A returned error (or a panic)
// fails the step and stops the journey.
type StepFunc func(ctx context.Context, sc StepContext) error

// Step represents a single ordered unit of work within a journey.
type Step struct {
	Name   string
	Action StepFunc
}

// Validate ensures the step can be executed.
func (s Step) Validate() error {
	if s.Name == "" {
		return newMissingFieldError("name")
	}
	if s.Action == nil {
		return newMissingFieldError("action")
	}
	return nil
}
