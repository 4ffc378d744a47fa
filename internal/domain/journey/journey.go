package journey

import (
	"context"
	"sync"
)

// SetupContext is handed to a journey's setup callback. Register steps through
// Step; they are appended to the journey in call order.
type SetupContext struct {
	Session
	Params Params

	registry *Registry
}

// Step registers a step on the journey being set up.
func (sc SetupContext) Step(name string, action StepFunc) {
	if sc.registry == nil {
		return
	}
	sc.registry.Step(name, action)
}

// NewSetupContext binds a setup context to the registry steps are added to.
func NewSetupContext(session Session, params Params, registry *Registry) SetupContext {
	return SetupContext{Session: session, Params: params, registry: registry}
}

// SetupFunc registers a journey's steps when the journey executes.
type SetupFunc func(ctx context.Context, sc SetupContext) error

// Journey is a named ordered sequence of steps.
type Journey struct {
	Name  string
	Setup SetupFunc

	mu    sync.Mutex
	steps []Step
}

// New creates a journey with no steps.
func New(name string, setup SetupFunc) *Journey {
	return &Journey{Name: name, Setup: setup}
}

// Steps returns a copy of the registered steps in execution order.
func (j *Journey) Steps() []Step {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Step(nil), j.steps...)
}

// StepCount returns the number of registered steps.
func (j *Journey) StepCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.steps)
}

func (j *Journey) appendStep(step Step) {
	j.mu.Lock()
	j.steps = append(j.steps, step)
	j.mu.Unlock()
}

func (j *Journey) resetSteps() {
	j.mu.Lock()
	j.steps = nil
	j.mu.Unlock()
}
