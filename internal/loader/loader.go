// Package loader turns suite documents into registered journeys.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/journeyman/internal/config"
	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/logger"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Loader registers suite journeys into a registry.
type Loader struct {
	logger ports.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// Option customizes a Loader.
type Option func(*Loader)

// WithLogger sets the logger used by evaluate steps and registration.
func WithLogger(l ports.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithSleep replaces how sleep steps wait.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(ld *Loader) {
		if sleep != nil {
			ld.sleep = sleep
		}
	}
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	ld := &Loader{logger: logger.NewNoOp(), sleep: sleepContext}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load registers every journey of suite. Steps are not registered now: each
// journey's setup callback registers them when the journey runs, against
// the run's params. It returns the registered journeys in order.
func (ld *Loader) Load(reg *journey.Registry, suite *config.Suite) ([]*journey.Journey, error) {
	if reg == nil {
		return nil, fmt.Errorf("load suite: registry is nil")
	}
	if err := config.ValidateSuite(suite); err != nil {
		return nil, err
	}

	registered := make([]*journey.Journey, 0, len(suite.Journeys))
	for _, decl := range suite.Journeys {
		steps := make([]config.Step, len(decl.Steps))
		copy(steps, decl.Steps)

		j := reg.Journey(decl.Name, ld.setup(decl.Name, steps))
		registered = append(registered, j)
	}

	ld.logger.Debug(context.Background(), "suite loaded", "suite", suite.Name, "journeys", len(registered))
	return registered, nil
}

func (ld *Loader) setup(name string, steps []config.Step) journey.SetupFunc {
	return func(ctx context.Context, sc journey.SetupContext) error {
		for _, step := range steps {
			action, err := ld.action(step)
			if err != nil {
				return fmt.Errorf("journey %q step %q: %w", name, step.Name, err)
			}
			sc.Step(step.Name, action)
		}
		return nil
	}
}
