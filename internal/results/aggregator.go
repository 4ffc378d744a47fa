// Package results builds the per-journey result map from lifecycle events.
package results

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
)

// Aggregator consumes step:end and journey:end events. Step outcomes are
// buffered per journey until its journey:end arrives.
type Aggregator struct {
	mu      sync.Mutex
	pending map[string][]journey.StepOutcome
	results journey.Results
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		pending: make(map[string][]journey.StepOutcome),
		results: make(journey.Results),
	}
}

// Attach subscribes the aggregator to bus.
func (a *Aggregator) Attach(bus *events.Bus) events.Subscription {
	return events.Group{
		events.Subscribe(bus, func(_ context.Context, e events.StepEnd) error {
			a.RecordStep(e)
			return nil
		}),
		events.Subscribe(bus, func(_ context.Context, e events.JourneyEnd) error {
			a.RecordJourney(e)
			return nil
		}),
	}
}

// RecordStep buffers one step outcome.
func (a *Aggregator) RecordStep(e events.StepEnd) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending[e.Journey.Name] = append(a.pending[e.Journey.Name], journey.StepOutcome{
		Name:       e.Step.Name,
		Index:      e.Step.Index,
		Status:     journey.StatusOf(e.Err),
		Err:        e.Err,
		Elapsed:    e.Elapsed,
		Screenshot: e.Screenshot,
	})
}

// RecordJourney finalizes a journey. A journey fails when it carries an error
// or any of its steps recorded one. A later journey with the same name
// replaces the earlier entry.
func (a *Aggregator) RecordJourney(e events.JourneyEnd) {
	a.mu.Lock()
	defer a.mu.Unlock()

	steps := a.pending[e.Journey.Name]
	delete(a.pending, e.Journey.Name)

	err := e.Err
	if err == nil {
		for _, step := range steps {
			if step.Err != nil {
				err = step.Err
				break
			}
		}
	}

	a.results[e.Journey.Name] = journey.JourneyResult{
		Name:    e.Journey.Name,
		Status:  journey.StatusOf(err),
		Err:     err,
		Elapsed: e.Elapsed,
		Steps:   steps,
	}
}

// Results returns a copy of the aggregated map.
func (a *Aggregator) Results() journey.Results {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(journey.Results, len(a.results))
	for name, res := range a.results {
		res.Steps = append([]journey.StepOutcome(nil), res.Steps...)
		out[name] = res
	}
	return out
}
