package observability

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Observer turns the event stream into metrics and spans. Either backend may
// be nil.
type Observer struct {
	metrics ports.MetricsCollector
	tracer  ports.Tracer

	mu          sync.Mutex
	journeyCtx  context.Context
	journeySpan ports.Span
	stepSpan    ports.Span
}

// NewObserver creates an observer over the given backends.
func NewObserver(metrics ports.MetricsCollector, tracer ports.Tracer) *Observer {
	return &Observer{metrics: metrics, tracer: tracer}
}

// Attach implements events.Subscriber.
func (o *Observer) Attach(bus *events.Bus) events.Subscription {
	return events.Group{
		events.Subscribe(bus, o.onJourneyStart),
		events.Subscribe(bus, o.onStepStart),
		events.Subscribe(bus, o.onStepEnd),
		events.Subscribe(bus, o.onJourneyEnd),
	}
}

func (o *Observer) onJourneyStart(ctx context.Context, e events.JourneyStart) error {
	if o.metrics != nil {
		o.metrics.SetGauge(ctx, MetricActiveJourneys, 1, nil)
	}
	if o.tracer == nil {
		return nil
	}
	spanCtx, span := o.tracer.StartSpan(ctx, "journey.run", "journey.name", e.Journey.Name, "journey.params", e.Params.Len())

	o.mu.Lock()
	o.journeyCtx, o.journeySpan = spanCtx, span
	o.mu.Unlock()
	return nil
}

func (o *Observer) onStepStart(ctx context.Context, e events.StepStart) error {
	if o.tracer == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	parent := o.journeyCtx
	if parent == nil {
		parent = ctx
	}
	_, o.stepSpan = o.tracer.StartSpan(parent, "step.run", "journey.name", e.Journey.Name, "step.name", e.Step.Name, "step.index", e.Step.Index)
	return nil
}

func (o *Observer) onStepEnd(ctx context.Context, e events.StepEnd) error {
	status := journey.StatusOf(e.Err)
	if o.metrics != nil {
		labels := map[string]string{"status": string(status)}
		o.metrics.IncCounter(ctx, MetricStepsTotal, labels)
		o.metrics.ObserveHistogram(ctx, MetricStepDuration, e.Elapsed.Seconds(), labels)
	}

	o.mu.Lock()
	span := o.stepSpan
	o.stepSpan = nil
	o.mu.Unlock()
	endSpan(span, e.Err)
	return nil
}

func (o *Observer) onJourneyEnd(ctx context.Context, e events.JourneyEnd) error {
	status := journey.StatusOf(e.Err)
	if o.metrics != nil {
		labels := map[string]string{"status": string(status)}
		o.metrics.IncCounter(ctx, MetricJourneysTotal, labels)
		o.metrics.ObserveHistogram(ctx, MetricJourneyDuration, e.Elapsed.Seconds(), labels)
		o.metrics.SetGauge(ctx, MetricActiveJourneys, 0, nil)
	}

	o.mu.Lock()
	span := o.journeySpan
	o.journeyCtx, o.journeySpan = nil, nil
	o.mu.Unlock()
	if span != nil {
		span.SetAttribute("journey.elapsed_ms", events.ElapsedMillis(e.Elapsed))
	}
	endSpan(span, e.Err)
	return nil
}

func endSpan(span ports.Span, err error) {
	if span != nil {
		span.Finish(err)
	}
}
