package reporter

import (
	"context"

	"github.com/alexisbeaulieu97/journeyman/internal/events"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// LogReporter writes each event as a structured log entry. Failures are
// logged at error level, everything else at info.
type LogReporter struct {
	logger ports.Logger
}

// NewLogReporter creates a log reporter.
func NewLogReporter(logger ports.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Attach implements events.Subscriber.
func (l *LogReporter) Attach(bus *events.Bus) events.Subscription {
	return bus.OnAll(l.publish)
}

func (l *LogReporter) publish(ctx context.Context, event events.Event) error {
	if l == nil || l.logger == nil || event == nil {
		return nil
	}

	fields := []interface{}{"event_type", string(event.Kind())}
	var err error
	switch e := event.(type) {
	case events.Start:
		fields = append(fields, "journeys", e.NumJourneys)
	case events.JourneyStart:
		fields = append(fields, ports.FieldJourney, e.Journey.Name, "params", e.Params.Keys())
	case events.StepStart:
		fields = append(fields, ports.FieldJourney, e.Journey.Name, ports.FieldStep, e.Step.Name, ports.FieldStepIndex, e.Step.Index)
	case events.StepEnd:
		fields = append(fields, ports.FieldJourney, e.Journey.Name, ports.FieldStep, e.Step.Name, ports.FieldStepIndex, e.Step.Index,
			ports.FieldElapsedMS, events.ElapsedMillis(e.Elapsed), "screenshot_bytes", len(e.Screenshot))
		err = e.Err
	case events.JourneyEnd:
		fields = append(fields, ports.FieldJourney, e.Journey.Name, ports.FieldElapsedMS, events.ElapsedMillis(e.Elapsed))
		err = e.Err
	}

	if err != nil {
		l.logger.Error(ctx, "journey event", append(fields, "error", err)...)
		return nil
	}
	l.logger.Info(ctx, "journey event", fields...)
	return nil
}
