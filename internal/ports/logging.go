package ports

import (
	"context"

	"github.com/google/uuid"
)

// Structured field keys shared by the runner, reporters, and exporters.
const (
	FieldCorrelationID = "correlation_id"
	FieldComponent     = "component"
	FieldJourney       = "journey"
	FieldStep          = "step"
	FieldStepIndex     = "step_index"
	FieldElapsedMS     = "elapsed_ms"
)

// Logger is the key/value logging contract. Implementations add the
// correlation ID found in ctx to every entry.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

type correlationKey struct{}

// NewCorrelationID returns a random UUID identifying one run.
func NewCorrelationID() string {
	return uuid.NewString()
}

// ContextWithCorrelationID returns a child of ctx carrying id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFrom returns the run's correlation ID, or "" outside a run.
func CorrelationIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
