package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

const tracerName = "github.com/alexisbeaulieu97/journeyman"

// Tracer implements ports.Tracer with the OpenTelemetry SDK.
type Tracer struct {
	provider   *sdktrace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewTracer exports finished spans as JSON to w.
func NewTracer(w io.Writer, serviceVersion string) (*Tracer, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	return newTracer(sdktrace.WithSyncer(exporter), serviceVersion), nil
}

func newTracer(exporter sdktrace.TracerProviderOption, serviceVersion string) *Tracer {
	res := resource.NewSchemaless(
		attribute.String("service.name", "journeyman"),
		attribute.String("service.version", serviceVersion),
	)
	provider := sdktrace.NewTracerProvider(
		exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &Tracer{
		provider:   provider,
		tracer:     provider.Tracer(tracerName),
		propagator: propagation.TraceContext{},
	}
}

// Shutdown flushes and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// StartSpan implements ports.Tracer. attributes are key/value pairs.
func (t *Tracer) StartSpan(ctx context.Context, name string, attributes ...interface{}) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attributes)...))
	if id := ports.CorrelationIDFrom(ctx); id != "" {
		span.SetAttributes(attribute.String(ports.FieldCorrelationID, id))
	}
	return ctx, otelSpan{span: span}
}

// Inject implements ports.Tracer using the W3C traceparent header.
func (t *Tracer) Inject(ctx context.Context, headers map[string]string) {
	t.propagator.Inject(ctx, propagation.MapCarrier(headers))
}

// Extract implements ports.Tracer.
func (t *Tracer) Extract(ctx context.Context, headers map[string]string) context.Context {
	return t.propagator.Extract(ctx, propagation.MapCarrier(headers))
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s otelSpan) Finish(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

func toAttributes(kv []interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok || key == "" {
			continue
		}
		attrs = append(attrs, toAttribute(key, kv[i+1]))
	}
	return attrs
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case error:
		return attribute.String(key, v.Error())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

var _ ports.Tracer = (*Tracer)(nil)
