package ports

import "context"

// MetricsCollector records run metrics by name. Counters and histograms are
// labelled with status=succeeded|failed.
type MetricsCollector interface {
	IncCounter(ctx context.Context, name string, labels map[string]string)
	SetGauge(ctx context.Context, name string, value float64, labels map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string)
}

// Tracer opens spans named <component>.<operation>, such as journey.run.
// Inject and Extract move the span context through string headers.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attributes ...interface{}) (context.Context, Span)
	Inject(ctx context.Context, headers map[string]string)
	Extract(ctx context.Context, headers map[string]string) context.Context
}

// Span is one traced operation.
type Span interface {
	SetAttribute(key string, value interface{})
	// Finish marks the span failed when err is non-nil and ends it.
	Finish(err error)
}
