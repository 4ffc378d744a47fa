// Package observability exports run metrics to Prometheus and spans to
// OpenTelemetry.
package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Metric names recorded by the Observer.
const (
	MetricJourneysTotal   = "journeyman_journeys_total"
	MetricStepsTotal      = "journeyman_steps_total"
	MetricActiveJourneys  = "journeyman_active_journeys"
	MetricJourneyDuration = "journeyman_journey_duration_seconds"
	MetricStepDuration    = "journeyman_step_duration_seconds"
)

// Collector implements ports.MetricsCollector on a private Prometheus registry.
type Collector struct {
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	logger     ports.Logger
}

// NewCollector registers the journeyman metrics on a fresh registry.
func NewCollector(logger ports.Logger) *Collector {
	c := &Collector{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		logger:     logger,
	}

	c.counters[MetricJourneysTotal] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricJourneysTotal,
		Help: "Journeys run, by outcome.",
	}, []string{"status"})
	c.counters[MetricStepsTotal] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricStepsTotal,
		Help: "Steps run, by outcome.",
	}, []string{"status"})
	c.gauges[MetricActiveJourneys] = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricActiveJourneys,
		Help: "Journeys currently executing.",
	}, nil)
	c.histograms[MetricJourneyDuration] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricJourneyDuration,
		Help:    "Journey wall time in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"status"})
	c.histograms[MetricStepDuration] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricStepDuration,
		Help:    "Step wall time in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"status"})

	for _, v := range c.counters {
		c.registry.MustRegister(v)
	}
	for _, v := range c.gauges {
		c.registry.MustRegister(v)
	}
	for _, v := range c.histograms {
		c.registry.MustRegister(v)
	}
	return c
}

// IncCounter implements ports.MetricsCollector.
func (c *Collector) IncCounter(ctx context.Context, name string, labels map[string]string) {
	vec, ok := c.counters[name]
	if !ok {
		c.unknown(ctx, name)
		return
	}
	counter, err := vec.GetMetricWith(labels)
	if err != nil {
		c.invalid(ctx, name, err)
		return
	}
	counter.Inc()
}

// SetGauge implements ports.MetricsCollector.
func (c *Collector) SetGauge(ctx context.Context, name string, value float64, labels map[string]string) {
	vec, ok := c.gauges[name]
	if !ok {
		c.unknown(ctx, name)
		return
	}
	gauge, err := vec.GetMetricWith(labels)
	if err != nil {
		c.invalid(ctx, name, err)
		return
	}
	gauge.Set(value)
}

// ObserveHistogram implements ports.MetricsCollector.
func (c *Collector) ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string) {
	vec, ok := c.histograms[name]
	if !ok {
		c.unknown(ctx, name)
		return
	}
	observer, err := vec.GetMetricWith(labels)
	if err != nil {
		c.invalid(ctx, name, err)
		return
	}
	observer.Observe(value)
}

// Gatherer exposes the registry for scraping or tests.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the current metrics in the node exporter textfile
// format, replacing path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func (c *Collector) unknown(ctx context.Context, name string) {
	if c.logger != nil {
		c.logger.Warn(ctx, "unknown metric", "metric", name)
	}
}

func (c *Collector) invalid(ctx context.Context, name string, err error) {
	if c.logger != nil {
		c.logger.Warn(ctx, "metric labels rejected", "metric", name, "error", err)
	}
}

var _ ports.MetricsCollector = (*Collector)(nil)
