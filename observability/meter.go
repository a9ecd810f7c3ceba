package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/videoscribe/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	Interval       time.Duration
}

// InitMeter initializes the global meter provider.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(newResource(config.ServiceName, config.ServiceVersion, config.Environment)),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the dispatch loop and analyzer.
type Metrics struct {
	segmentsDispatched metric.Int64Counter
	segmentsFailed     metric.Int64Counter
	segmentDuration    metric.Float64Histogram
	analyses           metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	dispatched, err := meter.Int64Counter("videoscribe.segments.dispatched",
		metric.WithDescription("Segments sent to the inference backend"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating segments.dispatched counter: %w", err)
	}

	failed, err := meter.Int64Counter("videoscribe.segments.failed",
		metric.WithDescription("Segments replaced by a placeholder after a backend failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating segments.failed counter: %w", err)
	}

	duration, err := meter.Float64Histogram("videoscribe.segment.duration",
		metric.WithDescription("Wall time of one segment dispatch"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating segment.duration histogram: %w", err)
	}

	analyses, err := meter.Int64Counter("videoscribe.analyses",
		metric.WithDescription("Completed analysis runs by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating analyses counter: %w", err)
	}

	return &Metrics{
		segmentsDispatched: dispatched,
		segmentsFailed:     failed,
		segmentDuration:    duration,
		analyses:           analyses,
	}, nil
}

// DefaultMetrics builds instruments on the global meter, falling back to nil
// (which every Record method tolerates) if creation fails.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(Meter(defaultTracerName))
	if err != nil {
		logger.Warn("metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		return nil
	}
	return m
}

// RecordSegment records one segment dispatch and its outcome.
func (m *Metrics) RecordSegment(ctx context.Context, providerName string, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("provider", providerName))
	m.segmentsDispatched.Add(ctx, 1, attrs)
	if failed {
		m.segmentsFailed.Add(ctx, 1, attrs)
	}
	m.segmentDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordAnalysis records a finished analysis run.
func (m *Metrics) RecordAnalysis(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.analyses.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
