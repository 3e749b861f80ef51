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

	"github.com/kbukum/whisper-gateway/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Metrics holds the transcription instruments.
type Metrics struct {
	transcriptions metric.Int64Counter
	latency        metric.Float64Histogram
	audioSeconds   metric.Float64Counter
	active         metric.Int64UpDownCounter
	errors         metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	transcriptions, err := meter.Int64Counter("transcription.requests",
		metric.WithDescription("Transcription requests by backend and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}

	latency, err := meter.Float64Histogram("transcription.duration",
		metric.WithDescription("Wall-clock time spent in the backend"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}

	audioSeconds, err := meter.Float64Counter("transcription.audio",
		metric.WithDescription("Seconds of audio transcribed"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.audio counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("transcription.active",
		metric.WithDescription("Transcriptions currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.active gauge: %w", err)
	}

	errs, err := meter.Int64Counter("transcription.errors",
		metric.WithDescription("Failed transcriptions by error kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.errors counter: %w", err)
	}

	return &Metrics{
		transcriptions: transcriptions,
		latency:        latency,
		audioSeconds:   audioSeconds,
		active:         active,
		errors:         errs,
	}, nil
}

// NewGlobalMetrics creates the instruments on the global meter provider.
func NewGlobalMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

// RecordStart increments the in-flight count.
func (m *Metrics) RecordStart(ctx context.Context, backend string) {
	m.active.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", backend)))
}

// RecordEnd decrements the in-flight count and records the outcome.
func (m *Metrics) RecordEnd(ctx context.Context, backend, status string, took time.Duration, audio float64) {
	b := attribute.String("backend", backend)
	m.active.Add(ctx, -1, metric.WithAttributes(b))
	m.transcriptions.Add(ctx, 1, metric.WithAttributes(b, attribute.String("status", status)))
	m.latency.Record(ctx, took.Seconds(), metric.WithAttributes(b))
	if audio > 0 {
		m.audioSeconds.Add(ctx, audio, metric.WithAttributes(b))
	}
}

// RecordError counts a failure by kind.
func (m *Metrics) RecordError(ctx context.Context, backend, kind string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("kind", kind),
	))
}
