package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Service name for telemetry
	serviceName = "osai-audio-engine"

	// Metric names
	metricGraphCompiles       = "graph.compiles.total"
	metricGraphCompileFailure = "graph.compiles.failure.total"
	metricCompileDuration     = "graph.compile.duration"
	metricScheduleSends       = "schedule.sends.total"
	metricScheduleReturns     = "schedule.returns.total"
	metricNodeActivations     = "node.activations.total"
	metricNodeActivationFails = "node.activations.failure.total"
)

// Provider manages OpenTelemetry setup and provides access to tracers and
// meters.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	// Metrics instruments
	graphCompiles       metric.Int64Counter
	graphCompileFailure metric.Int64Counter
	compileDuration     metric.Float64Histogram
	scheduleSends       metric.Int64Counter
	scheduleReturns     metric.Int64Counter
	nodeActivations     metric.Int64Counter
	nodeActivationFails metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration
type Config struct {
	// ServiceName is the name of the service for telemetry
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment (e.g., "production", "staging", "development")
	Environment string

	// EnableTracing enables distributed tracing
	EnableTracing bool

	// EnableMetrics enables metrics collection
	EnableMetrics bool
}

// DefaultConfig returns default telemetry configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a new telemetry provider with Prometheus metrics
// exporter.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

// initMetrics initializes the metrics provider with Prometheus exporter
func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

// initTracing initializes the tracing provider
func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

// createMetricInstruments creates all metric instruments
func (p *Provider) createMetricInstruments() error {
	var err error

	p.graphCompiles, err = p.meter.Int64Counter(
		metricGraphCompiles,
		metric.WithDescription("Total number of graph compilations"),
	)
	if err != nil {
		return err
	}

	p.graphCompileFailure, err = p.meter.Int64Counter(
		metricGraphCompileFailure,
		metric.WithDescription("Total number of failed graph compilations"),
	)
	if err != nil {
		return err
	}

	p.compileDuration, err = p.meter.Float64Histogram(
		metricCompileDuration,
		metric.WithDescription("Graph compilation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.scheduleSends, err = p.meter.Int64Counter(
		metricScheduleSends,
		metric.WithDescription("Total number of schedules sent to the audio thread"),
	)
	if err != nil {
		return err
	}

	p.scheduleReturns, err = p.meter.Int64Counter(
		metricScheduleReturns,
		metric.WithDescription("Total number of schedules returned for disposal"),
	)
	if err != nil {
		return err
	}

	p.nodeActivations, err = p.meter.Int64Counter(
		metricNodeActivations,
		metric.WithDescription("Total number of node activations"),
	)
	if err != nil {
		return err
	}

	p.nodeActivationFails, err = p.meter.Int64Counter(
		metricNodeActivationFails,
		metric.WithDescription("Total number of failed node activations"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordCompile records metrics for one graph compilation.
func (p *Provider) RecordCompile(ctx context.Context, scheduleID string, duration time.Duration, numNodes, numSlots int, success bool) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("schedule.id", scheduleID),
		attribute.Int("schedule.nodes", numNodes),
		attribute.Int("schedule.buffer_slots", numSlots),
	}

	p.graphCompiles.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.compileDuration.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))
	if !success {
		p.graphCompileFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordScheduleSend records one schedule handed to the audio thread.
func (p *Provider) RecordScheduleSend(ctx context.Context, scheduleID string) {
	if p.meter == nil {
		return
	}
	p.scheduleSends.Add(ctx, 1, metric.WithAttributes(attribute.String("schedule.id", scheduleID)))
}

// RecordScheduleReturn records one schedule returned by the audio thread for
// disposal.
func (p *Provider) RecordScheduleReturn(ctx context.Context, numRemovedProcessors int) {
	if p.meter == nil {
		return
	}
	p.scheduleReturns.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("schedule.removed_processors", numRemovedProcessors),
	))
}

// RecordNodeActivation records metrics for one node activation.
func (p *Provider) RecordNodeActivation(ctx context.Context, debugName string, success bool) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("node.type", debugName),
	}
	p.nodeActivations.Add(ctx, 1, metric.WithAttributes(attrs...))
	if !success {
		p.nodeActivationFails.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// Shutdown gracefully shuts down the telemetry provider
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}

	return nil
}
