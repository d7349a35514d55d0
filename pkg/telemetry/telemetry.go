// Package telemetry wires OpenTelemetry metrics for the Router and
// exposes typed recorder methods so callers never touch the raw OTel
// metric/trace/sdk API directly.
package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// RouterMetrics holds the OpenTelemetry instruments backing the
// Router's metrics contract (totalRequests, cacheHits, perProviderCalls,
// fallbackTriggers, totalTokens, totalCost, totalLatencyMillis).
type RouterMetrics struct {
	requests         metric.Int64Counter
	cacheHits        metric.Int64Counter
	providerCalls    metric.Int64Counter
	fallbackTriggers metric.Int64Counter
	tokens           metric.Int64Counter
	cost             metric.Float64Counter
	latency          metric.Float64Histogram
}

// Provider bundles the MeterProvider lifecycle with derived RouterMetrics.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	Router        *RouterMetrics

	mu     sync.Mutex
	closed bool
}

// NewProvider builds a MeterProvider and a stdout-exported
// TracerProvider. The MeterProvider has no reader or exporter attached,
// so recorded metrics are not written anywhere. pkg/router only ever
// sees *RouterMetrics, so the providers can change without touching
// call sites.
func NewProvider(ctx context.Context, serviceName string) (*Provider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
	))
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
	)

	meter := mp.Meter("madspark.router")

	requests, err := meter.Int64Counter("router.requests.total")
	if err != nil {
		return nil, err
	}
	cacheHits, err := meter.Int64Counter("router.cache_hits.total")
	if err != nil {
		return nil, err
	}
	providerCalls, err := meter.Int64Counter("router.provider_calls.total")
	if err != nil {
		return nil, err
	}
	fallbackTriggers, err := meter.Int64Counter("router.fallback_triggers.total")
	if err != nil {
		return nil, err
	}
	tokens, err := meter.Int64Counter("router.tokens.total")
	if err != nil {
		return nil, err
	}
	cost, err := meter.Float64Counter("router.cost.total")
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("router.latency.millis")
	if err != nil {
		return nil, err
	}

	return &Provider{
		meterProvider:  mp,
		tracerProvider: tp,
		Router: &RouterMetrics{
			requests:         requests,
			cacheHits:        cacheHits,
			providerCalls:    providerCalls,
			fallbackTriggers: fallbackTriggers,
			tokens:           tokens,
			cost:             cost,
			latency:          latency,
		},
	}, nil
}

// Shutdown flushes and closes the meter/tracer providers. Safe to call
// once; subsequent calls are no-ops, guarded by a mutex and a closed
// flag the same way pkg/workerpool's Stop() is.
func (p *Provider) Shutdown(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		slog.Warn("failed to shut down meter provider", "error", err)
	}
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		slog.Warn("failed to shut down tracer provider", "error", err)
	}
}

// RecordRequest increments totalRequests.
func (m *RouterMetrics) RecordRequest(ctx context.Context) {
	m.requests.Add(ctx, 1)
}

// RecordCacheHit increments cacheHits.
func (m *RouterMetrics) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

// RecordProviderCall increments perProviderCalls for the named provider.
func (m *RouterMetrics) RecordProviderCall(ctx context.Context, provider string) {
	m.providerCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// RecordFallback increments fallbackTriggers.
func (m *RouterMetrics) RecordFallback(ctx context.Context) {
	m.fallbackTriggers.Add(ctx, 1)
}

// RecordUsage records tokens, cost, and latency for one completed call.
func (m *RouterMetrics) RecordUsage(ctx context.Context, tokens int, cost float64, latencyMillis int64) {
	m.tokens.Add(ctx, int64(tokens))
	m.cost.Add(ctx, cost)
	m.latency.Record(ctx, float64(latencyMillis))
}
