package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer

	providerCalls   otelmetric.Int64Counter
	providerLatency otelmetric.Float64Histogram
}

// New wires the Prometheus meter and, when jaegerEndpoint is set, a Jaeger
// tracer. Exporter failures are logged and leave that half disabled.
func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{tracer: noop.NewTracerProvider().Tracer(serviceName)}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
		otel.SetMeterProvider(o.meterProvider)
		o.meter = o.meterProvider.Meter(serviceName)

		o.providerCalls, _ = o.meter.Int64Counter(
			"advice.provider.calls",
			otelmetric.WithDescription("Calls to the external advice provider"),
		)
		o.providerLatency, _ = o.meter.Float64Histogram(
			"advice.provider.duration",
			otelmetric.WithDescription("Advice provider call duration"),
			otelmetric.WithUnit("ms"),
		)
	}

	if jaegerEndpoint != "" {
		tp, err := newTracerProvider(serviceName, jaegerEndpoint)
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
		} else {
			o.tracerProvider = tp
			otel.SetTracerProvider(tp)
			o.tracer = tp.Tracer(serviceName)
		}
	}

	return o
}

// RecordProviderCall counts one provider call and its latency. status is
// "ok", "error" or "timeout".
func (o *Observability) RecordProviderCall(ctx context.Context, provider, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	)
	if o.providerCalls != nil {
		o.providerCalls.Add(ctx, 1, attrs)
	}
	if o.providerLatency != nil {
		o.providerLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// StartSpan starts a span on the configured tracer. A nil Observability
// returns a no-op span.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		o.tracerProvider.Shutdown(ctx)
	}
}
