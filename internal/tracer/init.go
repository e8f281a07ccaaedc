// Package tracer installs the OpenTelemetry tracer provider of the
// ema-assist binary.
package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const ServiceName = "ema-assist"

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

type Options struct {
	Enabled bool
	// Endpoint is the host:port of an OTLP HTTP collector, for example
	// localhost:4318.
	Endpoint string
	// Exporter replaces the OTLP exporter. Tests use an in-memory one.
	Exporter sdktrace.SpanExporter
}

// Init installs a global tracer provider that batches spans to the OTLP
// HTTP endpoint. It is a no-op when tracing is disabled.
func Init(ctx context.Context, opts Options) (ShutdownFunc, error) {
	if !opts.Enabled {
		return noopShutdown, nil
	}

	exporter := opts.Exporter
	if exporter == nil {
		endpoint := opts.Endpoint
		if endpoint == "" {
			endpoint = "localhost:4318"
		}
		var err error
		exporter, err = otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return noopShutdown, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
