// Package telemetry provides optional OpenTelemetry tracing for fossactl runs.
// Tracing is off unless an OTLP endpoint is configured; it never influences
// the outcome of a run.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"
)

var (
	// version is set by the build system and used for telemetry
	version = "unknown"

	// tracerProvider holds the global tracer provider
	tracerProvider *sdktrace.TracerProvider

	// initialized tracks whether tracing has been initialized
	initialized bool
)

// SetVersion sets the fossactl version for telemetry reporting
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Initialize sets up the OpenTelemetry tracer with an OTLP HTTP exporter.
// This should be called once at application startup.
// Returns an error if initialization fails, or nil if tracing is disabled (empty endpoint).
func Initialize(ctx context.Context, endpoint string, insecure bool) error {
	if endpoint == "" {
		return nil
	}

	if initialized {
		return nil
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
	}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return xerrors.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("fossactl"),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return xerrors.Errorf("failed to create resource: %w", err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	initialized = true
	return nil
}

// Shutdown flushes any pending spans and shuts down the tracer provider.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := tracerProvider.Shutdown(shutdownCtx)
	tracerProvider = nil
	initialized = false
	return err
}

// Enabled returns true if tracing has been initialized.
func Enabled() bool {
	return initialized
}

// Tracer returns the global tracer for fossactl.
func Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer("github.com/gitpod-io/fossactl")
}

// StartSpan creates a new span with the given name and attributes.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// FinishSpan ends a span and sets its status based on the error.
// Usage: defer telemetry.FinishSpan(span, &err)
func FinishSpan(span trace.Span, err *error) {
	if span == nil {
		return
	}
	if err != nil && *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
