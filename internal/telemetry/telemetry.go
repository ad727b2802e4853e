// Package telemetry installs the OpenTelemetry tracer provider used by the
// process controller.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/wnxd/dbgcore/internal/config"
)

// InstrumentationName is the tracer scope of the process controller.
const InstrumentationName = "github.com/wnxd/dbgcore/process"

// NewTracerProvider creates a TracerProvider exporting over OTLP/HTTP.
// The exporter connects lazily, so a missing collector is not an error here.
func NewTracerProvider(ctx context.Context, cfg config.TracingConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	// Standalone resource, no merge with resource.Default().
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SampleRate)),
	), nil
}

// Setup creates a TracerProvider and installs it globally. The returned
// function flushes and stops it.
func Setup(ctx context.Context, cfg config.TracingConfig) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	tp, err := NewTracerProvider(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown, nil
}

func newSampler(rate float64) sdktrace.Sampler {
	var sampler sdktrace.Sampler
	if rate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else if rate <= 0 {
		sampler = sdktrace.NeverSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(rate)
	}
	return sdktrace.ParentBased(sampler)
}
