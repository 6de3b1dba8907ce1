// internal/telemetry/telemetry.go

// Package telemetry wires OpenTelemetry tracing and metrics for the CLI.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops tracing and metrics.
type ShutdownFunc func(context.Context) error

func serviceResource(serviceName string) *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", serviceName))
}

// NewExporter creates an OTLP/HTTP trace exporter for a collector at endpoint (host:port).
func NewExporter(ctx context.Context, endpoint string, insecure bool) (*otlptrace.Exporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	return exp, nil
}

// NewMetricExporter creates an OTLP/HTTP metric exporter for a collector at endpoint.
func NewMetricExporter(ctx context.Context, endpoint string, insecure bool) (*otlpmetrichttp.Exporter, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	return exp, nil
}

// NewProvider builds a tracer provider labeled with serviceName.
func NewProvider(serviceName string, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{sdktrace.WithResource(serviceResource(serviceName))}, opts...)...)
}

// NewMeterProvider builds a meter provider labeled with serviceName.
func NewMeterProvider(serviceName string, opts ...sdkmetric.Option) *sdkmetric.MeterProvider {
	return sdkmetric.NewMeterProvider(append([]sdkmetric.Option{sdkmetric.WithResource(serviceResource(serviceName))}, opts...)...)
}

// Setup installs global tracer and meter providers exporting to endpoint.
// An empty endpoint leaves the no-op providers in place.
func Setup(ctx context.Context, endpoint, serviceName string) (ShutdownFunc, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	texp, err := NewExporter(ctx, endpoint, true)
	if err != nil {
		return nil, err
	}
	mexp, err := NewMetricExporter(ctx, endpoint, true)
	if err != nil {
		_ = texp.Shutdown(ctx)
		return nil, err
	}

	tp := NewProvider(serviceName, sdktrace.WithBatcher(texp))
	mp := NewMeterProvider(serviceName, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(mexp)))
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
