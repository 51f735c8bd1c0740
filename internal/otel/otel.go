package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/talkops-ai/k8s-autopilot-sub001/internal/config"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(context.Context) error

func newResource(cfg config.TelemetryConfig) *resource.Resource {
	name := cfg.ServiceName
	if name == "" {
		name = "a2ui-agent"
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(name),
	)
}

// InitTracer initializes the OpenTelemetry tracer provider with an OTLP HTTP exporter.
func InitTracer(ctx context.Context, cfg config.TelemetryConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(cfg)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// InitMeter initializes the OpenTelemetry meter provider with an OTLP HTTP exporter.
func InitMeter(ctx context.Context, cfg config.TelemetryConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(newResource(cfg)),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Setup installs both providers when an endpoint is configured. Without one
// the global no-op providers stay in place and the returned func does nothing.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (ShutdownFunc, error) {
	logger := log.FromContext(ctx).WithName("otel")
	if cfg.Endpoint == "" {
		logger.V(1).Info("No OTLP endpoint configured, telemetry export disabled")
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}
	logger.Info("Telemetry export enabled", "endpoint", cfg.Endpoint)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
