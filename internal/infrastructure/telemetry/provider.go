// Package telemetry wires OpenTelemetry tracing, metrics and logs: the OTLP
// exporters, the zap log bridge, GORM query tracing, Pyroscope profiling and
// the business counters reported by the application services.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/erpcore/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const metricExportInterval = 60 * time.Second

// Provider owns the tracer and meter providers for the process
type Provider struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
	logs   *sdklog.LoggerProvider
	// linked wraps tracer once profiles are attached to spans
	linked trace.TracerProvider
	logger *zap.Logger
	config config.TelemetryConfig
}

// NewProvider configures OTLP gRPC export of traces and metrics and installs
// both providers globally. When telemetry is disabled the global no-op
// providers stay in place.
func NewProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Provider, error) {
	p := &Provider{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Info("Telemetry disabled, using no-op providers")
		return p, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
	}

	traceExporter, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	metricExporter, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	p.tracer = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplingRatio)),
	)
	p.meter = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(metricExportInterval))),
	)

	if cfg.LogsEnabled {
		if p.logs, err = newLogProvider(ctx, cfg, res); err != nil {
			return nil, err
		}
	}

	otel.SetTracerProvider(p.tracer)
	otel.SetMeterProvider(p.meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("OpenTelemetry initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.String("service_name", cfg.ServiceName),
		zap.Bool("logs_enabled", p.logs != nil),
	)
	return p, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	switch ratio {
	case 1.0:
		return sdktrace.AlwaysSample()
	case 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// Enabled reports whether spans and metrics are exported
func (p *Provider) Enabled() bool {
	return p.tracer != nil
}

// TracerProvider returns the active tracer provider
func (p *Provider) TracerProvider() trace.TracerProvider {
	if p.linked != nil {
		return p.linked
	}
	if p.tracer == nil {
		return otel.GetTracerProvider()
	}
	return p.tracer
}

// Meter returns a named meter from the active meter provider
func (p *Provider) Meter(name string) metric.Meter {
	if p.meter == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return p.meter.Meter(name)
}

// Shutdown flushes pending spans and metrics
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := errors.Join(p.tracer.Shutdown(ctx), p.meter.Shutdown(ctx))
	if p.logs != nil {
		err = errors.Join(err, p.logs.Shutdown(ctx))
	}
	if err != nil {
		p.logger.Error("Error shutting down telemetry", zap.Error(err))
		return fmt.Errorf("failed to shutdown telemetry: %w", err)
	}
	p.logger.Info("OpenTelemetry shutdown complete")
	return nil
}
