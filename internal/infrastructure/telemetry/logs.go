package telemetry

import (
	"context"
	"fmt"

	"github.com/erp/erpcore/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogProvider exports log records to the collector in batches and
// installs the provider globally.
func newLogProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp)
	return lp, nil
}

// BridgeLogger returns base with every entry it writes also emitted as an
// OpenTelemetry log record. The bridge honours base's level. Without a log
// provider base is returned unchanged.
func (p *Provider) BridgeLogger(base *zap.Logger) *zap.Logger {
	if p.logs == nil {
		return base
	}
	bridge := bridgeCore(p.logs, p.config.ServiceName, zapcore.LevelOf(base.Core()))
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, bridge)
	}))
}

// bridgeCore is an otelzap core that drops entries below min
func bridgeCore(lp log.LoggerProvider, name string, min zapcore.Level) zapcore.Core {
	core := otelzap.NewCore(name, otelzap.WithLoggerProvider(lp))
	filtered, err := zapcore.NewIncreaseLevelCore(core, min)
	if err != nil {
		return core
	}
	return filtered
}
