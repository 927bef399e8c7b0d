package telemetry

import (
	"fmt"

	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing installs the otelgorm plugin so every statement, including
// the per-transaction search_path binding, becomes a span under the request.
// Query variables are left out of spans unless full SQL logging is enabled.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, tp trace.TracerProvider, logger *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(db.Dialector.Name()),
		otelgorm.WithTracerProvider(tp),
	}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}

	logger.Info("Database tracing enabled", zap.Bool("log_full_sql", cfg.DBLogFullSQL))
	return nil
}
