// Package middleware provides the HTTP middleware chain of the API server.
package middleware

import (
	"net/http"

	"github.com/erp/erpcore/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName    string
	Enabled        bool
	TracerProvider trace.TracerProvider
}

// Tracing returns otelgin middleware that names spans after the matched route
// and marks 5xx responses as errors. Tenant attributes are added later by
// TenantNamespace, once the namespace is known.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	opts := []otelgin.Option{}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanEnricher copies the request id onto the active span and marks server
// errors. It must run inside Tracing and after the logger middleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := logger.GetRequestID(c.Request.Context()); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
