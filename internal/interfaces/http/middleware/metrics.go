package middleware

import (
	"time"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpMetrics holds all HTTP-related metric instruments.
type httpMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
}

var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requestTotal, err := meter.Int64Counter(
		"http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency distribution in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		activeRequests:  activeRequests,
	}, nil
}

// HTTPMetrics records request count, latency and concurrency per route.
// Requests are labelled with the tenant schema once it has been resolved.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.activeRequests.Add(ctx, 1)

		c.Next()

		m.activeRequests.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}
		attrs := []attribute.KeyValue{
			base[0],
			base[1],
			attribute.Int("http.status_code", c.Writer.Status()),
		}
		if ns, ok := tenant.NamespaceFromContext(c.Request.Context()); ok {
			attrs = append(attrs, attribute.String("tenant.schema", ns.Schema()))
		}

		m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
		m.requestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(base...))
	}, nil
}
