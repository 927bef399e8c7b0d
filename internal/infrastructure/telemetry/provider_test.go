package telemetry

import (
	"context"
	"testing"

	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/erp/erpcore/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.TracerProvider())
	assert.NotNil(t, p.Meter("erp"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1.0).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0.0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled leaves db untouched", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		require.NoError(t, RegisterDBTracing(db, config.TelemetryConfig{}, nil, zap.NewNop()))
		_, installed := db.Config.Plugins["otelgorm"]
		assert.False(t, installed)
	})

	t.Run("records a span per statement", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

		db := testutil.NewSQLiteDB(t)
		require.NoError(t, RegisterDBTracing(db, config.TelemetryConfig{DBTraceEnabled: true}, tp, zap.NewNop()))

		var n int
		require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
		assert.NotEmpty(t, recorder.Ended())
	})
}
