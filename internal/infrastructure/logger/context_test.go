package logger

import (
	"context"
	"testing"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	assert.Same(t, log, FromContext(WithContext(context.Background(), log)))
}

func TestL_Enrichment(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "user-1")

	ns, err := tenant.NewNamespace(uuid.New(), "tenant_shop")
	require.NoError(t, err)
	ctx = tenant.WithNamespace(ctx, ns)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	L(ctx).Info("order completed")

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "tenant_shop", fields["schema"])
	assert.Equal(t, ns.TenantID().String(), fields["tenant_id"])
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
}

func TestFields_SharedNamespace(t *testing.T) {
	ctx := tenant.WithNamespace(context.Background(), tenant.SharedNamespace())

	keys := make(map[string]bool)
	for _, f := range Fields(ctx) {
		keys[f.Key] = true
	}
	assert.True(t, keys["schema"])
	assert.False(t, keys["tenant_id"])
	assert.Empty(t, Fields(context.Background()))
}
