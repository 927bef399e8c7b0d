package telemetry_test

import (
	"context"
	"testing"

	approvalapp "github.com/erp/erpcore/internal/application/approval"
	financeapp "github.com/erp/erpcore/internal/application/finance"
	inventoryapp "github.com/erp/erpcore/internal/application/inventory"
	orderapp "github.com/erp/erpcore/internal/application/order"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/erp/erpcore/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var (
	_ inventoryapp.Metrics = (*telemetry.BusinessMetrics)(nil)
	_ orderapp.Metrics     = (*telemetry.BusinessMetrics)(nil)
	_ financeapp.Metrics   = (*telemetry.BusinessMetrics)(nil)
	_ approvalapp.Metrics  = (*telemetry.BusinessMetrics)(nil)
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func int64Sum(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func newMetrics(t *testing.T) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return bm, reader
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(nil)
	require.Error(t, err)
	assert.Nil(t, bm)
}

func TestBusinessMetrics_Counters(t *testing.T) {
	bm, reader := newMetrics(t)

	ns, err := tenant.NewNamespace(uuid.New(), "tenant_metrics")
	require.NoError(t, err)
	ctx := tenant.WithNamespace(context.Background(), ns)

	bm.RecordOrderCompleted(ctx, "sales", decimal.NewFromInt(120))
	bm.RecordStockMovement(ctx, "outbound", -3)
	bm.RecordStockMovement(ctx, "inbound", 5)
	bm.RecordInsufficientStock(ctx)
	bm.RecordTransaction(ctx, "income", decimal.NewFromInt(40))
	bm.RecordApprovalResolved(ctx, "rejected")

	data := collect(t, reader)
	assert.Equal(t, int64(1), int64Sum(t, data["erp.orders.completed"]))
	assert.Equal(t, int64(2), int64Sum(t, data["erp.stock.movements"]))
	assert.Equal(t, int64(8), int64Sum(t, data["erp.stock.quantity_moved"]))
	assert.Equal(t, int64(1), int64Sum(t, data["erp.stock.insufficient"]))
	assert.Equal(t, int64(1), int64Sum(t, data["erp.finance.transactions"]))
	assert.Equal(t, int64(1), int64Sum(t, data["erp.approvals.resolved"]))

	amount, ok := data["erp.orders.amount"].(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.InDelta(t, 120.0, amount.DataPoints[0].Value, 0.001)

	schema, ok := amount.DataPoints[0].Attributes.Value(attribute.Key("tenant.schema"))
	require.True(t, ok)
	assert.Equal(t, "tenant_metrics", schema.AsString())
}
