package telemetry

import (
	"context"
	"errors"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics reports committed business activity. It satisfies the
// Metrics interfaces of the inventory, order, finance and approval services.
type BusinessMetrics struct {
	ordersCompleted      metric.Int64Counter
	orderAmount          metric.Float64Counter
	stockMovements       metric.Int64Counter
	stockQuantity        metric.Int64Counter
	insufficientStock    metric.Int64Counter
	transactionsRecorded metric.Int64Counter
	transactionAmount    metric.Float64Counter
	approvalsResolved    metric.Int64Counter
}

// NewBusinessMetrics creates the business counters on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewBusinessMetrics: meter cannot be nil")
	}

	var (
		bm   BusinessMetrics
		errs []error
	)
	int64Counter := func(name, description, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
		errs = append(errs, err)
		return c
	}
	float64Counter := func(name, description, unit string) metric.Float64Counter {
		c, err := meter.Float64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
		errs = append(errs, err)
		return c
	}

	bm.ordersCompleted = int64Counter("erp.orders.completed", "Orders that reached completed", "{order}")
	bm.orderAmount = float64Counter("erp.orders.amount", "Total amount of completed orders", "{currency}")
	bm.stockMovements = int64Counter("erp.stock.movements", "Committed ledger movements", "{movement}")
	bm.stockQuantity = int64Counter("erp.stock.quantity_moved", "Absolute quantity moved by committed ledger movements", "{unit}")
	bm.insufficientStock = int64Counter("erp.stock.insufficient", "Operations rejected for insufficient stock", "{rejection}")
	bm.transactionsRecorded = int64Counter("erp.finance.transactions", "Recorded financial transactions", "{transaction}")
	bm.transactionAmount = float64Counter("erp.finance.amount", "Amount of recorded financial transactions", "{currency}")
	bm.approvalsResolved = int64Counter("erp.approvals.resolved", "Resolved approval requests", "{approval}")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &bm, nil
}

// tenantAttrs labels a measurement with the namespace bound to ctx
func tenantAttrs(ctx context.Context, attrs ...attribute.KeyValue) metric.MeasurementOption {
	if ns, ok := tenant.NamespaceFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("tenant.schema", ns.Schema()))
	}
	return metric.WithAttributes(attrs...)
}

// RecordOrderCompleted counts a completed order and its amount
func (bm *BusinessMetrics) RecordOrderCompleted(ctx context.Context, orderType string, amount decimal.Decimal) {
	opt := tenantAttrs(ctx, attribute.String("order.type", orderType))
	bm.ordersCompleted.Add(ctx, 1, opt)
	bm.orderAmount.Add(ctx, amount.Abs().InexactFloat64(), opt)
}

// RecordStockMovement counts one committed movement of qty units
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, movementType string, qty int64) {
	if qty < 0 {
		qty = -qty
	}
	opt := tenantAttrs(ctx, attribute.String("movement.type", movementType))
	bm.stockMovements.Add(ctx, 1, opt)
	bm.stockQuantity.Add(ctx, qty, opt)
}

// RecordInsufficientStock counts a rejected consumption
func (bm *BusinessMetrics) RecordInsufficientStock(ctx context.Context) {
	bm.insufficientStock.Add(ctx, 1, tenantAttrs(ctx))
}

// RecordTransaction counts a recorded income or expense
func (bm *BusinessMetrics) RecordTransaction(ctx context.Context, txType string, amount decimal.Decimal) {
	opt := tenantAttrs(ctx, attribute.String("transaction.type", txType))
	bm.transactionsRecorded.Add(ctx, 1, opt)
	bm.transactionAmount.Add(ctx, amount.InexactFloat64(), opt)
}

// RecordApprovalResolved counts an approval decision
func (bm *BusinessMetrics) RecordApprovalResolved(ctx context.Context, decision string) {
	bm.approvalsResolved.Add(ctx, 1, tenantAttrs(ctx, attribute.String("approval.decision", decision)))
}
