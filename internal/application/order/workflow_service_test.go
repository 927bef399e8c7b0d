package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	financeapp "github.com/erp/erpcore/internal/application/finance"
	inventoryapp "github.com/erp/erpcore/internal/application/inventory"
	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/order"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/cache"
	"github.com/erp/erpcore/internal/infrastructure/persistence"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/erp/erpcore/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type workflowFixture struct {
	db         *gorm.DB
	ledger     *inventoryapp.LedgerService
	reconciler *financeapp.ReconcilerService
	svc        *WorkflowService
	ctx        context.Context
	warehouse  uuid.UUID
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db)
	ledger := inventoryapp.NewLedgerService(scope, inventoryapp.Config{}, nil)
	reconciler := financeapp.NewReconcilerService(scope, nil)
	return &workflowFixture{
		db:         db,
		ledger:     ledger,
		reconciler: reconciler,
		svc:        NewWorkflowService(scope, ledger, reconciler, nil),
		ctx:        testutil.TenantContext(t),
		warehouse:  uuid.New(),
	}
}

func (f *workflowFixture) stock(t *testing.T, product uuid.UUID, qty int64) {
	t.Helper()
	_, err := f.ledger.Receive(f.ctx, inventoryapp.MoveStockRequest{
		WarehouseID: f.warehouse,
		ProductID:   product,
		Quantity:    qty,
	})
	require.NoError(t, err)
}

func (f *workflowFixture) quantity(t *testing.T, product uuid.UUID) int64 {
	t.Helper()
	s, err := f.ledger.GetStock(f.ctx, f.warehouse, product, "")
	if errors.Is(err, shared.ErrNotFound) {
		return 0
	}
	require.NoError(t, err)
	return s.Quantity
}

func (f *workflowFixture) create(t *testing.T, orderType order.Type, items ...OrderItemRequest) *OrderResponse {
	t.Helper()
	resp, err := f.svc.CreateOrder(f.ctx, CreateOrderRequest{
		Type:        string(orderType),
		WarehouseID: f.warehouse,
		Items:       items,
	})
	require.NoError(t, err)
	return resp
}

func (f *workflowFixture) approve(t *testing.T, id uuid.UUID) {
	t.Helper()
	for _, status := range []order.Status{order.StatusPendingApproval, order.StatusApproved} {
		_, err := f.svc.TransitionStatus(f.ctx, id, UpdateStatusRequest{Status: string(status)})
		require.NoError(t, err)
	}
}

func line(product uuid.UUID, qty int64, price int64) OrderItemRequest {
	return OrderItemRequest{ProductID: product, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func TestWorkflowService_CreateOrder(t *testing.T) {
	f := newWorkflowFixture(t)
	product := uuid.New()
	today := time.Now().Format("20060102")

	first := f.create(t, order.TypeSales, line(product, 2, 15), line(uuid.New(), 1, 5))
	assert.Equal(t, fmt.Sprintf("SO-%s-000001", today), first.OrderNo)
	assert.Equal(t, "draft", first.Status)
	assert.Equal(t, "unpaid", first.PaymentStatus)
	assert.True(t, first.TotalAmount.Equal(decimal.NewFromInt(35)))
	assert.Len(t, first.Items, 2)

	second := f.create(t, order.TypeSales, line(product, 1, 1))
	assert.Equal(t, fmt.Sprintf("SO-%s-000002", today), second.OrderNo)

	purchase := f.create(t, order.TypePurchase, line(product, 1, 1))
	assert.Equal(t, fmt.Sprintf("PO-%s-000001", today), purchase.OrderNo)

	assert.Zero(t, f.quantity(t, product), "creating orders must not move stock")

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := f.svc.CreateOrder(f.ctx, CreateOrderRequest{Type: "sales", WarehouseID: f.warehouse})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("reports the failing item", func(t *testing.T) {
		_, err := f.svc.CreateOrder(f.ctx, CreateOrderRequest{
			Type:        "sales",
			WarehouseID: f.warehouse,
			Items:       []OrderItemRequest{line(product, 1, 1), line(product, 0, 1)},
		})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 1, de.Details["item"])
	})

	t.Run("rejects an unknown partner", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.svc.CreateOrder(f.ctx, CreateOrderRequest{
			Type:        "sales",
			PartnerID:   &missing,
			WarehouseID: f.warehouse,
			Items:       []OrderItemRequest{line(product, 1, 1)},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("keeps a known partner", func(t *testing.T) {
		customer := testutil.SeedPartner(t, f.db, string(finance.PartnerCustomer), decimal.Zero)
		resp, err := f.svc.CreateOrder(f.ctx, CreateOrderRequest{
			Type:        "purchase",
			PartnerID:   &customer,
			WarehouseID: f.warehouse,
			Items:       []OrderItemRequest{line(product, 1, 1)},
		})
		require.NoError(t, err)
		require.NotNil(t, resp.PartnerID)
		assert.Equal(t, customer, *resp.PartnerID)
	})

	got, err := f.svc.GetOrder(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNo, got.OrderNo)
	assert.Len(t, got.Items, 2)

	page, err := f.svc.ListOrders(f.ctx, order.Filter{Type: order.TypeSales})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestWorkflowService_CompleteSalesConsumesStock(t *testing.T) {
	f := newWorkflowFixture(t)
	product := uuid.New()
	f.stock(t, product, 10)

	o := f.create(t, order.TypeSales, line(product, 4, 10))
	f.approve(t, o.ID)

	resp, err := f.svc.TransitionStatus(f.ctx, o.ID, UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, int64(6), f.quantity(t, product))

	logs, err := f.ledger.ListLogs(f.ctx, inventory.LogFilter{ReferenceID: &o.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), logs.Total)
	assert.Equal(t, int64(-4), logs.Items[0].ChangeQty)
	assert.Equal(t, string(inventory.MovementOutbound), logs.Items[0].Type)
}

func TestWorkflowService_CompletePurchaseReceivesStock(t *testing.T) {
	f := newWorkflowFixture(t)
	product := uuid.New()

	o := f.create(t, order.TypePurchase, line(product, 7, 3))
	f.approve(t, o.ID)

	_, err := f.svc.TransitionStatus(f.ctx, o.ID, UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), f.quantity(t, product))
}

func TestWorkflowService_InsufficientStockRollsBack(t *testing.T) {
	f := newWorkflowFixture(t)
	enough, short := uuid.New(), uuid.New()
	f.stock(t, enough, 10)
	f.stock(t, short, 1)

	o := f.create(t, order.TypeSales, line(enough, 5, 1), line(short, 3, 1))
	f.approve(t, o.ID)

	_, err := f.svc.TransitionStatus(f.ctx, o.ID, UpdateStatusRequest{Status: "completed"})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, short.String(), de.Details["product_id"])

	assert.Equal(t, int64(10), f.quantity(t, enough))
	assert.Equal(t, int64(1), f.quantity(t, short))

	got, err := f.svc.GetOrder(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
}

func TestWorkflowService_InvalidTransitions(t *testing.T) {
	f := newWorkflowFixture(t)
	product := uuid.New()
	f.stock(t, product, 5)
	o := f.create(t, order.TypeSales, line(product, 1, 1))

	t.Run("draft cannot complete", func(t *testing.T) {
		_, err := f.svc.TransitionStatus(f.ctx, o.ID, UpdateStatusRequest{Status: "completed"})
		require.ErrorIs(t, err, shared.ErrInvalidTransition)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "draft", de.Details["from"])
		assert.Equal(t, "completed", de.Details["to"])
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.svc.TransitionStatus(f.ctx, o.ID, UpdateStatusRequest{Status: "shipped"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		f.approve(t, o.ID)
		_, err := f.svc.TransitionStatus(f.ctx, o.ID, UpdateStatusRequest{Status: "completed"})
		require.NoError(t, err)

		_, err = f.svc.TransitionStatus(f.ctx, o.ID, UpdateStatusRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		assert.Equal(t, int64(4), f.quantity(t, product))
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := f.svc.TransitionStatus(f.ctx, uuid.New(), UpdateStatusRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestWorkflowService_CheckoutPOS(t *testing.T) {
	f := newWorkflowFixture(t)
	product := uuid.New()
	f.stock(t, product, 10)
	customer := testutil.SeedPartner(t, f.db, string(finance.PartnerCustomer), decimal.Zero)

	t.Run("customer sale", func(t *testing.T) {
		resp, err := f.svc.CheckoutPOS(f.ctx, POSCheckoutRequest{
			WarehouseID:   f.warehouse,
			PartnerID:     &customer,
			Items:         []OrderItemRequest{line(product, 3, 20)},
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Order.Status)
		assert.Equal(t, "paid", resp.Order.PaymentStatus)
		assert.Contains(t, resp.Order.OrderNo, "POS-")
		assert.NotEqual(t, uuid.Nil, resp.TransactionID)
		assert.Equal(t, int64(7), f.quantity(t, product))

		var partner models.PartnerModel
		require.NoError(t, f.db.First(&partner, "id = ?", customer).Error)
		assert.True(t, partner.Balance.Equal(decimal.NewFromInt(-60)))

		txs, err := f.reconciler.ListTransactions(f.ctx, finance.TransactionFilter{OrderID: &resp.Order.ID})
		require.NoError(t, err)
		require.Equal(t, int64(1), txs.Total)
		assert.Equal(t, "income", txs.Items[0].Type)
		assert.Equal(t, "POS "+resp.Order.OrderNo, txs.Items[0].Description)
	})

	t.Run("walk-in sale", func(t *testing.T) {
		resp, err := f.svc.CheckoutPOS(f.ctx, POSCheckoutRequest{
			WarehouseID: f.warehouse,
			Items:       []OrderItemRequest{line(product, 1, 20)},
		})
		require.NoError(t, err)
		assert.Nil(t, resp.Order.PartnerID)
		assert.Equal(t, "paid", resp.Order.PaymentStatus)
		assert.Equal(t, int64(6), f.quantity(t, product))
	})

	t.Run("free items settle without a transaction", func(t *testing.T) {
		resp, err := f.svc.CheckoutPOS(f.ctx, POSCheckoutRequest{
			WarehouseID: f.warehouse,
			Items:       []OrderItemRequest{line(product, 1, 0)},
		})
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Order.PaymentStatus)
		assert.Equal(t, uuid.Nil, resp.TransactionID)
	})

	t.Run("shortage writes nothing", func(t *testing.T) {
		before, err := f.svc.ListOrders(f.ctx, order.Filter{})
		require.NoError(t, err)

		_, err = f.svc.CheckoutPOS(f.ctx, POSCheckoutRequest{
			WarehouseID: f.warehouse,
			PartnerID:   &customer,
			Items:       []OrderItemRequest{line(product, 100, 1)},
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		after, err := f.svc.ListOrders(f.ctx, order.Filter{})
		require.NoError(t, err)
		assert.Equal(t, before.Total, after.Total)
		assert.Equal(t, int64(5), f.quantity(t, product))

		var partner models.PartnerModel
		require.NoError(t, f.db.First(&partner, "id = ?", customer).Error)
		assert.True(t, partner.Balance.Equal(decimal.NewFromInt(-60)))
	})

	t.Run("unknown partner rolls back", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.svc.CheckoutPOS(f.ctx, POSCheckoutRequest{
			WarehouseID: f.warehouse,
			PartnerID:   &missing,
			Items:       []OrderItemRequest{line(product, 1, 1)},
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, int64(5), f.quantity(t, product))
	})
}

func TestWorkflowService_CheckoutPOSIdempotency(t *testing.T) {
	f := newWorkflowFixture(t)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	f.svc.SetIdempotencyStore(store, time.Hour)

	product := uuid.New()
	f.stock(t, product, 2)

	req := POSCheckoutRequest{
		WarehouseID:    f.warehouse,
		Items:          []OrderItemRequest{line(product, 1, 5)},
		IdempotencyKey: "till-1-0001",
	}

	_, err := f.svc.CheckoutPOS(f.ctx, req)
	require.NoError(t, err)

	_, err = f.svc.CheckoutPOS(f.ctx, req)
	require.ErrorIs(t, err, shared.ErrDuplicateRequest)
	assert.Equal(t, int64(1), f.quantity(t, product))

	t.Run("failed checkout frees its key", func(t *testing.T) {
		retry := req
		retry.IdempotencyKey = "till-1-0002"
		retry.Items = []OrderItemRequest{line(product, 5, 5)}

		_, err := f.svc.CheckoutPOS(f.ctx, retry)
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		retry.Items = []OrderItemRequest{line(product, 1, 5)}
		_, err = f.svc.CheckoutPOS(f.ctx, retry)
		require.NoError(t, err)
		assert.Zero(t, f.quantity(t, product))
	})
}
