// Package order provides the order workflow: creation, the status machine and
// point-of-sale checkout. Completing an order moves stock through the inventory
// ledger inside the same unit of work as the status change.
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	financeapp "github.com/erp/erpcore/internal/application/finance"
	inventoryapp "github.com/erp/erpcore/internal/application/inventory"
	"github.com/erp/erpcore/internal/application/uow"
	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/order"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// POSPrefix numbers point-of-sale orders
	POSPrefix = "POS"

	// DefaultIdempotencyTTL is how long a checkout key blocks replays
	DefaultIdempotencyTTL = 24 * time.Hour
)

// Metrics receives counters for committed order activity
type Metrics interface {
	RecordOrderCompleted(ctx context.Context, orderType string, amount decimal.Decimal)
}

type noopMetrics struct{}

func (noopMetrics) RecordOrderCompleted(context.Context, string, decimal.Decimal) {}

// WorkflowService orchestrates orders across the inventory ledger and the reconciler
type WorkflowService struct {
	scope          uow.TransactionScope
	ledger         *inventoryapp.LedgerService
	reconciler     *financeapp.ReconcilerService
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
	metrics        Metrics
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	scope uow.TransactionScope,
	ledger *inventoryapp.LedgerService,
	reconciler *financeapp.ReconcilerService,
	logger *zap.Logger,
) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		scope:          scope,
		ledger:         ledger,
		reconciler:     reconciler,
		idempotencyTTL: DefaultIdempotencyTTL,
		logger:         logger,
		metrics:        noopMetrics{},
	}
}

// SetIdempotencyStore enables replay detection for checkout requests carrying a key
func (s *WorkflowService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// SetMetrics sets the metrics sink
func (s *WorkflowService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// CreateOrder creates a draft order. Inventory is untouched until completion.
func (s *WorkflowService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	orderType := order.Type(req.Type)
	o, err := buildOrder(orderType, req.PartnerID, req.WarehouseID, req.Items)
	if err != nil {
		return nil, err
	}
	o.CreatedBy = req.CreatedBy
	o.Note = strings.TrimSpace(req.Note)

	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if err := requirePartner(ctx, repos, o.PartnerID); err != nil {
			return err
		}
		if err := assignNumber(ctx, repos, o, orderType.NumberPrefix()); err != nil {
			return err
		}
		return repos.Orders().Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_no", o.OrderNo),
		zap.String("type", o.Type.String()),
		zap.String("total_amount", o.TotalAmount.String()),
	)
	return ToOrderResponse(o), nil
}

// TransitionStatus moves an order to a new status, applying its stock effect on completion.
// A failed stock movement rolls back the whole transition.
func (s *WorkflowService) TransitionStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	var (
		o         *order.Order
		movements []*inventory.Movement
		from      order.Status
	)
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		o, from, movements, err = s.Bind(repos).Transition(ctx, id, order.Status(req.Status))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.ledger.RecordMovements(ctx, movements...)
	if o.Status == order.StatusCompleted {
		s.metrics.RecordOrderCompleted(ctx, o.Type.String(), o.TotalAmount)
	}
	s.logger.Info("Order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", o.Status.String()),
		zap.Int("stock_movements", len(movements)),
	)
	return ToOrderResponse(o), nil
}

// GetOrder returns an order with its items
func (s *WorkflowService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var o *order.Order
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		o, err = repos.Orders().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// ListOrders lists orders without their items
func (s *WorkflowService) ListOrders(ctx context.Context, filter order.Filter) (shared.Paginated[OrderResponse], error) {
	var page shared.Paginated[order.Order]
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		page, err = repos.Orders().List(ctx, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.MapPaginated(page, func(o order.Order) OrderResponse {
		return *ToOrderResponse(&o)
	}), nil
}

// CheckoutPOS creates, fulfils and pays a sales order in one unit of work.
// Walk-in sales carry no partner.
func (s *WorkflowService) CheckoutPOS(ctx context.Context, req POSCheckoutRequest) (*POSCheckoutResponse, error) {
	o, err := buildOrder(order.TypeSales, req.PartnerID, req.WarehouseID, req.Items)
	if err != nil {
		return nil, err
	}
	o.CreatedBy = req.Cashier

	release, err := s.claim(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var (
		movements []*inventory.Movement
		posting   *financeapp.Posting
	)
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if err := requirePartner(ctx, repos, o.PartnerID); err != nil {
			return err
		}
		if err := assignNumber(ctx, repos, o, POSPrefix); err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}

		var err error
		if movements, err = s.applyStockEffect(ctx, repos, o); err != nil {
			return err
		}
		if err := o.CompleteAtCounter(); err != nil {
			return err
		}
		if err := repos.Orders().UpdateStatus(ctx, o); err != nil {
			return err
		}

		if !o.TotalAmount.IsPositive() {
			o.ApplyPayment(decimal.Zero)
			return repos.Orders().UpdatePaymentStatus(ctx, o)
		}
		orderID := o.ID
		posting, err = s.reconciler.Bind(repos).Record(ctx, financeapp.RecordTransactionRequest{
			Type:          string(finance.TransactionIncome),
			Amount:        o.TotalAmount,
			PartnerID:     o.PartnerID,
			OrderID:       &orderID,
			PaymentMethod: req.PaymentMethod,
			Description:   "POS " + o.OrderNo,
		})
		if err != nil {
			return err
		}
		o.PaymentStatus = posting.Order.PaymentStatus
		return nil
	})
	if err != nil {
		release()
		return nil, err
	}

	s.ledger.RecordMovements(ctx, movements...)
	s.metrics.RecordOrderCompleted(ctx, o.Type.String(), o.TotalAmount)
	resp := &POSCheckoutResponse{Order: *ToOrderResponse(o)}
	if posting != nil {
		s.reconciler.Committed(ctx, posting)
		resp.TransactionID = posting.Transaction.ID
	}

	s.logger.Info("POS checkout completed",
		zap.String("order_id", o.ID.String()),
		zap.String("order_no", o.OrderNo),
		zap.String("total_amount", o.TotalAmount.String()),
	)
	return resp, nil
}

// claim reserves a checkout idempotency key. The returned func frees it again
// so a failed checkout can be retried with the same key.
func (s *WorkflowService) claim(ctx context.Context, key string) (func(), error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil {
		return func() {}, nil
	}

	scoped := "pos:" + key
	if ns, ok := tenant.NamespaceFromContext(ctx); ok {
		scoped = fmt.Sprintf("pos:%s:%s", ns.Schema(), key)
	}

	claimed, err := s.idempotency.Claim(ctx, scoped, s.idempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if !claimed {
		return nil, shared.ErrDuplicateRequest.WithDetail("idempotency_key", key)
	}

	return func() {
		if err := s.idempotency.Release(context.WithoutCancel(ctx), scoped); err != nil {
			s.logger.Warn("Failed to release idempotency key",
				zap.String("key", scoped),
				zap.Error(err),
			)
		}
	}, nil
}

// Bind returns a workflow operating inside repos' transaction
func (s *WorkflowService) Bind(repos uow.Repositories) *BoundWorkflow {
	return &BoundWorkflow{svc: s, repos: repos}
}

// BoundWorkflow drives order transitions through an open unit of work
type BoundWorkflow struct {
	svc   *WorkflowService
	repos uow.Repositories
}

// Transition locks the order, validates the edge and applies the completion stock effect.
// It returns the updated order, its previous status and any stock movements.
func (b *BoundWorkflow) Transition(ctx context.Context, id uuid.UUID, target order.Status) (*order.Order, order.Status, []*inventory.Movement, error) {
	o, err := b.repos.Orders().LockByID(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}

	from := o.Status
	if err := o.TransitionTo(target); err != nil {
		return nil, from, nil, err
	}
	// only the approval gate moves an order out of a pending approval
	if from == order.StatusPendingApproval {
		pending, err := b.repos.Approvals().ExistsPending(ctx, approval.TargetOrder, id)
		if err != nil {
			return nil, from, nil, err
		}
		if pending {
			return nil, from, nil, shared.NewInvalidTransitionError(from.String(), target.String()).
				WithDetail("reason", "order has a pending approval")
		}
	}

	var movements []*inventory.Movement
	if target == order.StatusCompleted {
		if err := o.CheckTotal(); err != nil {
			b.svc.logger.Error("Order total does not match its items",
				zap.String("order_id", o.ID.String()),
				zap.Error(err),
			)
			return nil, from, nil, err
		}
		if movements, err = b.svc.applyStockEffect(ctx, b.repos, o); err != nil {
			return nil, from, nil, err
		}
	}

	if err := b.repos.Orders().UpdateStatus(ctx, o); err != nil {
		return nil, from, nil, err
	}
	return o, from, movements, nil
}

// applyStockEffect consumes or receives every item of o. Items are processed
// in key order so concurrent completions lock rows in the same sequence.
func (s *WorkflowService) applyStockEffect(ctx context.Context, repos uow.Repositories, o *order.Order) ([]*inventory.Movement, error) {
	type line struct {
		key      inventory.Key
		quantity int64
	}
	lines := make([]line, len(o.Items))
	for i, item := range o.Items {
		lines[i] = line{
			key:      inventory.NewKey(o.WarehouseID, item.ProductID, item.Location(s.ledger.DefaultLocation())),
			quantity: item.Quantity,
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].key.Less(lines[j].key) })

	ledger := s.ledger.Bind(repos)
	effect := o.Type.StockEffect()
	movements := make([]*inventory.Movement, 0, len(lines))
	for _, l := range lines {
		var (
			m   *inventory.Movement
			err error
		)
		if effect == order.EffectConsume {
			m, err = ledger.Consume(ctx, l.key, l.quantity, &o.ID)
		} else {
			m, err = ledger.Receive(ctx, l.key, l.quantity, &o.ID)
		}
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}

func buildOrder(orderType order.Type, partnerID *uuid.UUID, warehouseID uuid.UUID, reqItems []OrderItemRequest) (*order.Order, error) {
	items := make([]*order.Item, 0, len(reqItems))
	for i, r := range reqItems {
		item, err := order.NewItem(r.ProductID, r.LocationCode, r.Quantity, r.UnitPrice)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return nil, de.WithDetail("item", i)
			}
			return nil, err
		}
		items = append(items, item)
	}
	return order.NewOrder(orderType, partnerID, warehouseID, items)
}

// assignNumber draws the next value of the prefix's sequence
// requirePartner fails with not found when the referenced partner is missing
func requirePartner(ctx context.Context, repos uow.Repositories, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := repos.Partners().Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError("partner", *id)
	}
	return nil
}

func assignNumber(ctx context.Context, repos uow.Repositories, o *order.Order, prefix string) error {
	seq, err := repos.Sequences().Next(ctx, "order:"+prefix)
	if err != nil {
		return err
	}
	o.AssignNumber(prefix, seq, time.Now())
	return nil
}
