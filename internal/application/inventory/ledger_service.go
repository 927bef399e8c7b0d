// Package inventory provides the inventory ledger application service.
//
// Every stock change is a locked read-modify-write of one stocks row followed by
// an append to inventory_logs, inside a single unit of work. The signed sum of
// a key's log entries therefore always equals its quantity.
package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/erp/erpcore/internal/application/uow"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/order"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxAuditItems bounds the number of counts one audit may carry
const DefaultMaxAuditItems = 500

// Config holds ledger settings
type Config struct {
	DefaultLocation string
	MaxAuditItems   int
}

// Metrics receives counters for committed ledger activity
type Metrics interface {
	RecordStockMovement(ctx context.Context, movementType string, quantity int64)
	RecordInsufficientStock(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) RecordStockMovement(context.Context, string, int64) {}
func (noopMetrics) RecordInsufficientStock(context.Context)            {}

// LedgerService owns every mutation of stock quantities
type LedgerService struct {
	scope   uow.TransactionScope
	cfg     Config
	logger  *zap.Logger
	metrics Metrics
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope uow.TransactionScope, cfg Config, logger *zap.Logger) *LedgerService {
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = inventory.DefaultLocationCode
	}
	if cfg.MaxAuditItems <= 0 {
		cfg.MaxAuditItems = DefaultMaxAuditItems
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		scope:   scope,
		cfg:     cfg,
		logger:  logger,
		metrics: noopMetrics{},
	}
}

// SetMetrics sets the metrics sink
func (s *LedgerService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// DefaultLocation returns the location used when a caller names none
func (s *LedgerService) DefaultLocation() string {
	return s.cfg.DefaultLocation
}

// key builds a stock key, substituting the default location for a blank one
func (s *LedgerService) key(warehouseID, productID uuid.UUID, location string) inventory.Key {
	k := inventory.NewKey(warehouseID, productID, location)
	if k.LocationCode == "" {
		k.LocationCode = s.cfg.DefaultLocation
	}
	return k
}

// AdjustStock sets the quantity at a key to an absolute value
func (s *LedgerService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*MovementResponse, error) {
	if req.Quantity == nil {
		return nil, shared.NewValidationError("quantity is required")
	}
	key := s.key(req.WarehouseID, req.ProductID, req.LocationCode)

	var movement *inventory.Movement
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		movement, err = s.Bind(repos).Adjust(ctx, key, *req.Quantity, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.RecordMovements(ctx, movement)
	s.logger.Info("Stock adjusted",
		zap.String("key", key.String()),
		zap.Int64("before", movement.Before),
		zap.Int64("after", movement.After),
		zap.String("reason", req.Reason),
	)
	return ToMovementResponse(movement), nil
}

// Consume removes stock for an outbound movement
func (s *LedgerService) Consume(ctx context.Context, req MoveStockRequest) (*MovementResponse, error) {
	key := s.key(req.WarehouseID, req.ProductID, req.LocationCode)

	var movement *inventory.Movement
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		movement, err = s.Bind(repos).Consume(ctx, key, req.Quantity, req.ReferenceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.RecordMovements(ctx, movement)
	return ToMovementResponse(movement), nil
}

// Reserve is Consume under the name order flows use
func (s *LedgerService) Reserve(ctx context.Context, req MoveStockRequest) (*MovementResponse, error) {
	return s.Consume(ctx, req)
}

// Receive adds stock for an inbound movement
func (s *LedgerService) Receive(ctx context.Context, req MoveStockRequest) (*MovementResponse, error) {
	key := s.key(req.WarehouseID, req.ProductID, req.LocationCode)

	var movement *inventory.Movement
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		movement, err = s.Bind(repos).Receive(ctx, key, req.Quantity, req.ReferenceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.RecordMovements(ctx, movement)
	return ToMovementResponse(movement), nil
}

// Transfer moves stock between two locations in one unit of work
func (s *LedgerService) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	from := s.key(req.FromWarehouseID, req.ProductID, req.FromLocationCode)
	to := s.key(req.ToWarehouseID, req.ProductID, req.ToLocationCode)

	var result *TransferResult
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		result, err = s.Bind(repos).Transfer(ctx, from, to, req.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.RecordMovements(ctx, result.Out, result.In)
	s.logger.Info("Stock transferred",
		zap.String("transfer_id", result.TransferID.String()),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Int64("quantity", req.Quantity),
	)
	return &TransferResponse{
		TransferID: result.TransferID,
		Out:        *ToMovementResponse(result.Out),
		In:         *ToMovementResponse(result.In),
	}, nil
}

// RunAudit records a physical count of a warehouse and sets every counted key to its count.
// All items are validated before any row is touched; the audit commits as a whole.
func (s *LedgerService) RunAudit(ctx context.Context, req RunAuditRequest) (*AuditResponse, error) {
	counted := make([]inventory.CountedItem, len(req.Items))
	for i, item := range req.Items {
		counted[i] = inventory.CountedItem{
			ProductID:    item.ProductID,
			LocationCode: s.key(req.WarehouseID, item.ProductID, item.LocationCode).LocationCode,
			CountedQty:   item.CountedQty,
		}
	}
	if err := inventory.ValidateCounts(req.WarehouseID, counted, s.cfg.MaxAuditItems); err != nil {
		return nil, err
	}

	audit, err := inventory.NewAudit(req.WarehouseID, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	sort.Slice(counted, func(i, j int) bool {
		return audit.KeyFor(counted[i]).Less(audit.KeyFor(counted[j]))
	})

	var movements []*inventory.Movement
	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		if err := repos.Audits().Create(ctx, audit); err != nil {
			return err
		}

		ledger := s.Bind(repos)
		for _, item := range counted {
			key := audit.KeyFor(item)
			movement, err := ledger.Adjust(ctx, key, item.CountedQty, &audit.ID)
			if err != nil {
				return err
			}
			recorded := audit.Record(key, movement.Before, item.CountedQty)
			if err := repos.Audits().AddItem(ctx, &recorded); err != nil {
				return err
			}
			if movement.Entry != nil {
				movements = append(movements, movement)
			}
		}

		if err := audit.Complete(); err != nil {
			return err
		}
		return repos.Audits().UpdateStatus(ctx, audit)
	})
	if err != nil {
		return nil, err
	}

	s.RecordMovements(ctx, movements...)
	s.logger.Info("Inventory audit completed",
		zap.String("audit_id", audit.ID.String()),
		zap.String("warehouse_id", audit.WarehouseID.String()),
		zap.Int("items", len(audit.Items)),
		zap.Int("adjusted", len(movements)),
	)
	return ToAuditResponse(audit), nil
}

// GetStock reads the quantity at one key
func (s *LedgerService) GetStock(ctx context.Context, warehouseID, productID uuid.UUID, location string) (*StockResponse, error) {
	key := s.key(warehouseID, productID, location)
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var stock *inventory.Stock
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		stock, err = repos.Stocks().Find(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToStockResponse(stock), nil
}

// ListStock lists stock rows
func (s *LedgerService) ListStock(ctx context.Context, filter inventory.StockFilter) (shared.Paginated[StockResponse], error) {
	var page shared.Paginated[inventory.Stock]
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		page, err = repos.Stocks().List(ctx, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[StockResponse]{}, err
	}
	return shared.MapPaginated(page, func(st inventory.Stock) StockResponse {
		return *ToStockResponse(&st)
	}), nil
}

// ListLogs lists ledger entries
func (s *LedgerService) ListLogs(ctx context.Context, filter inventory.LogFilter) (shared.Paginated[LogEntryResponse], error) {
	var page shared.Paginated[inventory.LogEntry]
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		page, err = repos.Logs().List(ctx, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[LogEntryResponse]{}, err
	}
	return shared.MapPaginated(page, ToLogEntryResponse), nil
}

// GetAudit returns an audit with its items
func (s *LedgerService) GetAudit(ctx context.Context, id uuid.UUID) (*AuditResponse, error) {
	var audit *inventory.Audit
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		audit, err = repos.Audits().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToAuditResponse(audit), nil
}

// GetStats summarises inventory, optionally for one warehouse
func (s *LedgerService) GetStats(ctx context.Context, warehouseID *uuid.UUID) (*inventory.Stats, error) {
	var stats *inventory.Stats
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		if stats, err = repos.Stats().Stats(ctx, warehouseID); err != nil {
			return err
		}
		if stats.Flow.Inbound, err = repos.Orders().CountAwaitingStock(ctx, warehouseID, order.InboundTypes...); err != nil {
			return err
		}
		stats.Flow.Outbound, err = repos.Orders().CountAwaitingStock(ctx, warehouseID, order.OutboundTypes...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// VerifyKey recomputes a key's quantity from its ledger entries
func (s *LedgerService) VerifyKey(ctx context.Context, warehouseID, productID uuid.UUID, location string) error {
	key := s.key(warehouseID, productID, location)
	if err := key.Validate(); err != nil {
		return err
	}

	var quantity, sum int64
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		stock, err := repos.Stocks().Find(ctx, key)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			quantity = 0
		case err != nil:
			return err
		default:
			quantity = stock.Quantity
		}
		sum, err = repos.Logs().SumByKey(ctx, key)
		return err
	})
	if err != nil {
		return err
	}

	if quantity != sum {
		s.logger.Error("Inventory ledger out of balance",
			zap.String("key", key.String()),
			zap.Int64("quantity", quantity),
			zap.Int64("ledger_sum", sum),
		)
		return shared.NewConsistencyViolation("stock %s holds %d but ledger sums to %d", key, quantity, sum).
			WithDetail("quantity", quantity).
			WithDetail("ledger_sum", sum)
	}
	return nil
}

// RecordMovements reports committed movements to metrics
func (s *LedgerService) RecordMovements(ctx context.Context, movements ...*inventory.Movement) {
	for _, m := range movements {
		if m == nil || m.Entry == nil {
			continue
		}
		qty := m.Delta()
		if qty < 0 {
			qty = -qty
		}
		s.metrics.RecordStockMovement(ctx, m.Type.String(), qty)
	}
}

// SortKeys orders keys so multi-key callers lock them consistently
func SortKeys(keys []inventory.Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}
