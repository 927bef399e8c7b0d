package inventory

import (
	"context"
	"errors"

	"github.com/erp/erpcore/internal/application/uow"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// BoundLedger applies ledger operations through the repositories of an open unit of work.
// Callers that already hold a transaction (order completion, POS checkout) use it so
// stock moves commit or roll back together with their own writes.
type BoundLedger struct {
	repos   uow.Repositories
	metrics Metrics
}

// Bind returns a ledger operating inside repos' transaction
func (s *LedgerService) Bind(repos uow.Repositories) *BoundLedger {
	return &BoundLedger{repos: repos, metrics: s.metrics}
}

// Consume decrements key by quantity. A missing key has nothing available.
func (l *BoundLedger) Consume(ctx context.Context, key inventory.Key, quantity int64, referenceID *uuid.UUID) (*inventory.Movement, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}

	stock, err := l.repos.Stocks().Lock(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			l.metrics.RecordInsufficientStock(ctx)
			return nil, inventory.NewInsufficientStockError(key, 0, quantity)
		}
		return nil, err
	}

	before := stock.Quantity
	if err := stock.Consume(quantity); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			l.metrics.RecordInsufficientStock(ctx)
		}
		return nil, err
	}
	return l.write(ctx, stock, inventory.MovementOutbound, before, referenceID)
}

// Receive increments key by quantity, creating the key when absent
func (l *BoundLedger) Receive(ctx context.Context, key inventory.Key, quantity int64, referenceID *uuid.UUID) (*inventory.Movement, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}

	stock, err := l.repos.Stocks().LockOrCreate(ctx, key)
	if err != nil {
		return nil, err
	}
	before := stock.Quantity
	if err := stock.Receive(quantity); err != nil {
		return nil, err
	}
	return l.write(ctx, stock, inventory.MovementInbound, before, referenceID)
}

// Adjust overwrites the quantity at key. A zero delta writes nothing and
// returns a movement without an entry.
func (l *BoundLedger) Adjust(ctx context.Context, key inventory.Key, newQuantity int64, referenceID *uuid.UUID) (*inventory.Movement, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if newQuantity < 0 {
		return nil, shared.NewValidationError("quantity cannot be negative")
	}

	stock, err := l.repos.Stocks().LockOrCreate(ctx, key)
	if err != nil {
		return nil, err
	}
	before := stock.Quantity
	delta, err := stock.SetCount(newQuantity)
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return &inventory.Movement{Key: key, Type: inventory.MovementAdjustment, Before: before, After: before}, nil
	}
	return l.write(ctx, stock, inventory.MovementAdjustment, before, referenceID)
}

// Transfer moves quantity between two keys of the same product.
// Both rows are locked in key order before either is touched.
func (l *BoundLedger) Transfer(ctx context.Context, from, to inventory.Key, quantity int64) (*TransferResult, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, err
	}
	if from == to {
		return nil, shared.NewValidationError("source and destination must differ")
	}
	if from.ProductID != to.ProductID {
		return nil, shared.NewValidationError("transfer cannot change the product")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}

	stocks := l.repos.Stocks()
	var source, dest *inventory.Stock
	var err error
	if from.Less(to) {
		if source, err = l.lockSource(ctx, from, quantity); err != nil {
			return nil, err
		}
		if dest, err = stocks.LockOrCreate(ctx, to); err != nil {
			return nil, err
		}
	} else {
		if dest, err = stocks.LockOrCreate(ctx, to); err != nil {
			return nil, err
		}
		if source, err = l.lockSource(ctx, from, quantity); err != nil {
			return nil, err
		}
	}

	transferID := uuid.New()
	sourceBefore, destBefore := source.Quantity, dest.Quantity
	if err := source.Consume(quantity); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			l.metrics.RecordInsufficientStock(ctx)
		}
		return nil, err
	}
	if err := dest.Receive(quantity); err != nil {
		return nil, err
	}

	out, err := l.write(ctx, source, inventory.MovementTransferOut, sourceBefore, &transferID)
	if err != nil {
		return nil, err
	}
	in, err := l.write(ctx, dest, inventory.MovementTransferIn, destBefore, &transferID)
	if err != nil {
		return nil, err
	}
	return &TransferResult{TransferID: transferID, Out: out, In: in}, nil
}

// lockSource locks the source row, failing when it cannot cover quantity
func (l *BoundLedger) lockSource(ctx context.Context, key inventory.Key, quantity int64) (*inventory.Stock, error) {
	stock, err := l.repos.Stocks().Lock(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			l.metrics.RecordInsufficientStock(ctx)
			return nil, inventory.NewInsufficientStockError(key, 0, quantity)
		}
		return nil, err
	}
	return stock, nil
}

// write persists a changed stock row and appends its ledger entry
func (l *BoundLedger) write(ctx context.Context, stock *inventory.Stock, movementType inventory.MovementType, before int64, referenceID *uuid.UUID) (*inventory.Movement, error) {
	if err := l.repos.Stocks().Save(ctx, stock); err != nil {
		return nil, err
	}
	entry := inventory.NewLogEntry(stock.Key, movementType, stock.Quantity-before, referenceID)
	if err := l.repos.Logs().Append(ctx, entry); err != nil {
		return nil, err
	}
	return &inventory.Movement{
		Key:    stock.Key,
		Type:   movementType,
		Before: before,
		After:  stock.Quantity,
		Entry:  entry,
	}, nil
}

// TransferResult is the matched pair of movements of one transfer
type TransferResult struct {
	TransferID uuid.UUID
	Out        *inventory.Movement
	In         *inventory.Movement
}
