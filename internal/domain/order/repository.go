package order

import (
	"context"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows order listings
type Filter struct {
	shared.Filter
	Type          Type
	Status        Status
	PaymentStatus PaymentStatus
	WarehouseID   *uuid.UUID
	PartnerID     *uuid.UUID
	Search        string
}

// Repository persists orders and their items
type Repository interface {
	// Create inserts the order header and all items
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// LockByID loads the order with its items and holds a row lock on the header
	LockByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, order *Order) error
	UpdatePaymentStatus(ctx context.Context, order *Order) error
	List(ctx context.Context, filter Filter) (shared.Paginated[Order], error)
	// CountAwaitingStock counts approved orders of the given types that have not moved stock yet
	CountAwaitingStock(ctx context.Context, warehouseID *uuid.UUID, types ...Type) (int64, error)
}

// SequenceRepository hands out tenant-scoped monotonic counters
type SequenceRepository interface {
	// Next increments and returns the named counter. It must run inside a transaction.
	Next(ctx context.Context, name string) (int64, error)
}

// InboundTypes are order types whose completion receives stock
var InboundTypes = []Type{TypePurchase, TypeReturnSales}

// OutboundTypes are order types whose completion consumes stock
var OutboundTypes = []Type{TypeSales, TypeReturnPurchase}
