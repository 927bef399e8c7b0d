package inventory

import (
	"context"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// StockFilter narrows stock listings
type StockFilter struct {
	shared.Filter
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
}

// LogFilter narrows ledger listings
type LogFilter struct {
	shared.Filter
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
	Type        MovementType
	ReferenceID *uuid.UUID
}

// StockRepository persists stock positions.
// Lock methods take a row lock held until the surrounding transaction ends.
type StockRepository interface {
	// LockOrCreate materialises a zero row for key when absent, then locks it
	LockOrCreate(ctx context.Context, key Key) (*Stock, error)
	// Lock locks an existing row, returning shared.ErrNotFound when key has no row
	Lock(ctx context.Context, key Key) (*Stock, error)
	// Find reads a row without locking it
	Find(ctx context.Context, key Key) (*Stock, error)
	// Save writes the quantity of a previously locked row
	Save(ctx context.Context, stock *Stock) error
	List(ctx context.Context, filter StockFilter) (shared.Paginated[Stock], error)
}

// LogRepository appends to and reads the inventory ledger. There is no update or delete.
type LogRepository interface {
	Append(ctx context.Context, entries ...*LogEntry) error
	List(ctx context.Context, filter LogFilter) (shared.Paginated[LogEntry], error)
	SumByKey(ctx context.Context, key Key) (int64, error)
}

// AuditRepository persists audits and their items
type AuditRepository interface {
	Create(ctx context.Context, audit *Audit) error
	AddItem(ctx context.Context, item *AuditItem) error
	UpdateStatus(ctx context.Context, audit *Audit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Audit, error)
}

// StatsRepository computes inventory statistics
type StatsRepository interface {
	Stats(ctx context.Context, warehouseID *uuid.UUID) (*Stats, error)
}
