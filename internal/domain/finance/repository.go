package finance

import (
	"context"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	shared.Filter
	Type      TransactionType
	PartnerID *uuid.UUID
	OrderID   *uuid.UUID
}

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	OrderID *uuid.UUID
	Status  InvoiceStatus
}

// TransactionRepository appends and reads financial transactions
type TransactionRepository interface {
	Append(ctx context.Context, tx *Transaction) error
	// SumByOrder totals every transaction recorded against the order
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	List(ctx context.Context, filter TransactionFilter) (shared.Paginated[Transaction], error)
}

// PartnerRepository gives the reconciler locked access to balances
type PartnerRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	LockByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	UpdateBalance(ctx context.Context, partner *Partner) error
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) (shared.Paginated[Invoice], error)
}
