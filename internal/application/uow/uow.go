// Package uow defines the unit of work every mutating operation runs in.
package uow

import (
	"context"

	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/order"
)

// Repositories exposes every repository bound to the current transaction and namespace
type Repositories interface {
	Stocks() inventory.StockRepository
	Logs() inventory.LogRepository
	Audits() inventory.AuditRepository
	Stats() inventory.StatsRepository
	Orders() order.Repository
	Sequences() order.SequenceRepository
	Transactions() finance.TransactionRepository
	Partners() finance.PartnerRepository
	Invoices() finance.InvoiceRepository
	Approvals() approval.Repository
}

// TransactionScope runs fn atomically inside the tenant namespace bound to ctx.
// If fn returns an error every write made through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
