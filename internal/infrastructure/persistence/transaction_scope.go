package persistence

import (
	"context"

	"github.com/erp/erpcore/internal/application/uow"
	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/order"
	tenantscope "github.com/erp/erpcore/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTransactionScope implements uow.TransactionScope using GORM transactions.
// Each unit of work is bound to the namespace carried by its context before
// any repository statement runs.
type GormTransactionScope struct {
	ndb *tenantscope.NamespaceDB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{ndb: tenantscope.NewNamespaceDB(db)}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos uow.Repositories) error) error {
	return s.ndb.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Stocks() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

func (r *gormTransactionalRepositories) Logs() inventory.LogRepository {
	return NewGormInventoryLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) Audits() inventory.AuditRepository {
	return NewGormInventoryAuditRepository(r.tx)
}

func (r *gormTransactionalRepositories) Stats() inventory.StatsRepository {
	return NewGormInventoryStatsRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Sequences() order.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Transactions() finance.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Partners() finance.PartnerRepository {
	return NewGormPartnerRepository(r.tx)
}

func (r *gormTransactionalRepositories) Invoices() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Approvals() approval.Repository {
	return NewGormApprovalRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ uow.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements Repositories
var _ uow.Repositories = (*gormTransactionalRepositories)(nil)
