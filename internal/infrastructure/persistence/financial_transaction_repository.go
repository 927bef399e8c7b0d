package persistence

import (
	"context"

	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Append inserts one transaction row
func (r *GormTransactionRepository) Append(ctx context.Context, tx *finance.Transaction) error {
	return r.db.WithContext(ctx).Create(models.FinancialTransactionModelFromDomain(tx)).Error
}

// SumByOrder totals every transaction recorded against orderID
func (r *GormTransactionRepository) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.FinancialTransactionModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("order_id = ?", orderID).
		Scan(&row).Error
	return row.Total, err
}

// List returns a page of transactions
func (r *GormTransactionRepository) List(ctx context.Context, filter finance.TransactionFilter) (shared.Paginated[finance.Transaction], error) {
	page := filter.Filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Type != "" {
			db = db.Where("type = ?", string(filter.Type))
		}
		if filter.PartnerID != nil {
			db = db.Where("partner_id = ?", *filter.PartnerID)
		}
		if filter.OrderID != nil {
			db = db.Where("order_id = ?", *filter.OrderID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return shared.Paginated[finance.Transaction]{}, err
	}

	var rows []models.FinancialTransactionModel
	query := applyOrdering(r.db.WithContext(ctx).Scopes(scope), page, TransactionSortFields, "created_at")
	if err := applyPaging(query, page).Find(&rows).Error; err != nil {
		return shared.Paginated[finance.Transaction]{}, err
	}

	items := make([]finance.Transaction, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)

// GormPartnerRepository implements finance.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// Exists reports whether the partner row exists
func (r *GormPartnerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.PartnerModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// LockByID selects the partner row FOR UPDATE
func (r *GormPartnerRepository) LockByID(ctx context.Context, id uuid.UUID) (*finance.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Clauses(lockForUpdate()).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "partner", id)
	}
	return model.ToDomain(), nil
}

// UpdateBalance writes the partner balance
func (r *GormPartnerRepository) UpdateBalance(ctx context.Context, p *finance.Partner) error {
	result := r.db.WithContext(ctx).
		Model(&models.PartnerModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"balance":    p.Balance,
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("partner", p.ID)
	}
	return nil
}

var _ finance.PartnerRepository = (*GormPartnerRepository)(nil)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts an invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *finance.Invoice) error {
	if err := r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(inv)).Error; err != nil {
		return translateError(err, "invoice", inv.InvoiceNo)
	}
	return nil
}

// FindByID loads one invoice
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "invoice", id)
	}
	return model.ToDomain(), nil
}

// List returns a page of invoices
func (r *GormInvoiceRepository) List(ctx context.Context, filter finance.InvoiceFilter) (shared.Paginated[finance.Invoice], error) {
	page := filter.Filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.OrderID != nil {
			db = db.Where("order_id = ?", *filter.OrderID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", string(filter.Status))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return shared.Paginated[finance.Invoice]{}, err
	}

	var rows []models.InvoiceModel
	query := applyOrdering(r.db.WithContext(ctx).Scopes(scope), page, InvoiceSortFields, "created_at")
	if err := applyPaging(query, page).Find(&rows).Error; err != nil {
		return shared.Paginated[finance.Invoice]{}, err
	}

	items := make([]finance.Invoice, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
