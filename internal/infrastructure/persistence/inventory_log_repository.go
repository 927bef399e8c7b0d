package persistence

import (
	"context"

	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryLogRepository implements inventory.LogRepository using GORM.
// The ledger is append-only: there is no update or delete path.
type GormInventoryLogRepository struct {
	db *gorm.DB
}

// NewGormInventoryLogRepository creates a new GormInventoryLogRepository
func NewGormInventoryLogRepository(db *gorm.DB) *GormInventoryLogRepository {
	return &GormInventoryLogRepository{db: db}
}

// Append inserts ledger rows in one statement
func (r *GormInventoryLogRepository) Append(ctx context.Context, entries ...*inventory.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.InventoryLogModel, len(entries))
	for i, e := range entries {
		rows[i] = models.InventoryLogModelFromDomain(e)
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

// SumByKey returns the signed sum of change_qty recorded for key
func (r *GormInventoryLogRepository) SumByKey(ctx context.Context, key inventory.Key) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryLogModel{}).
		Scopes(keyScope(key)).
		Select("COALESCE(SUM(change_qty), 0)").
		Scan(&sum).Error
	return sum, err
}

// List returns a page of ledger rows, newest first by default
func (r *GormInventoryLogRepository) List(ctx context.Context, filter inventory.LogFilter) (shared.Paginated[inventory.LogEntry], error) {
	page := filter.Filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.WarehouseID != nil {
			db = db.Where("warehouse_id = ?", *filter.WarehouseID)
		}
		if filter.ProductID != nil {
			db = db.Where("product_id = ?", *filter.ProductID)
		}
		if filter.Type != "" {
			db = db.Where("type = ?", string(filter.Type))
		}
		if filter.ReferenceID != nil {
			db = db.Where("reference_id = ?", *filter.ReferenceID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InventoryLogModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return shared.Paginated[inventory.LogEntry]{}, err
	}

	var rows []models.InventoryLogModel
	query := applyOrdering(r.db.WithContext(ctx).Scopes(scope), page, InventoryLogSortFields, "created_at")
	if err := applyPaging(query, page).Find(&rows).Error; err != nil {
		return shared.Paginated[inventory.LogEntry]{}, err
	}

	items := make([]inventory.LogEntry, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

var _ inventory.LogRepository = (*GormInventoryLogRepository)(nil)
