package persistence

import (
	"context"
	"time"

	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements inventory.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func keyScope(key inventory.Key) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("warehouse_id = ? AND product_id = ? AND location_code = ?",
			key.WarehouseID, key.ProductID, key.LocationCode)
	}
}

// LockOrCreate inserts a zero row for key unless one exists, then locks the row
func (r *GormStockRepository) LockOrCreate(ctx context.Context, key inventory.Key) (*inventory.Stock, error) {
	model := models.StockModelFromDomain(inventory.NewStock(key))
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "product_id"}, {Name: "location_code"}},
			DoNothing: true,
		}).
		Create(model).Error; err != nil {
		return nil, err
	}
	return r.Lock(ctx, key)
}

// Lock selects the row for key FOR UPDATE
func (r *GormStockRepository) Lock(ctx context.Context, key inventory.Key) (*inventory.Stock, error) {
	var model models.StockModel
	err := r.db.WithContext(ctx).
		Clauses(lockForUpdate()).
		Scopes(keyScope(key)).
		First(&model).Error
	if err != nil {
		return nil, translateError(err, "stock", key.String())
	}
	return model.ToDomain(), nil
}

// Find reads the row for key without locking it
func (r *GormStockRepository) Find(ctx context.Context, key inventory.Key) (*inventory.Stock, error) {
	var model models.StockModel
	if err := r.db.WithContext(ctx).Scopes(keyScope(key)).First(&model).Error; err != nil {
		return nil, translateError(err, "stock", key.String())
	}
	return model.ToDomain(), nil
}

// Save writes the quantity of a locked row
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.Stock) error {
	if stock.UpdatedAt.IsZero() {
		stock.UpdatedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&models.StockModel{}).
		Where("id = ?", stock.ID).
		Updates(map[string]any{
			"quantity":   stock.Quantity,
			"updated_at": stock.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("stock", stock.Key.String())
	}
	return nil
}

// List returns a page of stock positions
func (r *GormStockRepository) List(ctx context.Context, filter inventory.StockFilter) (shared.Paginated[inventory.Stock], error) {
	page := filter.Filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.WarehouseID != nil {
			db = db.Where("warehouse_id = ?", *filter.WarehouseID)
		}
		if filter.ProductID != nil {
			db = db.Where("product_id = ?", *filter.ProductID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.StockModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return shared.Paginated[inventory.Stock]{}, err
	}

	var rows []models.StockModel
	query := applyOrdering(r.db.WithContext(ctx).Scopes(scope), page, StockSortFields, "updated_at")
	if err := applyPaging(query, page).Find(&rows).Error; err != nil {
		return shared.Paginated[inventory.Stock]{}, err
	}

	items := make([]inventory.Stock, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
