package persistence

import (
	"context"

	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInventoryStatsRepository implements inventory.StatsRepository using GORM
type GormInventoryStatsRepository struct {
	db *gorm.DB
}

// NewGormInventoryStatsRepository creates a new GormInventoryStatsRepository
func NewGormInventoryStatsRepository(db *gorm.DB) *GormInventoryStatsRepository {
	return &GormInventoryStatsRepository{db: db}
}

// Stats computes SKU count, stock value and health buckets. Flow counters are left to the caller.
func (r *GormInventoryStatsRepository) Stats(ctx context.Context, warehouseID *uuid.UUID) (*inventory.Stats, error) {
	stats := &inventory.Stats{TotalValue: decimal.Zero}

	skuQuery := r.db.WithContext(ctx).Model(&models.StockModel{})
	if warehouseID != nil {
		skuQuery = skuQuery.Where("warehouse_id = ?", *warehouseID)
	}
	if err := skuQuery.Distinct("product_id").Count(&stats.TotalSKU).Error; err != nil {
		return nil, err
	}

	var value struct {
		TotalValue decimal.Decimal
	}
	valueQuery := r.db.WithContext(ctx).
		Table("stocks AS s").
		Select("COALESCE(SUM(s.quantity * p.cost_price), 0) AS total_value").
		Joins("JOIN products AS p ON p.id = s.product_id")
	if warehouseID != nil {
		valueQuery = valueQuery.Where("s.warehouse_id = ?", *warehouseID)
	}
	if err := valueQuery.Scan(&value).Error; err != nil {
		return nil, err
	}
	stats.TotalValue = value.TotalValue

	var levels []struct {
		ProductID        uuid.UUID
		Quantity         int64
		SafetyStockLevel int64
	}
	join := "LEFT JOIN stocks AS s ON s.product_id = p.id"
	var joinArgs []any
	if warehouseID != nil {
		join += " AND s.warehouse_id = ?"
		joinArgs = append(joinArgs, *warehouseID)
	}
	if err := r.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id AS product_id, COALESCE(SUM(s.quantity), 0) AS quantity, p.safety_stock_level AS safety_stock_level").
		Joins(join, joinArgs...).
		Group("p.id, p.safety_stock_level").
		Scan(&levels).Error; err != nil {
		return nil, err
	}

	productLevels := make([]inventory.ProductLevel, len(levels))
	for i, l := range levels {
		productLevels[i] = inventory.ProductLevel{
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			SafetyStockLevel: l.SafetyStockLevel,
		}
	}
	stats.Health = inventory.ClassifyHealth(productLevels)
	return stats, nil
}

var _ inventory.StatsRepository = (*GormInventoryStatsRepository)(nil)
