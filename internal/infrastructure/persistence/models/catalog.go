package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the read side of the tenant product catalog.
// Only cost price and safety stock level are consumed, by inventory statistics.
type ProductModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	Name             string          `gorm:"type:varchar(200);not null"`
	SKU              string          `gorm:"column:sku;type:varchar(100);uniqueIndex"`
	CostPrice        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	SafetyStockLevel int64           `gorm:"not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}
