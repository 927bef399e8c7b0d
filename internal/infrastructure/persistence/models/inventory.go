package models

import (
	"time"

	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/google/uuid"
)

// StockModel is the persistence model for one stock position
type StockModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	WarehouseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stocks_key,priority:1"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stocks_key,priority:2;index"`
	LocationCode string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_stocks_key,priority:3"`
	Quantity     int64     `gorm:"not null;check:quantity >= 0"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockModel) TableName() string {
	return "stocks"
}

// ToDomain converts the persistence model to a domain Stock
func (m *StockModel) ToDomain() *inventory.Stock {
	return &inventory.Stock{
		ID:        m.ID,
		Key:       inventory.Key{WarehouseID: m.WarehouseID, ProductID: m.ProductID, LocationCode: m.LocationCode},
		Quantity:  m.Quantity,
		UpdatedAt: m.UpdatedAt,
	}
}

// StockModelFromDomain creates a persistence model from a domain Stock
func StockModelFromDomain(s *inventory.Stock) *StockModel {
	return &StockModel{
		ID:           s.ID,
		WarehouseID:  s.Key.WarehouseID,
		ProductID:    s.Key.ProductID,
		LocationCode: s.Key.LocationCode,
		Quantity:     s.Quantity,
		UpdatedAt:    s.UpdatedAt,
	}
}

// InventoryLogModel is one append-only ledger row
type InventoryLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	WarehouseID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_inventory_logs_key,priority:1"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_inventory_logs_key,priority:2"`
	LocationCode string     `gorm:"type:varchar(50);not null;index:idx_inventory_logs_key,priority:3"`
	ChangeQty    int64      `gorm:"not null"`
	Type         string     `gorm:"type:varchar(20);not null;index"`
	ReferenceID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InventoryLogModel) TableName() string {
	return "inventory_logs"
}

// ToDomain converts the persistence model to a domain LogEntry
func (m *InventoryLogModel) ToDomain() *inventory.LogEntry {
	return &inventory.LogEntry{
		ID:           m.ID,
		WarehouseID:  m.WarehouseID,
		ProductID:    m.ProductID,
		LocationCode: m.LocationCode,
		ChangeQty:    m.ChangeQty,
		Type:         inventory.MovementType(m.Type),
		ReferenceID:  m.ReferenceID,
		CreatedAt:    m.CreatedAt,
	}
}

// InventoryLogModelFromDomain creates a persistence model from a domain LogEntry
func InventoryLogModelFromDomain(e *inventory.LogEntry) *InventoryLogModel {
	return &InventoryLogModel{
		ID:           e.ID,
		WarehouseID:  e.WarehouseID,
		ProductID:    e.ProductID,
		LocationCode: e.LocationCode,
		ChangeQty:    e.ChangeQty,
		Type:         string(e.Type),
		ReferenceID:  e.ReferenceID,
		CreatedAt:    e.CreatedAt,
	}
}

// InventoryAuditModel is the header of a stock count
type InventoryAuditModel struct {
	BaseModel
	WarehouseID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Status      string                    `gorm:"type:varchar(20);not null"`
	CreatedBy   *uuid.UUID                `gorm:"type:uuid"`
	CompletedAt *time.Time
	Items       []InventoryAuditItemModel `gorm:"foreignKey:AuditID;references:ID"`
}

// TableName returns the table name for GORM
func (InventoryAuditModel) TableName() string {
	return "inventory_audits"
}

// ToDomain converts the persistence model to a domain Audit
func (m *InventoryAuditModel) ToDomain() *inventory.Audit {
	a := &inventory.Audit{
		BaseEntity:  m.BaseModel.ToDomain(),
		WarehouseID: m.WarehouseID,
		Status:      inventory.AuditStatus(m.Status),
		CreatedBy:   m.CreatedBy,
		CompletedAt: m.CompletedAt,
		Items:       make([]inventory.AuditItem, len(m.Items)),
	}
	for i, item := range m.Items {
		a.Items[i] = item.ToDomain()
	}
	return a
}

// InventoryAuditModelFromDomain creates a header model from a domain Audit, without items
func InventoryAuditModelFromDomain(a *inventory.Audit) *InventoryAuditModel {
	m := &InventoryAuditModel{
		WarehouseID: a.WarehouseID,
		Status:      string(a.Status),
		CreatedBy:   a.CreatedBy,
		CompletedAt: a.CompletedAt,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// InventoryAuditItemModel is one counted line of an audit
type InventoryAuditItemModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	AuditID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null"`
	LocationCode string    `gorm:"type:varchar(50);not null"`
	ExpectedQty  int64     `gorm:"not null"`
	CountedQty   int64     `gorm:"not null"`
	Difference   int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryAuditItemModel) TableName() string {
	return "inventory_audit_items"
}

// ToDomain converts the persistence model to a domain AuditItem
func (m InventoryAuditItemModel) ToDomain() inventory.AuditItem {
	return inventory.AuditItem{
		ID:           m.ID,
		AuditID:      m.AuditID,
		ProductID:    m.ProductID,
		LocationCode: m.LocationCode,
		ExpectedQty:  m.ExpectedQty,
		CountedQty:   m.CountedQty,
		Difference:   m.Difference,
	}
}

// InventoryAuditItemModelFromDomain creates a persistence model from a domain AuditItem
func InventoryAuditItemModelFromDomain(item *inventory.AuditItem) *InventoryAuditItemModel {
	return &InventoryAuditItemModel{
		ID:           item.ID,
		AuditID:      item.AuditID,
		ProductID:    item.ProductID,
		LocationCode: item.LocationCode,
		ExpectedQty:  item.ExpectedQty,
		CountedQty:   item.CountedQty,
		Difference:   item.Difference,
	}
}
