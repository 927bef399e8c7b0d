package models

import (
	"time"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// TenantTables lists the models that live inside every tenant namespace, in migration order.
func TenantTables() []any {
	return []any{
		&ProductModel{},
		&PartnerModel{},
		&StockModel{},
		&InventoryLogModel{},
		&InventoryAuditModel{},
		&InventoryAuditItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&FinancialTransactionModel{},
		&InvoiceModel{},
		&ApprovalModel{},
		&DocumentSequenceModel{},
	}
}
