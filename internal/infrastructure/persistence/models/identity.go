package models

import (
	"time"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/google/uuid"
)

// TenantModel is the persistence model for the shared tenant registry.
// The table lives in the public schema and is never written by the core.
type TenantModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	Name       string     `gorm:"type:varchar(200);not null"`
	SchemaName string     `gorm:"type:varchar(63);not null;uniqueIndex"`
	Status     string     `gorm:"type:varchar(20);not null"`
	PlanID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *tenant.Tenant {
	return &tenant.Tenant{
		ID:         m.ID,
		Name:       m.Name,
		SchemaName: m.SchemaName,
		Status:     tenant.Status(m.Status),
		PlanID:     m.PlanID,
	}
}
