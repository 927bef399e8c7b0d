package models

import (
	"time"

	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartnerModel is a customer or supplier with a running balance
type PartnerModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Type      string          `gorm:"type:varchar(20);not null;index"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner
func (m *PartnerModel) ToDomain() *finance.Partner {
	return &finance.Partner{
		ID:        m.ID,
		Name:      m.Name,
		Type:      finance.PartnerType(m.Type),
		Balance:   m.Balance,
		UpdatedAt: m.UpdatedAt,
	}
}
