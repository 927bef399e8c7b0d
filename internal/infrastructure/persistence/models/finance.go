package models

import (
	"time"

	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialTransactionModel is one append-only money movement
type FinancialTransactionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	Type          string          `gorm:"type:varchar(20);not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	PartnerID     *uuid.UUID      `gorm:"type:uuid;index"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index"`
	PaymentMethod string          `gorm:"type:varchar(50);not null"`
	Description   string          `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (FinancialTransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *FinancialTransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		ID:            m.ID,
		Type:          finance.TransactionType(m.Type),
		Amount:        m.Amount,
		PartnerID:     m.PartnerID,
		OrderID:       m.OrderID,
		PaymentMethod: m.PaymentMethod,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}
}

// FinancialTransactionModelFromDomain creates a persistence model from a domain Transaction
func FinancialTransactionModelFromDomain(t *finance.Transaction) *FinancialTransactionModel {
	return &FinancialTransactionModel{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		PartnerID:     t.PartnerID,
		OrderID:       t.OrderID,
		PaymentMethod: t.PaymentMethod,
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

// InvoiceModel is the persistence model for invoices
type InvoiceModel struct {
	BaseModel
	InvoiceNo string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID   *uuid.UUID      `gorm:"type:uuid;index"`
	Type      string          `gorm:"type:varchar(30);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Tax       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null"`
	FileURL   string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseEntity: m.BaseModel.ToDomain(),
		InvoiceNo:  m.InvoiceNo,
		OrderID:    m.OrderID,
		Type:       m.Type,
		Amount:     m.Amount,
		Tax:        m.Tax,
		Status:     finance.InvoiceStatus(m.Status),
		FileURL:    m.FileURL,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNo: inv.InvoiceNo,
		OrderID:   inv.OrderID,
		Type:      inv.Type,
		Amount:    inv.Amount,
		Tax:       inv.Tax,
		Status:    string(inv.Status),
		FileURL:   inv.FileURL,
	}
	m.FromDomainBaseEntity(inv.BaseEntity)
	return m
}
