package finance

import (
	"time"

	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordTransactionRequest records an income or expense
type RecordTransactionRequest struct {
	Type          string          `json:"type" binding:"required,oneof=income expense"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PartnerID     *uuid.UUID      `json:"partner_id"`
	OrderID       *uuid.UUID      `json:"order_id"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	Description   string          `json:"description" binding:"max=500"`
}

// RecordExpenseRequest records a categorised expense
type RecordExpenseRequest struct {
	Category      string          `json:"category" binding:"max=50"`
	Description   string          `json:"description" binding:"max=400"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	PartnerID     *uuid.UUID      `json:"partner_id"`
}

// CreateInvoiceRequest issues an invoice
type CreateInvoiceRequest struct {
	OrderID *uuid.UUID      `json:"order_id"`
	Type    string          `json:"type" binding:"required,max=50"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Tax     decimal.Decimal `json:"tax"`
	FileURL string          `json:"file_url" binding:"omitempty,url,max=500"`
}

// TransactionResponse represents a financial transaction in API responses
type TransactionResponse struct {
	ID             uuid.UUID        `json:"id"`
	Type           string           `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	PartnerID      *uuid.UUID       `json:"partner_id,omitempty"`
	OrderID        *uuid.UUID       `json:"order_id,omitempty"`
	PaymentMethod  string           `json:"payment_method"`
	Description    string           `json:"description"`
	CreatedAt      time.Time        `json:"created_at"`
	PartnerBalance *decimal.Decimal `json:"partner_balance,omitempty"`
	PaymentStatus  string           `json:"payment_status,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceNo string          `json:"invoice_no"`
	OrderID   *uuid.UUID      `json:"order_id,omitempty"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Tax       decimal.Decimal `json:"tax"`
	Status    string          `json:"status"`
	FileURL   string          `json:"file_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a posting to its response
func ToTransactionResponse(p *Posting) *TransactionResponse {
	tx := p.Transaction
	resp := &TransactionResponse{
		ID:            tx.ID,
		Type:          tx.Type.String(),
		Amount:        tx.Amount,
		PartnerID:     tx.PartnerID,
		OrderID:       tx.OrderID,
		PaymentMethod: tx.PaymentMethod,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
	}
	if p.Partner != nil {
		balance := p.Partner.Balance
		resp.PartnerBalance = &balance
	}
	if p.Order != nil {
		resp.PaymentStatus = string(p.Order.PaymentStatus)
	}
	return resp
}

// ToInvoiceResponse converts a domain Invoice to its response
func ToInvoiceResponse(inv *finance.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:        inv.ID,
		InvoiceNo: inv.InvoiceNo,
		OrderID:   inv.OrderID,
		Type:      inv.Type,
		Amount:    inv.Amount,
		Tax:       inv.Tax,
		Status:    string(inv.Status),
		FileURL:   inv.FileURL,
		CreatedAt: inv.CreatedAt,
	}
}
