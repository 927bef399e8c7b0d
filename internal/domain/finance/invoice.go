package finance

import (
	"fmt"
	"strings"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceSequence is the document sequence invoice numbers are drawn from
const InvoiceSequence = "invoice"

// InvoiceStatus of an invoice
type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "issued"
	InvoiceVoided InvoiceStatus = "voided"
)

// Invoice is a tax document, optionally tied to an order
type Invoice struct {
	shared.BaseEntity
	InvoiceNo string
	OrderID   *uuid.UUID
	Type      string
	Amount    decimal.Decimal
	Tax       decimal.Decimal
	Status    InvoiceStatus
	FileURL   string
}

// NewInvoice builds an issued invoice; the number is assigned separately
func NewInvoice(orderID *uuid.UUID, invoiceType string, amount, tax decimal.Decimal, fileURL string) (*Invoice, error) {
	invoiceType = strings.TrimSpace(invoiceType)
	if invoiceType == "" {
		return nil, shared.NewValidationError("invoice type is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewValidationError("amount cannot be negative")
	}
	if tax.IsNegative() {
		return nil, shared.NewValidationError("tax cannot be negative")
	}
	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Type:       invoiceType,
		Amount:     amount,
		Tax:        tax,
		Status:     InvoiceIssued,
		FileURL:    strings.TrimSpace(fileURL),
	}, nil
}

// InvoiceNo formats a sequence value as an invoice number
func InvoiceNo(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}
