package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a money movement
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// IsValid returns true if the transaction type is known
func (t TransactionType) IsValid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

const (
	// DefaultExpenseCategory labels expenses recorded without a category
	DefaultExpenseCategory = "日常运营"
	// DefaultPaymentMethod is cash
	DefaultPaymentMethod = "现金"
)

// Transaction is an append-only financial record
type Transaction struct {
	ID            uuid.UUID
	Type          TransactionType
	Amount        decimal.Decimal
	PartnerID     *uuid.UUID
	OrderID       *uuid.UUID
	PaymentMethod string
	Description   string
	CreatedAt     time.Time
}

// NewTransaction validates and builds a transaction
func NewTransaction(txType TransactionType, amount decimal.Decimal, partnerID, orderID *uuid.UUID, paymentMethod, description string) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewValidationError("unknown transaction type %q", txType)
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("amount must be positive")
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	return &Transaction{
		ID:            uuid.New(),
		Type:          txType,
		Amount:        amount,
		PartnerID:     partnerID,
		OrderID:       orderID,
		PaymentMethod: paymentMethod,
		Description:   description,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// ExpenseDescription prefixes an expense description with its category
func ExpenseDescription(category, description string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultExpenseCategory
	}
	return fmt.Sprintf("%s: %s", category, strings.TrimSpace(description))
}

// BalanceDelta is the change applied to a partner balance by a transaction.
// Income from a partner reduces what they owe; an expense paid to a partner increases it.
func BalanceDelta(txType TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txType == TransactionIncome {
		return amount.Neg()
	}
	return amount
}
