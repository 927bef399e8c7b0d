package finance

import (
	"testing"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	t.Run("defaults payment method", func(t *testing.T) {
		tx, err := NewTransaction(TransactionIncome, decimal.NewFromInt(10), nil, nil, "", "sale")
		require.NoError(t, err)
		assert.Equal(t, DefaultPaymentMethod, tx.PaymentMethod)
		assert.NotEqual(t, uuid.Nil, tx.ID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewTransaction(TransactionIncome, decimal.Zero, nil, nil, "card", "")
		assert.ErrorIs(t, err, shared.ErrValidation)
		_, err = NewTransaction(TransactionExpense, decimal.NewFromInt(-5), nil, nil, "card", "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewTransaction(TransactionType("transfer"), decimal.NewFromInt(1), nil, nil, "", "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestBalanceDelta(t *testing.T) {
	amount := decimal.NewFromInt(30)
	assert.True(t, BalanceDelta(TransactionIncome, amount).Equal(decimal.NewFromInt(-30)))
	assert.True(t, BalanceDelta(TransactionExpense, amount).Equal(decimal.NewFromInt(30)))
}

func TestPartner_Apply(t *testing.T) {
	p := &Partner{ID: uuid.New(), Balance: decimal.NewFromInt(100)}
	tx, err := NewTransaction(TransactionIncome, decimal.NewFromInt(30), &p.ID, nil, "", "")
	require.NoError(t, err)

	p.Apply(tx)
	assert.True(t, p.Balance.Equal(decimal.NewFromInt(70)))
}

func TestExpenseDescription(t *testing.T) {
	assert.Equal(t, "办公费: paper", ExpenseDescription("办公费", "paper"))
	assert.Equal(t, DefaultExpenseCategory+": water", ExpenseDescription("  ", " water "))
}

func TestInvoice(t *testing.T) {
	assert.Equal(t, "INV-000007", InvoiceNo(7))
	assert.Equal(t, "INV-1234567", InvoiceNo(1234567))

	inv, err := NewInvoice(nil, "vat", decimal.NewFromInt(100), decimal.NewFromInt(13), "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceIssued, inv.Status)

	_, err = NewInvoice(nil, "", decimal.NewFromInt(1), decimal.Zero, "")
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = NewInvoice(nil, "vat", decimal.NewFromInt(1), decimal.NewFromInt(-1), "")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
