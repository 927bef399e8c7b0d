package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartnerType distinguishes customers from suppliers
type PartnerType string

const (
	PartnerCustomer PartnerType = "customer"
	PartnerSupplier PartnerType = "supplier"
)

// Partner is a counterparty whose running balance is owned by the reconciler
type Partner struct {
	ID        uuid.UUID
	Name      string
	Type      PartnerType
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

// Apply moves the balance by the transaction's delta
func (p *Partner) Apply(tx *Transaction) {
	p.Balance = p.Balance.Add(BalanceDelta(tx.Type, tx.Amount))
	p.UpdatedAt = time.Now().UTC()
}
