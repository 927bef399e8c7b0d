package order

// Type is the business kind of an order
type Type string

const (
	TypeSales          Type = "sales"
	TypePurchase       Type = "purchase"
	TypeReturnSales    Type = "return_sales"
	TypeReturnPurchase Type = "return_purchase"
)

// IsValid returns true if the order type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeSales, TypePurchase, TypeReturnSales, TypeReturnPurchase:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// NumberPrefix returns the order number prefix for the type
func (t Type) NumberPrefix() string {
	switch t {
	case TypeSales:
		return "SO"
	case TypePurchase:
		return "PO"
	case TypeReturnSales:
		return "SR"
	case TypeReturnPurchase:
		return "PR"
	}
	return "OR"
}

// StockEffect is the ledger operation an order applies per item on completion
type StockEffect string

const (
	EffectConsume StockEffect = "consume"
	EffectReceive StockEffect = "receive"
)

// StockEffect returns how completing an order of this type moves stock
func (t Type) StockEffect() StockEffect {
	switch t {
	case TypeSales, TypeReturnPurchase:
		return EffectConsume
	default:
		return EffectReceive
	}
}

// Status represents the lifecycle status of an order
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// transitions is the closed edge set of the order state machine.
// completed -> cancelled is deliberately absent: a completed order is reversed
// with a return order or an audit, never by cancellation.
var transitions = map[Status][]Status{
	StatusDraft:           {StatusPendingApproval, StatusCancelled},
	StatusPendingApproval: {StatusApproved, StatusRejected, StatusDraft},
	StatusRejected:        {StatusDraft},
	StatusApproved:        {StatusCompleted, StatusCancelled},
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// PaymentStatus is derived from the transactions recorded against an order
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}
