// Package order holds the order aggregate and its status machine.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a line of an order
type Item struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	LocationCode string
	Quantity     int64
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
}

// NewItem validates a line and computes its total
func NewItem(productID uuid.UUID, locationCode string, quantity int64, unitPrice decimal.Decimal) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product_id is required")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("unit_price cannot be negative")
	}
	return &Item{
		ID:           uuid.New(),
		ProductID:    productID,
		LocationCode: strings.TrimSpace(locationCode),
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// Location returns the item's bin location, or fallback when none was given
func (i *Item) Location(fallback string) string {
	if i.LocationCode != "" {
		return i.LocationCode
	}
	return fallback
}

// Order is the aggregate root for sales, purchase and return documents
type Order struct {
	shared.BaseEntity
	OrderNo       string
	Type          Type
	Status        Status
	PaymentStatus PaymentStatus
	TotalAmount   decimal.Decimal
	PartnerID     *uuid.UUID
	WarehouseID   uuid.UUID
	CreatedBy     *uuid.UUID
	Note          string
	Items         []Item
}

// NewOrder creates a draft order. Items must be non-empty; the total is the sum of item totals.
func NewOrder(orderType Type, partnerID *uuid.UUID, warehouseID uuid.UUID, items []*Item) (*Order, error) {
	if !orderType.IsValid() {
		return nil, shared.NewValidationError("unknown order type %q", orderType)
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse_id is required")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("order requires at least one item")
	}

	o := &Order{
		BaseEntity:    shared.NewBaseEntity(),
		Type:          orderType,
		Status:        StatusDraft,
		PaymentStatus: PaymentUnpaid,
		PartnerID:     partnerID,
		WarehouseID:   warehouseID,
		TotalAmount:   decimal.Zero,
		Items:         make([]Item, 0, len(items)),
	}
	for _, item := range items {
		item.OrderID = o.ID
		o.Items = append(o.Items, *item)
		o.TotalAmount = o.TotalAmount.Add(item.TotalPrice)
	}
	return o, nil
}

// AssignNumber sets the tenant-unique order number from a sequence value
func (o *Order) AssignNumber(prefix string, seq int64, at time.Time) {
	o.OrderNo = fmt.Sprintf("%s-%s-%06d", prefix, at.Format("20060102"), seq)
}

// TransitionTo moves the order along the status machine
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewValidationError("unknown order status %q", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(o.Status.String(), target.String()).
			WithDetail("order_id", o.ID.String())
	}
	o.Status = target
	o.Touch()
	return nil
}

// CompleteAtCounter completes a draft point-of-sale order in one step
func (o *Order) CompleteAtCounter() error {
	if o.Status != StatusDraft {
		return shared.NewInvalidTransitionError(o.Status.String(), StatusCompleted.String()).
			WithDetail("order_id", o.ID.String())
	}
	o.Status = StatusCompleted
	o.Touch()
	return nil
}

// ItemsTotal recomputes the sum of item totals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// CheckTotal verifies that the stored total matches the items
func (o *Order) CheckTotal() error {
	if sum := o.ItemsTotal(); !sum.Equal(o.TotalAmount) {
		return shared.NewConsistencyViolation("order %s total %s does not match items %s", o.ID, o.TotalAmount, sum)
	}
	return nil
}

// DerivePaymentStatus computes payment status from the amount paid so far
func DerivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	default:
		return PaymentUnpaid
	}
}

// ApplyPayment sets the payment status from the current paid sum
func (o *Order) ApplyPayment(paid decimal.Decimal) {
	o.PaymentStatus = DerivePaymentStatus(paid, o.TotalAmount)
	o.Touch()
}
