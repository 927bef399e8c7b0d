package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultLocationCode is used when a line item does not name a bin location
const DefaultLocationCode = "DEFAULT"

const maxLocationCodeLength = 50

// Key identifies one stock position: a product at a bin location of a warehouse
type Key struct {
	WarehouseID  uuid.UUID
	ProductID    uuid.UUID
	LocationCode string
}

// NewKey builds a key, trimming the location code
func NewKey(warehouseID, productID uuid.UUID, locationCode string) Key {
	return Key{
		WarehouseID:  warehouseID,
		ProductID:    productID,
		LocationCode: strings.TrimSpace(locationCode),
	}
}

// Validate checks every component of the key is present
func (k Key) Validate() error {
	if k.WarehouseID == uuid.Nil {
		return shared.NewValidationError("warehouse_id is required")
	}
	if k.ProductID == uuid.Nil {
		return shared.NewValidationError("product_id is required")
	}
	if k.LocationCode == "" {
		return shared.NewValidationError("location_code is required")
	}
	if len(k.LocationCode) > maxLocationCodeLength {
		return shared.NewValidationError("location_code must be at most %d characters", maxLocationCodeLength)
	}
	return nil
}

// String renders the key for logs and error details
func (k Key) String() string {
	return fmt.Sprintf("%s/%s@%s", k.WarehouseID, k.ProductID, k.LocationCode)
}

// Less orders keys so that multi-key operations always lock in the same sequence
func (k Key) Less(other Key) bool {
	if c := strings.Compare(k.WarehouseID.String(), other.WarehouseID.String()); c != 0 {
		return c < 0
	}
	if c := strings.Compare(k.ProductID.String(), other.ProductID.String()); c != 0 {
		return c < 0
	}
	return k.LocationCode < other.LocationCode
}

// Stock is the current quantity held at one key
type Stock struct {
	ID        uuid.UUID
	Key       Key
	Quantity  int64
	UpdatedAt time.Time
}

// NewStock creates an empty stock position
func NewStock(key Key) *Stock {
	return &Stock{
		ID:        uuid.New(),
		Key:       key,
		UpdatedAt: time.Now().UTC(),
	}
}

// Consume removes quantity, refusing to go below zero
func (s *Stock) Consume(quantity int64) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if s.Quantity < quantity {
		return NewInsufficientStockError(s.Key, s.Quantity, quantity)
	}
	s.Quantity -= quantity
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Receive adds quantity
func (s *Stock) Receive(quantity int64) error {
	if quantity <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	s.Quantity += quantity
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetCount overwrites the quantity with an authoritative count and returns the delta
func (s *Stock) SetCount(count int64) (int64, error) {
	if count < 0 {
		return 0, shared.NewValidationError("quantity cannot be negative")
	}
	delta := count - s.Quantity
	s.Quantity = count
	s.UpdatedAt = time.Now().UTC()
	return delta, nil
}

// NewInsufficientStockError reports which key lacked stock and by how much
func NewInsufficientStockError(key Key, available, requested int64) *shared.DomainError {
	return shared.NewDomainError(
		shared.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for product %s at %s: available %d, requested %d",
			key.ProductID, key.LocationCode, available, requested),
	).
		WithDetail("warehouse_id", key.WarehouseID.String()).
		WithDetail("product_id", key.ProductID.String()).
		WithDetail("location_code", key.LocationCode).
		WithDetail("available", available).
		WithDetail("requested", requested)
}
