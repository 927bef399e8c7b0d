package inventory

import (
	"time"

	"github.com/google/uuid"
)

// MovementType classifies an inventory log entry
type MovementType string

const (
	MovementInbound     MovementType = "inbound"
	MovementOutbound    MovementType = "outbound"
	MovementTransferIn  MovementType = "transfer_in"
	MovementTransferOut MovementType = "transfer_out"
	MovementAdjustment  MovementType = "adjustment"
)

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementInbound, MovementOutbound, MovementTransferIn, MovementTransferOut, MovementAdjustment:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// LogEntry is one append-only row of the inventory ledger.
// The signed sum of ChangeQty for a key equals that key's stock quantity.
type LogEntry struct {
	ID           uuid.UUID
	WarehouseID  uuid.UUID
	ProductID    uuid.UUID
	LocationCode string
	ChangeQty    int64
	Type         MovementType
	ReferenceID  *uuid.UUID
	CreatedAt    time.Time
}

// NewLogEntry creates a ledger row for a movement at key
func NewLogEntry(key Key, movementType MovementType, changeQty int64, referenceID *uuid.UUID) *LogEntry {
	return &LogEntry{
		ID:           uuid.New(),
		WarehouseID:  key.WarehouseID,
		ProductID:    key.ProductID,
		LocationCode: key.LocationCode,
		ChangeQty:    changeQty,
		Type:         movementType,
		ReferenceID:  referenceID,
		CreatedAt:    time.Now().UTC(),
	}
}

// Key returns the stock key the entry belongs to
func (e *LogEntry) Key() Key {
	return Key{WarehouseID: e.WarehouseID, ProductID: e.ProductID, LocationCode: e.LocationCode}
}

// Movement is the outcome of one ledger operation on a single key.
// Entry is nil when the operation did not change the quantity.
type Movement struct {
	Key    Key
	Type   MovementType
	Before int64
	After  int64
	Entry  *LogEntry
}

// Delta returns the signed change applied to the key
func (m Movement) Delta() int64 {
	return m.After - m.Before
}
