package inventory

import (
	"time"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// AuditStatus represents the status of an inventory audit
type AuditStatus string

const (
	AuditStatusPending   AuditStatus = "pending"
	AuditStatusCompleted AuditStatus = "completed"
)

// CountedItem is one physical count submitted for an audit
type CountedItem struct {
	ProductID    uuid.UUID
	LocationCode string
	CountedQty   int64
}

// AuditItem records what the ledger expected and what was counted
type AuditItem struct {
	ID           uuid.UUID
	AuditID      uuid.UUID
	ProductID    uuid.UUID
	LocationCode string
	ExpectedQty  int64
	CountedQty   int64
	Difference   int64
}

// Audit is a stock count of one warehouse
type Audit struct {
	shared.BaseEntity
	WarehouseID uuid.UUID
	Status      AuditStatus
	CreatedBy   *uuid.UUID
	CompletedAt *time.Time
	Items       []AuditItem
}

// NewAudit starts a pending audit
func NewAudit(warehouseID uuid.UUID, createdBy *uuid.UUID) (*Audit, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("warehouse_id is required")
	}
	return &Audit{
		BaseEntity:  shared.NewBaseEntity(),
		WarehouseID: warehouseID,
		Status:      AuditStatusPending,
		CreatedBy:   createdBy,
	}, nil
}

// KeyFor returns the stock key of a counted item within this audit's warehouse
func (a *Audit) KeyFor(item CountedItem) Key {
	return NewKey(a.WarehouseID, item.ProductID, item.LocationCode)
}

// Record appends the outcome of counting one key
func (a *Audit) Record(key Key, expected, counted int64) AuditItem {
	item := AuditItem{
		ID:           uuid.New(),
		AuditID:      a.ID,
		ProductID:    key.ProductID,
		LocationCode: key.LocationCode,
		ExpectedQty:  expected,
		CountedQty:   counted,
		Difference:   counted - expected,
	}
	a.Items = append(a.Items, item)
	return item
}

// Complete closes the audit
func (a *Audit) Complete() error {
	if a.Status != AuditStatusPending {
		return shared.NewInvalidTransitionError(string(a.Status), string(AuditStatusCompleted))
	}
	now := time.Now().UTC()
	a.Status = AuditStatusCompleted
	a.CompletedAt = &now
	a.Touch()
	return nil
}

// ValidateCounts checks a batch of counts before any stock is touched
func ValidateCounts(warehouseID uuid.UUID, items []CountedItem, maxItems int) error {
	if len(items) == 0 {
		return shared.NewValidationError("audit requires at least one counted item")
	}
	if maxItems > 0 && len(items) > maxItems {
		return shared.NewValidationError("audit has %d items, at most %d allowed per audit", len(items), maxItems)
	}
	seen := make(map[Key]struct{}, len(items))
	for i, item := range items {
		key := NewKey(warehouseID, item.ProductID, item.LocationCode)
		if err := key.Validate(); err != nil {
			return err
		}
		if item.CountedQty < 0 {
			return shared.NewValidationError("items[%d].counted_qty cannot be negative", i)
		}
		if _, dup := seen[key]; dup {
			return shared.NewValidationError("items[%d] duplicates %s", i, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
