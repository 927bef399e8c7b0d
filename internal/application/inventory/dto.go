package inventory

import (
	"time"

	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/google/uuid"
)

// AdjustStockRequest sets a key to an absolute quantity
type AdjustStockRequest struct {
	WarehouseID  uuid.UUID `json:"warehouse_id" binding:"required"`
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	LocationCode string    `json:"location_code" binding:"max=50"`
	Quantity     *int64    `json:"quantity" binding:"required,min=0"`
	Reason       string    `json:"reason" binding:"max=255"`
}

// MoveStockRequest consumes or receives stock at one key
type MoveStockRequest struct {
	WarehouseID  uuid.UUID  `json:"warehouse_id" binding:"required"`
	ProductID    uuid.UUID  `json:"product_id" binding:"required"`
	LocationCode string     `json:"location_code" binding:"max=50"`
	Quantity     int64      `json:"quantity" binding:"required,gt=0"`
	ReferenceID  *uuid.UUID `json:"reference_id"`
}

// TransferRequest moves stock of one product between locations
type TransferRequest struct {
	ProductID        uuid.UUID `json:"product_id" binding:"required"`
	FromWarehouseID  uuid.UUID `json:"from_warehouse_id" binding:"required"`
	FromLocationCode string    `json:"from_location_code" binding:"max=50"`
	ToWarehouseID    uuid.UUID `json:"to_warehouse_id" binding:"required"`
	ToLocationCode   string    `json:"to_location_code" binding:"max=50"`
	Quantity         int64     `json:"quantity" binding:"required,gt=0"`
}

// AuditCountRequest is one counted key of an audit
type AuditCountRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	LocationCode string    `json:"location_code" binding:"max=50"`
	CountedQty   int64     `json:"counted_qty" binding:"min=0"`
}

// RunAuditRequest submits the counts of one warehouse
type RunAuditRequest struct {
	WarehouseID uuid.UUID           `json:"warehouse_id" binding:"required"`
	Items       []AuditCountRequest `json:"items" binding:"required,min=1,dive"`
	CreatedBy   *uuid.UUID          `json:"-"`
}

// StockResponse represents a stock row in API responses
type StockResponse struct {
	ID           uuid.UUID `json:"id"`
	WarehouseID  uuid.UUID `json:"warehouse_id"`
	ProductID    uuid.UUID `json:"product_id"`
	LocationCode string    `json:"location_code"`
	Quantity     int64     `json:"quantity"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MovementResponse describes the effect of one ledger operation
type MovementResponse struct {
	WarehouseID  uuid.UUID  `json:"warehouse_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	LocationCode string     `json:"location_code"`
	Type         string     `json:"type"`
	Before       int64      `json:"before"`
	After        int64      `json:"after"`
	ChangeQty    int64      `json:"change_qty"`
	EntryID      *uuid.UUID `json:"entry_id,omitempty"`
	ReferenceID  *uuid.UUID `json:"reference_id,omitempty"`
}

// TransferResponse is the matched pair of a transfer
type TransferResponse struct {
	TransferID uuid.UUID        `json:"transfer_id"`
	Out        MovementResponse `json:"out"`
	In         MovementResponse `json:"in"`
}

// LogEntryResponse represents a ledger entry in API responses
type LogEntryResponse struct {
	ID           uuid.UUID  `json:"id"`
	WarehouseID  uuid.UUID  `json:"warehouse_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	LocationCode string     `json:"location_code"`
	ChangeQty    int64      `json:"change_qty"`
	Type         string     `json:"type"`
	ReferenceID  *uuid.UUID `json:"reference_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AuditItemResponse is one counted line of an audit
type AuditItemResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	LocationCode string    `json:"location_code"`
	ExpectedQty  int64     `json:"expected_qty"`
	CountedQty   int64     `json:"counted_qty"`
	Difference   int64     `json:"difference"`
}

// AuditResponse represents an audit with its items
type AuditResponse struct {
	ID          uuid.UUID           `json:"id"`
	WarehouseID uuid.UUID           `json:"warehouse_id"`
	Status      string              `json:"status"`
	CreatedBy   *uuid.UUID          `json:"created_by,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []AuditItemResponse `json:"items"`
}

// ToStockResponse converts a domain Stock to its response
func ToStockResponse(s *inventory.Stock) *StockResponse {
	return &StockResponse{
		ID:           s.ID,
		WarehouseID:  s.Key.WarehouseID,
		ProductID:    s.Key.ProductID,
		LocationCode: s.Key.LocationCode,
		Quantity:     s.Quantity,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToMovementResponse converts a domain Movement to its response
func ToMovementResponse(m *inventory.Movement) *MovementResponse {
	resp := &MovementResponse{
		WarehouseID:  m.Key.WarehouseID,
		ProductID:    m.Key.ProductID,
		LocationCode: m.Key.LocationCode,
		Type:         m.Type.String(),
		Before:       m.Before,
		After:        m.After,
		ChangeQty:    m.Delta(),
	}
	if m.Entry != nil {
		resp.EntryID = &m.Entry.ID
		resp.ReferenceID = m.Entry.ReferenceID
	}
	return resp
}

// ToLogEntryResponse converts a domain LogEntry to its response
func ToLogEntryResponse(e inventory.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:           e.ID,
		WarehouseID:  e.WarehouseID,
		ProductID:    e.ProductID,
		LocationCode: e.LocationCode,
		ChangeQty:    e.ChangeQty,
		Type:         e.Type.String(),
		ReferenceID:  e.ReferenceID,
		CreatedAt:    e.CreatedAt,
	}
}

// ToAuditResponse converts a domain Audit to its response
func ToAuditResponse(a *inventory.Audit) *AuditResponse {
	items := make([]AuditItemResponse, len(a.Items))
	for i, item := range a.Items {
		items[i] = AuditItemResponse{
			ProductID:    item.ProductID,
			LocationCode: item.LocationCode,
			ExpectedQty:  item.ExpectedQty,
			CountedQty:   item.CountedQty,
			Difference:   item.Difference,
		}
	}
	return &AuditResponse{
		ID:          a.ID,
		WarehouseID: a.WarehouseID,
		Status:      string(a.Status),
		CreatedBy:   a.CreatedBy,
		CompletedAt: a.CompletedAt,
		CreatedAt:   a.CreatedAt,
		Items:       items,
	}
}
