package order

import (
	"time"

	"github.com/erp/erpcore/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	LocationCode string          `json:"location_code" binding:"max=50"`
	Quantity     int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest creates a draft order
type CreateOrderRequest struct {
	Type        string             `json:"type" binding:"required,oneof=sales purchase return_sales return_purchase"`
	PartnerID   *uuid.UUID         `json:"partner_id"`
	WarehouseID uuid.UUID          `json:"warehouse_id" binding:"required"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Note        string             `json:"note" binding:"max=500"`
	CreatedBy   *uuid.UUID         `json:"-"`
}

// UpdateStatusRequest moves an order along its status machine
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// POSCheckoutRequest sells goods over the counter in one step
type POSCheckoutRequest struct {
	WarehouseID    uuid.UUID          `json:"warehouse_id" binding:"required"`
	PartnerID      *uuid.UUID         `json:"partner_id"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod  string             `json:"payment_method" binding:"max=50"`
	Cashier        *uuid.UUID         `json:"-"`
	IdempotencyKey string             `json:"-"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	LocationCode string          `json:"location_code,omitempty"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNo       string              `json:"order_no"`
	Type          string              `json:"type"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PartnerID     *uuid.UUID          `json:"partner_id,omitempty"`
	WarehouseID   uuid.UUID           `json:"warehouse_id"`
	CreatedBy     *uuid.UUID          `json:"created_by,omitempty"`
	Note          string              `json:"note,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// POSCheckoutResponse is the completed sale and its payment
type POSCheckoutResponse struct {
	Order         OrderResponse `json:"order"`
	TransactionID uuid.UUID     `json:"transaction_id"`
}

// ToOrderResponse converts a domain Order to its response
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			LocationCode: item.LocationCode,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
		}
	}
	return &OrderResponse{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		Type:          o.Type.String(),
		Status:        o.Status.String(),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount,
		PartnerID:     o.PartnerID,
		WarehouseID:   o.WarehouseID,
		CreatedBy:     o.CreatedBy,
		Note:          o.Note,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
