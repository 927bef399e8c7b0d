package models

import (
	"github.com/erp/erpcore/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	BaseModel
	OrderNo       string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type          string           `gorm:"type:varchar(20);not null;index"`
	Status        string           `gorm:"type:varchar(30);not null;index"`
	PaymentStatus string           `gorm:"type:varchar(20);not null"`
	TotalAmount   decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	PartnerID     *uuid.UUID       `gorm:"type:uuid;index"`
	WarehouseID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	CreatedBy     *uuid.UUID       `gorm:"type:uuid"`
	Note          string           `gorm:"type:text"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseEntity:    m.BaseModel.ToDomain(),
		OrderNo:       m.OrderNo,
		Type:          order.Type(m.Type),
		Status:        order.Status(m.Status),
		PaymentStatus: order.PaymentStatus(m.PaymentStatus),
		TotalAmount:   m.TotalAmount,
		PartnerID:     m.PartnerID,
		WarehouseID:   m.WarehouseID,
		CreatedBy:     m.CreatedBy,
		Note:          m.Note,
		Items:         make([]order.Item, len(m.Items)),
	}
	for i, item := range m.Items {
		o.Items[i] = item.ToDomain()
	}
	return o
}

// OrderModelFromDomain creates a persistence model, items included, from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		OrderNo:       o.OrderNo,
		Type:          string(o.Type),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		TotalAmount:   o.TotalAmount,
		PartnerID:     o.PartnerID,
		WarehouseID:   o.WarehouseID,
		CreatedBy:     o.CreatedBy,
		Note:          o.Note,
		Items:         make([]OrderItemModel, len(o.Items)),
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	for i := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i])
	}
	return m
}

// OrderItemModel is one line of an order
type OrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	LocationCode string          `gorm:"type:varchar(50)"`
	Quantity     int64           `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Item
func (m OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ProductID:    m.ProductID,
		LocationCode: m.LocationCode,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		TotalPrice:   m.TotalPrice,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain Item
func OrderItemModelFromDomain(item *order.Item) *OrderItemModel {
	return &OrderItemModel{
		ID:           item.ID,
		OrderID:      item.OrderID,
		ProductID:    item.ProductID,
		LocationCode: item.LocationCode,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		TotalPrice:   item.TotalPrice,
	}
}
