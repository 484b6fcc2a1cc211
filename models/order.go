package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type OrderItemStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	OrderItemStatusPending    OrderItemStatus = "pending"
	OrderItemStatusProcessing OrderItemStatus = "processing"
	OrderItemStatusShipped    OrderItemStatus = "shipped"
	OrderItemStatusDelivered  OrderItemStatus = "delivered"
	OrderItemStatusCancelled  OrderItemStatus = "cancelled"
)

// orderTransitions is the allowed-transition table for Order.Status.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered, OrderStatusCancelled},
}

// orderItemTransitions is the allowed-transition table for OrderItem.Status.
// Items move pending -> processing -> shipped -> delivered; cancellation is
// reachable from any non-terminal state. One order can hold items in
// different states at once (multi-vendor orders ship independently).
var orderItemTransitions = map[OrderItemStatus][]OrderItemStatus{
	OrderItemStatusPending:    {OrderItemStatusProcessing, OrderItemStatusCancelled},
	OrderItemStatusProcessing: {OrderItemStatusShipped, OrderItemStatusCancelled},
	OrderItemStatusShipped:    {OrderItemStatusDelivered, OrderItemStatusCancelled},
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

func ParseOrderItemStatus(s string) (OrderItemStatus, bool) {
	switch OrderItemStatus(s) {
	case OrderItemStatusPending, OrderItemStatusProcessing, OrderItemStatusShipped,
		OrderItemStatusDelivered, OrderItemStatusCancelled:
		return OrderItemStatus(s), true
	}
	return "", false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderItemStatus) CanTransitionTo(next OrderItemStatus) bool {
	for _, allowed := range orderItemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	UserID            uint             `gorm:"not null;index" json:"user_id"`
	User              User             `gorm:"foreignKey:UserID" json:"-"`
	Items             []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddressID *uint            `json:"shipping_address_id"`
	ShippingAddress   *ShippingAddress `gorm:"foreignKey:ShippingAddressID;constraint:OnDelete:SET NULL" json:"shipping_address,omitempty"`
	Total             decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"total"`
	Status            OrderStatus      `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	IsPaid            bool             `gorm:"default:false" json:"is_paid"`
	PaidAt            *time.Time       `json:"paid_at,omitempty"`
	IsDelivered       bool             `gorm:"default:false" json:"is_delivered"`
	DeliveredAt       *time.Time       `json:"delivered_at,omitempty"`
	PaymentMethod     string           `gorm:"type:VARCHAR(30);default:'simulated'" json:"payment_method"`
	PaymentReference  string           `gorm:"type:VARCHAR(100)" json:"payment_reference,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index" json:"order_id"`
	// Products referenced by order items are protected from deletion.
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	// Price and quantity are frozen from the cart at order time.
	Price  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Status OrderItemStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	// VendorID and VendorEmail duplicate Product.Vendor for fast
	// per-vendor queries on the dashboard.
	VendorID    uint   `gorm:"index" json:"vendor_id"`
	VendorEmail string `json:"vendor_email"`
}
