package models

import (
	"github.com/google/uuid"
)

// Order statuses. An order moves pending -> confirmed -> processing ->
// shipped -> delivered; cancelled is reachable from any non-terminal state.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Order is a placed order. Customer contact fields and line items are
// snapshots taken at placement time; later edits to the user or catalog
// never alter them.
type Order struct {
	BaseModel
	OrderNumber     string      `gorm:"uniqueIndex" json:"order_number"`
	UserID          *uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `gorm:"index" json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Items           []OrderItem `json:"items,omitempty"`
	TotalAmount     float64     `json:"total_amount"`
	PaymentMethod   string      `gorm:"default:cod" json:"payment_method"`
	PaymentStatus   string      `gorm:"default:pending" json:"payment_status"`
	Status          string      `gorm:"default:pending;index" json:"status"`
	TrackingNumber  string      `json:"tracking_number"`
	Notes           string      `json:"notes"`
}

// OrderItem is one line of an order, frozen at the price, name, and image
// the product had when the order was placed.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
	Image     string     `json:"image"`
}

// ValidOrderStatus reports whether s is a known fulfillment status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one fulfillment
// status to another. Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}

	switch from {
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}

	if to == OrderStatusCancelled {
		return true
	}

	next := map[string]string{
		OrderStatusPending:    OrderStatusConfirmed,
		OrderStatusConfirmed:  OrderStatusProcessing,
		OrderStatusProcessing: OrderStatusShipped,
		OrderStatusShipped:    OrderStatusDelivered,
	}
	return next[from] == to
}
