// internal/domain/order/entity.go
package order

import (
	"time"
)

// Status represents the order status. Transitions are server-owned; clients
// only read it.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is part of the status vocabulary.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	case StatusDelivered:
		return next == StatusCompleted
	}
	return false
}

// Order represents a persisted order. Totals are recorded exactly as the
// checkout submitted them and are never recomputed from the live catalog.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"` // Nullable for guest orders
	Status    Status    `gorm:"not null;default:'pending';size:20" json:"status"`
	Total     float64   `gorm:"not null" json:"total"`
	Tax       float64   `json:"tax"`
	Shipping  float64   `json:"shipping"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []LineItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// LineItem is one product line on a persisted order. Price is the unit price
// locked at purchase time, taken from the cart's product snapshot.
type LineItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index:idx_order_product,unique" json:"order_id"`
	ProductID uint    `gorm:"not null;index:idx_order_product,unique" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
}

// TableName overrides
func (Order) TableName() string    { return "orders" }
func (LineItem) TableName() string { return "order_items" }
