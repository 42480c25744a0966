// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Sentinel errors surfaced to the HTTP layer as 404/400 responses.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidAmount   = errors.New("order amounts cannot be negative")
)

// Service handles order persistence and reads.
type Service struct {
	db *gorm.DB
}

// NewService creates a new order service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateOrderInput carries the totals a checkout computed for a new order.
type CreateOrderInput struct {
	UserID   *uint   `json:"user_id,omitempty"`
	Status   Status  `json:"status"`
	Total    float64 `json:"total"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
}

// CreateItemInput carries one order line. Price is the purchase-time unit
// price and is stored as submitted.
type CreateItemInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrder persists a new order row with the submitted totals.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	status := input.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, input.Status)
	}
	if input.Total < 0 || input.Tax < 0 || input.Shipping < 0 {
		return nil, ErrInvalidAmount
	}

	o := Order{
		UserID:   input.UserID,
		Status:   status,
		Total:    input.Total,
		Tax:      input.Tax,
		Shipping: input.Shipping,
	}
	if err := s.db.WithContext(ctx).Create(&o).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &o, nil
}

// AddItem persists one order line after verifying the order and product
// exist. It is idempotent on (orderID, productID): resubmitting the same line
// returns the existing row unchanged, which makes checkout retries safe.
func (s *Service) AddItem(ctx context.Context, orderID uint, input CreateItemInput) (*LineItem, error) {
	var o Order
	if err := s.db.WithContext(ctx).First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	var p catalog.Product
	if err := s.db.WithContext(ctx).First(&p, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	var existing LineItem
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, input.ProductID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing order item: %w", err)
	}

	item := LineItem{
		OrderID:   orderID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Price:     input.Price,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	return &item, nil
}

// GetOrder retrieves an order with its items attached.
func (s *Service) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// GetUserOrders lists a user's orders, newest first.
func (s *Service) GetUserOrders(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status, enforcing the vocabulary and
// the allowed transitions.
func (s *Service) UpdateStatus(ctx context.Context, id uint, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}

	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move from %q to %q", ErrInvalidStatus, o.Status, next)
	}

	if err := s.db.WithContext(ctx).Model(o).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	o.Status = next
	return o, nil
}
