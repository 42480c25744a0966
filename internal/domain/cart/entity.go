// internal/domain/cart/entity.go
package cart

import (
	"math"
	"time"
)

// TaxRate is the flat sales tax rate applied to every cart subtotal.
const TaxRate = 0.08

// ShippingCost is the flat shipping charge. Shipping is free for all carts;
// there is no order-value threshold in the pricing function.
const ShippingCost = 0.0

// ProductSnapshot is the cart's copy of a catalog product, captured at the
// moment the item is added. It is never refreshed while the item stays in the
// cart, so its price may diverge from the live catalog.
type ProductSnapshot struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"compare_price,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	InStock      bool     `json:"in_stock"`
}

// LineItem is one product+quantity entry in a cart. Quantity is always >= 1;
// a mutation that would drive it to 0 or below removes the item instead.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
	AddedAt   time.Time       `json:"added_at"`
}

// Cart holds the session's line items and the totals derived from them.
// Subtotal, Tax, Shipping and Total are always recomputed from Items and are
// never mutated independently.
type Cart struct {
	Items     []LineItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Shipping  float64    `json:"shipping"`
	Total     float64    `json:"total"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Totals is the pricing breakdown computed from a set of line items.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// New returns an empty cart with zero totals.
func New() *Cart {
	return &Cart{
		Items:     []LineItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// ComputeTotals derives the pricing breakdown from line items. Values keep
// full float precision; rounding happens only at presentation time.
func ComputeTotals(items []LineItem) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Product.Price * float64(item.Quantity)
	}
	t.Tax = t.Subtotal * TaxRate
	t.Shipping = ShippingCost
	t.Total = t.Subtotal + t.Tax + t.Shipping
	return t
}

// ItemCount returns the sum of all line item quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the line item for productID, or nil if absent.
func (c *Cart) FindItem(productID uint) *LineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// recompute refreshes the derived totals from the current items.
func (c *Cart) recompute() {
	t := ComputeTotals(c.Items)
	c.Subtotal = t.Subtotal
	c.Tax = t.Tax
	c.Shipping = t.Shipping
	c.Total = t.Total
	c.UpdatedAt = time.Now().UTC()
}

// Round2 rounds a monetary value to 2 decimal places for display. Stored
// totals are not rounded between mutations.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
