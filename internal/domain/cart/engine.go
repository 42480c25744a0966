// internal/domain/cart/engine.go
package cart

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine maintains a session's cart and its derived totals. Mutations are
// applied synchronously in memory and are authoritative; the durability write
// that follows each mutation is best-effort and never reverts a mutation.
type Engine struct {
	store  Store
	logger *logrus.Logger
}

// NewEngine creates a cart engine backed by the given store.
func NewEngine(store Store, logger *logrus.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// Load restores the session's cart from the store. A store failure yields an
// empty cart so the session can keep going.
func (e *Engine) Load(ctx context.Context, sessionID string) *Cart {
	c, err := e.store.Load(ctx, sessionID)
	if err != nil {
		e.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to restore cart, starting empty")
		return New()
	}
	return c
}

// AddItem adds quantity units of product to the cart. A quantity below 1 is
// clamped to 1. If the product is already in the cart the quantities merge and
// the stored snapshot is kept as-is; the first-seen snapshot wins for as long
// as the item stays in the cart.
func (e *Engine) AddItem(ctx context.Context, sessionID string, c *Cart, product ProductSnapshot, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	if item := c.FindItem(product.ID); item != nil {
		item.Quantity += quantity
	} else {
		c.Items = append(c.Items, LineItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Product:   product,
			AddedAt:   time.Now().UTC(),
		})
	}

	c.recompute()
	e.persist(ctx, sessionID, c)
}

// RemoveItem removes the line item for productID. Removing an absent product
// is a no-op, not an error.
func (e *Engine) RemoveItem(ctx context.Context, sessionID string, c *Cart, productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}

	c.recompute()
	e.persist(ctx, sessionID, c)
}

// UpdateQuantity replaces the quantity of the line item for productID.
// A quantity of 0 or below removes the item entirely. Updating an absent
// product is a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, sessionID string, c *Cart, productID uint, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(ctx, sessionID, c, productID)
		return
	}

	item := c.FindItem(productID)
	if item == nil {
		return
	}
	item.Quantity = quantity

	c.recompute()
	e.persist(ctx, sessionID, c)
}

// Clear resets the cart to empty with zero totals and evicts the stored copy.
func (e *Engine) Clear(ctx context.Context, sessionID string, c *Cart) {
	c.Items = []LineItem{}
	c.recompute()

	if err := e.store.Delete(ctx, sessionID); err != nil {
		e.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to evict stored cart")
	}
}

// persist writes the cart through the store. Failures are logged and ignored:
// the in-memory mutation already settled and stays authoritative.
func (e *Engine) persist(ctx context.Context, sessionID string, c *Cart) {
	if err := e.store.Save(ctx, sessionID, c); err != nil {
		e.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to persist cart")
	}
}
