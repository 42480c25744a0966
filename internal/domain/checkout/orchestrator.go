// internal/domain/checkout/orchestrator.go
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// State tracks where a checkout attempt is in its lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateSubmittingOrder State = "submitting_order"
	StateSubmittingItems State = "submitting_items"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// DefaultItemAttempts is how many times one order line is submitted before
// the attempt gives up on it.
const DefaultItemAttempts = 3

var (
	// ErrEmptyCart is returned before any collaborator call when the cart has
	// no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrAttemptConsumed is returned when a finished attempt is run again.
	// Every checkout needs a fresh attempt.
	ErrAttemptConsumed = errors.New("checkout attempt already consumed")
)

// OrderCreateError means the order row itself could not be created. No line
// items were submitted and the cart is untouched, so the caller can retry.
type OrderCreateError struct {
	Err error
}

func (e *OrderCreateError) Error() string {
	return fmt.Sprintf("failed to create order: %v", e.Err)
}

func (e *OrderCreateError) Unwrap() error { return e.Err }

// PartialOrderError means the order row exists but one or more line items
// could not be recorded after retries. The cart is deliberately not cleared;
// the order is left pending for reconciliation.
type PartialOrderError struct {
	OrderID        uint
	FailedProducts []uint
	Err            error
}

func (e *PartialOrderError) Error() string {
	return fmt.Sprintf("order %d recorded partially, %d line item(s) failed: %v",
		e.OrderID, len(e.FailedProducts), e.Err)
}

func (e *PartialOrderError) Unwrap() error { return e.Err }

// OrderWriter is the slice of the order service the orchestrator needs.
type OrderWriter interface {
	CreateOrder(ctx context.Context, input order.CreateOrderInput) (*order.Order, error)
	AddItem(ctx context.Context, orderID uint, input order.CreateItemInput) (*order.LineItem, error)
}

// Result reports a completed checkout.
type Result struct {
	OrderID uint         `json:"order_id"`
	Order   *order.Order `json:"order"`
}

// Orchestrator converts a finalized cart into a persisted order plus order
// lines, then clears the cart. The order/items sequence is not atomic across
// the two entity kinds; the partial-failure policy is bounded per-item retry
// (safe because AddItem is idempotent per order+product) with an explicit
// partial-order error when a line still cannot be recorded.
type Orchestrator struct {
	orders       OrderWriter
	carts        *cart.Engine
	logger       *logrus.Logger
	itemAttempts int
}

// NewOrchestrator creates a checkout orchestrator.
func NewOrchestrator(orders OrderWriter, carts *cart.Engine, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		orders:       orders,
		carts:        carts,
		logger:       logger,
		itemAttempts: DefaultItemAttempts,
	}
}

// Attempt is a single-use checkout run. A failed or succeeded attempt cannot
// be re-run; a new checkout starts a brand-new order.
type Attempt struct {
	orch   *Orchestrator
	cart   *cart.Cart
	userID *uint
	state  State
}

// NewAttempt prepares a checkout attempt for the given cart. userID is nil
// for guest sessions.
func (o *Orchestrator) NewAttempt(c *cart.Cart, userID *uint) *Attempt {
	return &Attempt{
		orch:   o,
		cart:   c,
		userID: userID,
		state:  StateIdle,
	}
}

// State returns the attempt's current lifecycle state.
func (a *Attempt) State() State {
	return a.state
}

// Run executes the checkout protocol: validate, create the order, submit one
// line per cart item in cart order, then clear the cart and report the order
// ID. On any failure the cart keeps its items.
func (a *Attempt) Run(ctx context.Context, sessionID string) (*Result, error) {
	if a.state != StateIdle {
		return nil, ErrAttemptConsumed
	}

	if a.cart.IsEmpty() {
		a.state = StateFailed
		return nil, ErrEmptyCart
	}

	a.state = StateSubmittingOrder
	o, err := a.orch.orders.CreateOrder(ctx, order.CreateOrderInput{
		UserID:   a.userID,
		Status:   order.StatusPending,
		Total:    a.cart.Total,
		Tax:      a.cart.Tax,
		Shipping: a.cart.Shipping,
	})
	if err != nil {
		a.state = StateFailed
		return nil, &OrderCreateError{Err: err}
	}

	a.state = StateSubmittingItems
	var failed []uint
	var lastErr error
	for _, item := range a.cart.Items {
		input := order.CreateItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price, // price locked at add-to-cart time
		}
		if err := a.submitItem(ctx, o.ID, input); err != nil {
			failed = append(failed, item.ProductID)
			lastErr = err
		}
	}

	if len(failed) > 0 {
		a.state = StateFailed
		a.orch.logger.WithFields(logrus.Fields{
			"order_id":        o.ID,
			"failed_products": failed,
		}).Error("Checkout recorded a partial order")
		return nil, &PartialOrderError{
			OrderID:        o.ID,
			FailedProducts: failed,
			Err:            lastErr,
		}
	}

	// Every collaborator call succeeded; only now is the cart cleared.
	a.orch.carts.Clear(ctx, sessionID, a.cart)
	a.state = StateSucceeded

	return &Result{OrderID: o.ID, Order: o}, nil
}

// submitItem submits one order line with bounded retries.
func (a *Attempt) submitItem(ctx context.Context, orderID uint, input order.CreateItemInput) error {
	var err error
	for attempt := 1; attempt <= a.orch.itemAttempts; attempt++ {
		if _, err = a.orch.orders.AddItem(ctx, orderID, input); err == nil {
			return nil
		}
		a.orch.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":   orderID,
			"product_id": input.ProductID,
			"attempt":    attempt,
		}).Warn("Order line submission failed")
	}
	return err
}
