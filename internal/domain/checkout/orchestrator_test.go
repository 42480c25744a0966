// internal/domain/checkout/orchestrator_test.go
package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

type mockOrderWriter struct {
	mock.Mock
}

func (m *mockOrderWriter) CreateOrder(ctx context.Context, input order.CreateOrderInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderWriter) AddItem(ctx context.Context, orderID uint, input order.CreateItemInput) (*order.LineItem, error) {
	args := m.Called(ctx, orderID, input)
	if item := args.Get(0); item != nil {
		return item.(*order.LineItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type memStore struct {
	carts map[string]*cart.Cart
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]*cart.Cart)}
}

func (s *memStore) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	if c, ok := s.carts[sessionID]; ok {
		return c, nil
	}
	return cart.New(), nil
}

func (s *memStore) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	s.carts[sessionID] = c
	return nil
}

func (s *memStore) Delete(_ context.Context, sessionID string) error {
	delete(s.carts, sessionID)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testCart(t *testing.T, engine *cart.Engine) *cart.Cart {
	t.Helper()
	c := cart.New()
	engine.AddItem(context.Background(), "s1", c, cart.ProductSnapshot{
		ID: 1, Name: "mug", Slug: "mug", Price: 10.00, InStock: true,
	}, 2)
	engine.AddItem(context.Background(), "s1", c, cart.ProductSnapshot{
		ID: 2, Name: "kettle", Slug: "kettle", Price: 25.00, InStock: true,
	}, 1)
	return c
}

func TestCheckoutEmptyCartRefused(t *testing.T) {
	writer := new(mockOrderWriter)
	engine := cart.NewEngine(newMemStore(), testLogger())
	orch := NewOrchestrator(writer, engine, testLogger())

	attempt := orch.NewAttempt(cart.New(), nil)
	result, err := attempt.Run(context.Background(), "s1")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateFailed, attempt.State())
	writer.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	writer.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHappyPath(t *testing.T) {
	writer := new(mockOrderWriter)
	store := newMemStore()
	engine := cart.NewEngine(store, testLogger())
	orch := NewOrchestrator(writer, engine, testLogger())
	c := testCart(t, engine)

	writer.On("CreateOrder", mock.Anything, mock.MatchedBy(func(input order.CreateOrderInput) bool {
		// Totals pass through exactly as the cart computed them.
		return input.Status == order.StatusPending &&
			input.Total == c.Total && input.Tax == c.Tax && input.Shipping == c.Shipping
	})).Return(&order.Order{ID: 42, Status: order.StatusPending}, nil)
	writer.On("AddItem", mock.Anything, uint(42),
		order.CreateItemInput{ProductID: 1, Quantity: 2, Price: 10.00}).
		Return(&order.LineItem{ID: 1, OrderID: 42, ProductID: 1}, nil)
	writer.On("AddItem", mock.Anything, uint(42),
		order.CreateItemInput{ProductID: 2, Quantity: 1, Price: 25.00}).
		Return(&order.LineItem{ID: 2, OrderID: 42, ProductID: 2}, nil)

	result, err := attemptRun(t, orch, c, "s1")

	require.NoError(t, err)
	assert.Equal(t, uint(42), result.OrderID)
	assert.True(t, c.IsEmpty())
	assert.NotContains(t, store.carts, "s1")
	writer.AssertExpectations(t)
}

func TestCheckoutOrderCreateFailureLeavesCart(t *testing.T) {
	writer := new(mockOrderWriter)
	store := newMemStore()
	engine := cart.NewEngine(store, testLogger())
	orch := NewOrchestrator(writer, engine, testLogger())
	c := testCart(t, engine)

	writer.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, errors.New("database down"))

	attempt := orch.NewAttempt(c, nil)
	result, err := attempt.Run(context.Background(), "s1")

	assert.Nil(t, result)
	var createErr *OrderCreateError
	require.ErrorAs(t, err, &createErr)
	assert.Equal(t, StateFailed, attempt.State())

	// No lines were submitted and the cart is untouched, so retry is safe.
	writer.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, c.Items, 2)
	assert.Contains(t, store.carts, "s1")
}

func TestCheckoutItemFailureYieldsPartialOrder(t *testing.T) {
	writer := new(mockOrderWriter)
	store := newMemStore()
	engine := cart.NewEngine(store, testLogger())
	orch := NewOrchestrator(writer, engine, testLogger())
	c := testCart(t, engine)

	writer.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&order.Order{ID: 42, Status: order.StatusPending}, nil)
	writer.On("AddItem", mock.Anything, uint(42),
		order.CreateItemInput{ProductID: 1, Quantity: 2, Price: 10.00}).
		Return(&order.LineItem{ID: 1, OrderID: 42, ProductID: 1}, nil)
	writer.On("AddItem", mock.Anything, uint(42),
		order.CreateItemInput{ProductID: 2, Quantity: 1, Price: 25.00}).
		Return(nil, errors.New("write conflict"))

	attempt := orch.NewAttempt(c, nil)
	result, err := attempt.Run(context.Background(), "s1")

	assert.Nil(t, result)
	var partialErr *PartialOrderError
	require.ErrorAs(t, err, &partialErr)
	assert.Equal(t, uint(42), partialErr.OrderID)
	assert.Equal(t, []uint{2}, partialErr.FailedProducts)
	assert.Equal(t, StateFailed, attempt.State())

	// The failing line was retried up to the bound.
	writer.AssertNumberOfCalls(t, "AddItem", 1+DefaultItemAttempts)

	// The cart keeps its items for reconciliation.
	assert.Len(t, c.Items, 2)
	assert.Contains(t, store.carts, "s1")
}

func TestCheckoutItemRetrySucceeds(t *testing.T) {
	writer := new(mockOrderWriter)
	engine := cart.NewEngine(newMemStore(), testLogger())
	orch := NewOrchestrator(writer, engine, testLogger())
	c := testCart(t, engine)

	writer.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&order.Order{ID: 42, Status: order.StatusPending}, nil)
	writer.On("AddItem", mock.Anything, uint(42),
		order.CreateItemInput{ProductID: 1, Quantity: 2, Price: 10.00}).
		Return(nil, errors.New("timeout")).Once()
	writer.On("AddItem", mock.Anything, uint(42),
		order.CreateItemInput{ProductID: 1, Quantity: 2, Price: 10.00}).
		Return(&order.LineItem{ID: 1, OrderID: 42, ProductID: 1}, nil).Once()
	writer.On("AddItem", mock.Anything, uint(42),
		order.CreateItemInput{ProductID: 2, Quantity: 1, Price: 25.00}).
		Return(&order.LineItem{ID: 2, OrderID: 42, ProductID: 2}, nil)

	result, err := attemptRun(t, orch, c, "s1")

	require.NoError(t, err)
	assert.Equal(t, uint(42), result.OrderID)
	assert.True(t, c.IsEmpty())
	writer.AssertExpectations(t)
}

func TestCheckoutAttemptSingleUse(t *testing.T) {
	writer := new(mockOrderWriter)
	engine := cart.NewEngine(newMemStore(), testLogger())
	orch := NewOrchestrator(writer, engine, testLogger())

	attempt := orch.NewAttempt(cart.New(), nil)
	_, err := attempt.Run(context.Background(), "s1")
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = attempt.Run(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrAttemptConsumed)
}

func TestCheckoutCarriesUserID(t *testing.T) {
	writer := new(mockOrderWriter)
	engine := cart.NewEngine(newMemStore(), testLogger())
	orch := NewOrchestrator(writer, engine, testLogger())
	c := testCart(t, engine)
	userID := uint(7)

	writer.On("CreateOrder", mock.Anything, mock.MatchedBy(func(input order.CreateOrderInput) bool {
		return input.UserID != nil && *input.UserID == userID
	})).Return(&order.Order{ID: 42, UserID: &userID, Status: order.StatusPending}, nil)
	writer.On("AddItem", mock.Anything, mock.Anything, mock.Anything).
		Return(&order.LineItem{}, nil)

	attempt := orch.NewAttempt(c, &userID)
	result, err := attempt.Run(context.Background(), "s1")

	require.NoError(t, err)
	require.NotNil(t, result.Order.UserID)
	assert.Equal(t, userID, *result.Order.UserID)
	writer.AssertExpectations(t)
}

func attemptRun(t *testing.T, orch *Orchestrator, c *cart.Cart, sessionID string) (*Result, error) {
	t.Helper()
	attempt := orch.NewAttempt(c, nil)
	result, err := attempt.Run(context.Background(), sessionID)
	if err == nil {
		assert.Equal(t, StateSucceeded, attempt.State())
	}
	return result, err
}
