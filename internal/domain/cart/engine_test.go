// internal/domain/cart/engine_test.go
package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	carts     map[string]*Cart
	loadErr   error
	saveErr   error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]*Cart)}
}

func (s *memStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if c, ok := s.carts[sessionID]; ok {
		return c, nil
	}
	return New(), nil
}

func (s *memStore) Save(_ context.Context, sessionID string, c *Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.carts[sessionID] = c
	return nil
}

func (s *memStore) Delete(_ context.Context, sessionID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.carts, sessionID)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testEngine(store Store) *Engine {
	return NewEngine(store, testLogger())
}

func snapshot(id uint, name string, price float64) ProductSnapshot {
	return ProductSnapshot{
		ID:      id,
		Name:    name,
		Slug:    name,
		Price:   price,
		InStock: true,
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Shipping)
	assert.Zero(t, totals.Total)
}

func TestComputeTotalsPricing(t *testing.T) {
	// Two units at 10.00 plus one at 25.00: subtotal 45.00, 8% tax 3.60,
	// free shipping, total 48.60.
	items := []LineItem{
		{ProductID: 1, Quantity: 2, Product: snapshot(1, "mug", 10.00)},
		{ProductID: 2, Quantity: 1, Product: snapshot(2, "kettle", 25.00)},
	}

	totals := ComputeTotals(items)

	assert.InDelta(t, 45.00, totals.Subtotal, 1e-9)
	assert.InDelta(t, 3.60, totals.Tax, 1e-9)
	assert.Zero(t, totals.Shipping)
	assert.InDelta(t, 48.60, totals.Total, 1e-9)
}

func TestAddItemNewProduct(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()

	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.InDelta(t, 20.00, c.Subtotal, 1e-9)
	assert.InDelta(t, 21.60, c.Total, 1e-9)
	assert.False(t, c.Items[0].AddedAt.IsZero())
}

func TestAddItemMergesQuantities(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()

	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 3)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddItemKeepsFirstSnapshot(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()

	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 1)
	// The catalog price changed; the stored snapshot must not move.
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 12.00), 1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.InDelta(t, 10.00, c.Items[0].Product.Price, 1e-9)
	assert.InDelta(t, 20.00, c.Subtotal, 1e-9)
}

func TestAddItemClampsQuantity(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()

	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 0)
	engine.AddItem(context.Background(), "s1", c, snapshot(2, "kettle", 25.00), -3)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestUpdateQuantityReplaces(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)

	engine.UpdateQuantity(context.Background(), "s1", c, 1, 7)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 7, c.Items[0].Quantity)
	assert.InDelta(t, 70.00, c.Subtotal, 1e-9)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)

	engine.UpdateQuantity(context.Background(), "s1", c, 1, 0)

	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Total)
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)

	engine.UpdateQuantity(context.Background(), "s1", c, 1, -4)

	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityAbsentProductNoop(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)

	engine.UpdateQuantity(context.Background(), "s1", c, 99, 5)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)
	engine.AddItem(context.Background(), "s1", c, snapshot(2, "kettle", 25.00), 1)

	engine.RemoveItem(context.Background(), "s1", c, 1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(2), c.Items[0].ProductID)
	assert.InDelta(t, 25.00, c.Subtotal, 1e-9)
}

func TestRemoveAbsentItemNoop(t *testing.T) {
	engine := testEngine(newMemStore())
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)

	engine.RemoveItem(context.Background(), "s1", c, 99)

	require.Len(t, c.Items, 1)
}

func TestClearEmptiesCartAndStore(t *testing.T) {
	store := newMemStore()
	engine := testEngine(store)
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)
	require.Contains(t, store.carts, "s1")

	engine.Clear(context.Background(), "s1", c)

	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Subtotal)
	assert.Zero(t, c.Total)
	assert.NotContains(t, store.carts, "s1")
}

func TestMutationSurvivesStoreFailure(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("redis down")
	engine := testEngine(store)
	c := New()

	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 2)

	// The in-memory mutation is authoritative even though persistence failed.
	require.Len(t, c.Items, 1)
	assert.InDelta(t, 20.00, c.Subtotal, 1e-9)
	assert.Empty(t, store.carts)
}

func TestLoadFailureYieldsEmptyCart(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("redis down")
	engine := testEngine(store)

	c := engine.Load(context.Background(), "s1")

	require.NotNil(t, c)
	assert.True(t, c.IsEmpty())
}

func TestLoadRoundTrip(t *testing.T) {
	store := newMemStore()
	engine := testEngine(store)
	c := New()
	engine.AddItem(context.Background(), "s1", c, snapshot(1, "mug", 10.00), 3)

	restored := engine.Load(context.Background(), "s1")

	require.Len(t, restored.Items, 1)
	assert.Equal(t, 3, restored.Items[0].Quantity)
	assert.InDelta(t, c.Total, restored.Total, 1e-9)
}

func TestItemCount(t *testing.T) {
	c := New()
	assert.Zero(t, c.ItemCount())

	c.Items = []LineItem{
		{ProductID: 1, Quantity: 2, Product: snapshot(1, "mug", 10.00)},
		{ProductID: 2, Quantity: 5, Product: snapshot(2, "kettle", 25.00)},
	}
	assert.Equal(t, 7, c.ItemCount())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.6, Round2(3.6000000000000005))
	assert.Equal(t, 48.6, Round2(48.599999999999994))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 10.56, Round2(10.555000001))
}
