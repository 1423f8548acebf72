package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesisdb/eventsourcing-demo/cart"
	"github.com/genesisdb/eventsourcing-demo/fixtures"
)

func cartStream(events ...fixtures.StreamEvent) *fixtures.StoreSpy {
	subject := "/cart/" + cartID
	return fixtures.NewStoreSpy().WithEvents(subject, fixtures.Stream(subject, events...)...)
}

func TestCartHappyPath(t *testing.T) {
	spy := cartStream(
		fixtures.StreamEvent{Type: cart.EventCartCreated, Payload: cart.CartCreated{CartID: cartID, CreatedAt: "2026-01-01T10:00:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemAdded, Payload: cart.ItemAdded{CartID: cartID, ProductID: "p-1", ProductName: "Coffee", Price: 10, Quantity: 1, AddedAt: "2026-01-01T10:01:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemAdded, Payload: cart.ItemAdded{CartID: cartID, ProductID: "p-1", ProductName: "Coffee", Price: 10, Quantity: 1, AddedAt: "2026-01-01T10:02:00Z"}},
		fixtures.StreamEvent{Type: cart.EventCartCheckedOut, Payload: cart.CartCheckedOut{
			CartID:          cartID,
			ShippingAddress: cart.ShippingAddress{Street: "Main St 1", City: "Berlin", PostalCode: "10115", Country: "DE"},
			CheckedOutAt:    "2026-01-01T10:03:00Z",
		}},
	)

	state, found, err := cart.Projection.State(context.Background(), spy, cartID)
	require.NoError(t, err)
	require.True(t, found)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, 2, state.TotalItems)
	assert.Equal(t, float64(20), state.TotalPrice)
	assert.Equal(t, cart.StatusCheckedOut, state.Status)
	require.NotNil(t, state.ShippingAddress)
	assert.Equal(t, "Berlin", state.ShippingAddress.City)
	require.NotNil(t, state.CheckedOutAt)
	assert.Equal(t, "2026-01-01T10:03:00Z", *state.CheckedOutAt)
	assert.Equal(t, "2026-01-01T10:00:00Z", state.CreatedAt)
	assert.Equal(t, "2026-01-01T10:03:00Z", state.UpdatedAt)
}

func TestCartStartsActive(t *testing.T) {
	spy := cartStream(
		fixtures.StreamEvent{Type: cart.EventCartCreated, Payload: cart.CartCreated{CartID: cartID, CreatedAt: "2026-01-01T10:00:00Z"}},
	)

	state, found, err := cart.Projection.State(context.Background(), spy, cartID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "active", state.Status)
	assert.Nil(t, state.CheckedOutAt)
}

func TestCartFoldIsDeterministic(t *testing.T) {
	spy := cartStream(
		fixtures.StreamEvent{Type: cart.EventCartCreated, Payload: cart.CartCreated{CartID: cartID, CreatedAt: "2026-01-01T10:00:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemAdded, Payload: cart.ItemAdded{CartID: cartID, ProductID: "p-1", ProductName: "Tea", Price: 4, Quantity: 3, AddedAt: "2026-01-01T10:01:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemQuantityChanged, Payload: cart.ItemQuantityChanged{CartID: cartID, ProductID: "p-1", Quantity: 5, ChangedAt: "2026-01-01T10:02:00Z"}},
	)

	first, _, err := cart.Projection.State(context.Background(), spy, cartID)
	require.NoError(t, err)
	second, _, err := cart.Projection.State(context.Background(), spy, cartID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 5, first.TotalItems)
	assert.Equal(t, float64(20), first.TotalPrice)
}

func TestCartIgnoresEventsForMissingProducts(t *testing.T) {
	spy := cartStream(
		fixtures.StreamEvent{Type: cart.EventCartCreated, Payload: cart.CartCreated{CartID: cartID, CreatedAt: "2026-01-01T10:00:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemRemoved, Payload: cart.ItemRemoved{CartID: cartID, ProductID: "ghost", RemovedAt: "2026-01-01T10:01:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemQuantityChanged, Payload: cart.ItemQuantityChanged{CartID: cartID, ProductID: "ghost", Quantity: 9, ChangedAt: "2026-01-01T10:02:00Z"}},
	)

	state, found, err := cart.Projection.State(context.Background(), spy, cartID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.TotalItems)
	assert.Zero(t, state.TotalPrice)
}

func TestCartClearEmptiesItems(t *testing.T) {
	spy := cartStream(
		fixtures.StreamEvent{Type: cart.EventCartCreated, Payload: cart.CartCreated{CartID: cartID, CreatedAt: "2026-01-01T10:00:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemAdded, Payload: cart.ItemAdded{CartID: cartID, ProductID: "p-1", ProductName: "Coffee", Price: 10, Quantity: 2, AddedAt: "2026-01-01T10:01:00Z"}},
		fixtures.StreamEvent{Type: cart.EventCartCleared, Payload: cart.CartCleared{CartID: cartID, ClearedAt: "2026-01-01T10:02:00Z"}},
	)

	state, _, err := cart.Projection.State(context.Background(), spy, cartID)
	require.NoError(t, err)
	assert.Empty(t, state.Items)
	assert.Zero(t, state.TotalItems)
	assert.Equal(t, cart.StatusActive, state.Status)
}

func TestCartAbsentStream(t *testing.T) {
	spy := fixtures.NewStoreSpy()

	_, found, err := cart.Projection.State(context.Background(), spy, cartID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCartHistoryPreservesRemovedItems(t *testing.T) {
	spy := cartStream(
		fixtures.StreamEvent{Type: cart.EventCartCreated, Payload: cart.CartCreated{CartID: cartID, CreatedAt: "2026-01-01T10:00:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemAdded, Payload: cart.ItemAdded{CartID: cartID, ProductID: "p-1", ProductName: "Coffee", Price: 10, Quantity: 1, AddedAt: "2026-01-01T10:01:00Z"}},
		fixtures.StreamEvent{Type: cart.EventItemRemoved, Payload: cart.ItemRemoved{CartID: cartID, ProductID: "p-1", RemovedAt: "2026-01-01T10:02:00Z"}},
	)

	history, err := cart.Projection.History(context.Background(), spy, cartID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, cart.EventItemAdded, history[1].Type)
	assert.Equal(t, cart.EventItemRemoved, history[2].Type)
}
