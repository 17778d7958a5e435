package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesQuantities(t *testing.T) {
	cart := NewCart(uuid.New())

	require.NoError(t, cart.AddItem(1, "Mechanical Keyboard", 79.99, 1))
	require.NoError(t, cart.AddItem(1, "Mechanical Keyboard", 84.99, 2))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	// The price snapshot follows the latest add.
	assert.InDelta(t, 84.99, cart.Items[0].UnitPrice, 0.001)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCart(uuid.New())
	assert.ErrorIs(t, cart.AddItem(1, "Keyboard", 79.99, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddItem(1, "Keyboard", 79.99, -2), ErrInvalidQuantity)
}

func TestSetQuantity(t *testing.T) {
	cart := NewCart(uuid.New())
	require.NoError(t, cart.AddItem(1, "Keyboard", 79.99, 1))

	require.NoError(t, cart.SetQuantity(1, 5))
	assert.Equal(t, 5, cart.Items[0].Quantity)

	assert.ErrorIs(t, cart.SetQuantity(2, 1), ErrItemNotFound)
	assert.ErrorIs(t, cart.SetQuantity(1, 0), ErrInvalidQuantity)
}

func TestRemoveItem(t *testing.T) {
	cart := NewCart(uuid.New())
	require.NoError(t, cart.AddItem(1, "Keyboard", 79.99, 1))
	require.NoError(t, cart.AddItem(2, "Mouse", 24.99, 1))

	require.NoError(t, cart.RemoveItem(1))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].ProductID)

	assert.ErrorIs(t, cart.RemoveItem(1), ErrItemNotFound)
}

func TestTotalSumsLineSubtotals(t *testing.T) {
	cart := NewCart(uuid.New())
	require.NoError(t, cart.AddItem(1, "Keyboard", 79.99, 2))
	require.NoError(t, cart.AddItem(2, "Mouse", 24.99, 1))

	assert.InDelta(t, 184.97, cart.Total(), 0.001)
}

func TestClearEmptiesCart(t *testing.T) {
	cart := NewCart(uuid.New())
	require.NoError(t, cart.AddItem(1, "Keyboard", 79.99, 1))

	cart.Clear()
	assert.True(t, cart.Empty())
	assert.Zero(t, cart.Total())
}
