package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderComputesTotalFromSnapshots(t *testing.T) {
	order, err := NewOrder(uuid.New(), "1 Main Street", []Item{
		{ProductID: 1, ProductName: "Keyboard", UnitPrice: 49.90, Quantity: 2},
		{ProductID: 2, ProductName: "Mouse", UnitPrice: 19.90, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, order.Status)
	assert.InDelta(t, 119.70, order.TotalPrice, 0.001)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestNewOrderValidation(t *testing.T) {
	userID := uuid.New()
	item := Item{ProductID: 1, ProductName: "Keyboard", UnitPrice: 10, Quantity: 1}

	_, err := NewOrder(userID, "  ", []Item{item})
	assert.ErrorIs(t, err, ErrEmptyAddress)

	_, err = NewOrder(userID, "1 Main Street", nil)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder(userID, "1 Main Street", []Item{{ProductID: 1, Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestChangeStatus(t *testing.T) {
	order, err := NewOrder(uuid.New(), "1 Main Street", []Item{{ProductID: 1, UnitPrice: 5, Quantity: 1}})
	require.NoError(t, err)

	changed, err := order.ChangeStatus(StatusPending)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusPending, order.Status)

	// Same status again is a no-op, not an error.
	changed, err = order.ChangeStatus(StatusPending)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = order.ChangeStatus(Status("Exploded"))
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Equal(t, StatusPending, order.Status)
}

func TestStatusForDeliveryUpdate(t *testing.T) {
	order, err := NewOrder(uuid.New(), "1 Main Street", []Item{{ProductID: 1, UnitPrice: 5, Quantity: 1}})
	require.NoError(t, err)
	_, err = order.ChangeStatus(StatusPaid)
	require.NoError(t, err)

	assert.Equal(t, StatusPreparingForDelivery, order.StatusForDeliveryUpdate("Preparing"))
	assert.Equal(t, StatusShipped, order.StatusForDeliveryUpdate("Shipped"))
	assert.Equal(t, StatusDelivered, order.StatusForDeliveryUpdate("Delivered"))
	assert.Equal(t, StatusCancelled, order.StatusForDeliveryUpdate("Canceled"))
	// Unmapped delivery states leave the order untouched.
	assert.Equal(t, StatusPaid, order.StatusForDeliveryUpdate("Pending"))
	assert.Equal(t, StatusPaid, order.StatusForDeliveryUpdate(""))
}
