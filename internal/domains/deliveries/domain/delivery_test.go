package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeliveryStartsPending(t *testing.T) {
	delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, delivery.Status)
	assert.Empty(t, delivery.TrackingNumber)
}

func TestNewDeliveryRequiresAddress(t *testing.T) {
	_, err := NewDelivery(uuid.New(), uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestChangeStatusFollowsLifecycle(t *testing.T) {
	delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
	require.NoError(t, err)

	for _, next := range []Status{StatusPreparing, StatusShipped, StatusDelivered} {
		changed, err := delivery.ChangeStatus(next)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, next, delivery.Status)
	}
}

func TestChangeStatusRejectsSkippedStates(t *testing.T) {
	delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
	require.NoError(t, err)

	_, err = delivery.ChangeStatus(StatusShipped)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = delivery.ChangeStatus(StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestChangeStatusNoOpWhenUnchanged(t *testing.T) {
	delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
	require.NoError(t, err)

	changed, err := delivery.ChangeStatus(StatusPending)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestShippingAssignsTrackingNumber(t *testing.T) {
	delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
	require.NoError(t, err)

	_, err = delivery.ChangeStatus(StatusPreparing)
	require.NoError(t, err)
	_, err = delivery.ChangeStatus(StatusShipped)
	require.NoError(t, err)

	wantPrefix := fmt.Sprintf("DEL-%s-", time.Now().UTC().Format("20060102"))
	require.Len(t, delivery.TrackingNumber, len(wantPrefix)+8)
	assert.Equal(t, wantPrefix, delivery.TrackingNumber[:len(wantPrefix)])

	// Delivering keeps the number assigned at ship time.
	tracking := delivery.TrackingNumber
	_, err = delivery.ChangeStatus(StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, tracking, delivery.TrackingNumber)
}

func TestCancelAllowedFromAnyNonTerminalState(t *testing.T) {
	for _, start := range []Status{StatusPending, StatusPreparing, StatusShipped} {
		delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
		require.NoError(t, err)
		for delivery.Status != start {
			_, err = delivery.ChangeStatus(transitions[delivery.Status])
			require.NoError(t, err)
		}

		changed, err := delivery.ChangeStatus(StatusCanceled)
		require.NoError(t, err)
		assert.True(t, changed)
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
	require.NoError(t, err)
	_, err = delivery.ChangeStatus(StatusCanceled)
	require.NoError(t, err)

	_, err = delivery.ChangeStatus(StatusPreparing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	delivery, err := NewDelivery(uuid.New(), uuid.New(), "1 Main Street")
	require.NoError(t, err)

	_, err = delivery.ChangeStatus(Status("Teleported"))
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
