package contracts

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteRegistryCoversEveryEvent(t *testing.T) {
	seen := make(map[string]bool)
	for _, event := range AllEvents() {
		route, err := RouteFor(event)
		require.NoError(t, err, "event %q must be routed", event.EventName())
		if route.Exchange != ExchangeDefault {
			assert.NotEmpty(t, route.Key, "event %q has an empty routing key", event.EventName())
		}
		assert.False(t, seen[event.EventName()], "duplicate event name %q", event.EventName())
		seen[event.EventName()] = true
	}
	assert.Len(t, seen, len(routes), "registry holds routes for events missing from AllEvents")
}

func TestRouteForStatusEventsUsesLowercaseStatusKey(t *testing.T) {
	route, err := RouteFor(OrderStatusChanged{Status: "Paid"})
	require.NoError(t, err)
	assert.Equal(t, ExchangeOrderEvents, route.Exchange)
	assert.Equal(t, "order.status.paid", route.Key)

	route, err = RouteFor(DeliveryStatusUpdated{Status: "PreparingForDelivery"})
	require.NoError(t, err)
	assert.Equal(t, ExchangeDeliveryEvents, route.Exchange)
	assert.Equal(t, "delivery.status.preparingfordelivery", route.Key)
}

func TestRouteForCheckoutErrorTargetsDefaultExchangeQueue(t *testing.T) {
	route, err := RouteFor(CheckoutError{})
	require.NoError(t, err)
	assert.Equal(t, ExchangeDefault, route.Exchange)
	assert.Equal(t, CheckoutErrorQueue, route.Key)
}

func TestRouteForUnregisteredEvent(t *testing.T) {
	_, err := RouteFor(unknownEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route registered")
}

type unknownEvent struct{}

func (unknownEvent) EventName() string { return "order.exploded" }

func TestOrderCreatedJSONFieldNames(t *testing.T) {
	event := OrderCreated{
		OrderID:         uuid.MustParse("7b9b02bc-3df1-4a10-9a73-2b7f0b65b111"),
		UserID:          uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		DeliveryAddress: "221B Baker Street",
		TotalPrice:      42.50,
		Amount:          42.50,
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"orderId", "userId", "deliveryAddress", "totalPrice", "amount"} {
		assert.Contains(t, fields, key)
	}
}
