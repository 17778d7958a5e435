package membus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

func TestMatchTopic(t *testing.T) {
	cases := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"order.created", "order.created", true},
		{"order.created", "order.cancelled", false},
		{"order.status.*", "order.status.paid", true},
		{"order.status.*", "order.status.paid.extra", false},
		{"order.status.*", "order.status", false},
		{"order.#", "order.status.paid", true},
		{"order.#", "order", true},
		{"#", "anything.at.all", true},
		{"*.status.*", "order.status.paid", true},
		{"*.status.*", "order.created", false},
		{"payment.#.failed", "payment.gateway.charge.failed", true},
	}
	for _, tc := range cases {
		t.Run(tc.pattern+"/"+tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchTopic(tc.pattern, tc.key))
		})
	}
}

func declareOrderStatusQueue(t *testing.T, bus *Bus) {
	t.Helper()
	err := bus.DeclareTopology(context.Background(), messaging.Topology{
		Exchanges: []string{contracts.ExchangeOrderEvents},
		Queues:    []string{"test.order-status"},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangeOrderEvents, Queue: "test.order-status", Key: contracts.OrderStatusKeyPrefix + "*"},
		},
	})
	require.NoError(t, err)
}

func TestPublishDeliversToMatchingQueue(t *testing.T) {
	bus := New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	declareOrderStatusQueue(t, bus)

	var (
		mu       sync.Mutex
		received []contracts.OrderStatusChanged
	)
	err := bus.Subscribe("test.order-status", messaging.Decode(func(_ context.Context, event contracts.OrderStatusChanged) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	}))
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(), contracts.OrderStatusChanged{
		OrderID: orderID, Status: "Paid", ChangedAt: time.Now(),
	}))
	// Different exchange, must not reach the queue.
	require.NoError(t, bus.DeclareTopology(context.Background(), messaging.Topology{
		Exchanges: []string{contracts.ExchangePaymentEvents},
	}))
	require.NoError(t, bus.Publish(context.Background(), contracts.PaymentCompleted{OrderID: orderID}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, orderID, received[0].OrderID)
	assert.Equal(t, "Paid", received[0].Status)
}

func TestMalformedPayloadIsDroppedNotRedelivered(t *testing.T) {
	bus := New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	declareOrderStatusQueue(t, bus)

	var calls int32
	var mu sync.Mutex
	err := bus.Subscribe("test.order-status", func(_ context.Context, body []byte) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return messaging.ErrDrop
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), contracts.OrderStatusChanged{Status: "Paid"}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, 5*time.Millisecond)

	// Stays at one delivery: dropped messages never come back.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.EqualValues(t, 1, calls)
}

func TestFailingHandlerIsRedeliveredUntilSuccess(t *testing.T) {
	bus := New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	declareOrderStatusQueue(t, bus)

	var (
		mu        sync.Mutex
		attempts  int
		succeeded bool
	)
	err := bus.Subscribe("test.order-status", func(_ context.Context, body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient store failure")
		}
		succeeded = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), contracts.OrderStatusChanged{Status: "Paid"}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return succeeded
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestDefaultExchangePublishTargetsQueueByName(t *testing.T) {
	bus := New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	require.NoError(t, bus.DeclareTopology(context.Background(), messaging.Topology{
		Queues: []string{contracts.CheckoutErrorQueue},
	}))

	var (
		mu       sync.Mutex
		received *contracts.CheckoutError
	)
	err := bus.Subscribe(contracts.CheckoutErrorQueue, messaging.Decode(func(_ context.Context, event contracts.CheckoutError) error {
		mu.Lock()
		defer mu.Unlock()
		received = &event
		return nil
	}))
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(), contracts.CheckoutError{
		UserID: userID, Error: "insufficient stock", Details: "product 7: requested 5, available 2",
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return received != nil
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, userID, received.UserID)
	assert.Equal(t, "insufficient stock", received.Error)
}

func TestPublishToFullQueueFailsInsteadOfBlocking(t *testing.T) {
	bus := New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	require.NoError(t, bus.DeclareTopology(context.Background(), messaging.Topology{
		Queues: []string{contracts.CheckoutErrorQueue},
	}))

	// No subscriber drains the queue, so it fills to capacity. The overflow
	// publish must error out rather than park the publisher on the bus lock.
	event := contracts.CheckoutError{UserID: uuid.New(), Error: "insufficient stock"}
	for i := 0; i < queueDepth; i++ {
		require.NoError(t, bus.Publish(context.Background(), event))
	}
	err := bus.Publish(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is full")
}

func TestSecondSubscriberOnQueueIsRejected(t *testing.T) {
	bus := New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	declareOrderStatusQueue(t, bus)

	noop := func(context.Context, []byte) error { return nil }
	require.NoError(t, bus.Subscribe("test.order-status", noop))
	err := bus.Subscribe("test.order-status", noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a consumer")
}
