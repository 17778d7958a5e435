//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package rabbit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

func setupBroker(t *testing.T) *Broker {
	t.Helper()
	ctx := context.Background()

	container, err := tcrabbitmq.Run(ctx, "rabbitmq:3.12-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.AmqpURL(ctx)
	require.NoError(t, err)

	broker, err := Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = broker.Close() })
	return broker
}

func TestBroker_PublishSubscribeAck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	broker := setupBroker(t)
	ctx := context.Background()

	require.NoError(t, broker.DeclareTopology(ctx, messaging.Topology{
		Exchanges: []string{contracts.ExchangeOrderEvents},
		Queues:    []string{"it.order-created"},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangeOrderEvents, Queue: "it.order-created", Key: "order.created"},
		},
	}))
	// Re-declaration with identical properties must succeed.
	require.NoError(t, broker.DeclareTopology(ctx, messaging.Topology{
		Exchanges: []string{contracts.ExchangeOrderEvents},
		Queues:    []string{"it.order-created"},
	}))

	var (
		mu       sync.Mutex
		received []contracts.OrderCreated
	)
	require.NoError(t, broker.Subscribe("it.order-created", messaging.Decode(func(_ context.Context, event contracts.OrderCreated) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	})))

	orderID := uuid.New()
	require.NoError(t, broker.Publish(ctx, contracts.OrderCreated{
		OrderID:         orderID,
		UserID:          uuid.New(),
		DeliveryAddress: "42 Integration Way",
		TotalPrice:      19.99,
		Amount:          19.99,
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 10*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, orderID, received[0].OrderID)
}

func TestBroker_WildcardBindingReceivesStatusEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	broker := setupBroker(t)
	ctx := context.Background()

	require.NoError(t, broker.DeclareTopology(ctx, messaging.Topology{
		Exchanges: []string{contracts.ExchangeOrderEvents},
		Queues:    []string{"it.order-status"},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangeOrderEvents, Queue: "it.order-status", Key: contracts.OrderStatusKeyPrefix + "*"},
		},
	}))

	var (
		mu       sync.Mutex
		statuses []string
	)
	require.NoError(t, broker.Subscribe("it.order-status", messaging.Decode(func(_ context.Context, event contracts.OrderStatusChanged) error {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, event.Status)
		return nil
	})))

	for _, status := range []string{"Pending", "Paid", "Shipped"} {
		require.NoError(t, broker.Publish(ctx, contracts.OrderStatusChanged{
			OrderID: uuid.New(), Status: status, ChangedAt: time.Now().UTC(),
		}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(statuses) == 3
	}, 10*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"Pending", "Paid", "Shipped"}, statuses)
}

func TestBroker_FailingHandlerIsRedelivered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	broker := setupBroker(t)
	ctx := context.Background()

	require.NoError(t, broker.DeclareTopology(ctx, messaging.Topology{
		Exchanges: []string{contracts.ExchangePaymentEvents},
		Queues:    []string{"it.payment-completed"},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangePaymentEvents, Queue: "it.payment-completed", Key: "payment.completed"},
		},
	}))

	var (
		mu        sync.Mutex
		attempts  int
		succeeded bool
	)
	require.NoError(t, broker.Subscribe("it.payment-completed", func(_ context.Context, _ []byte) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return errors.New("transient failure")
		}
		succeeded = true
		return nil
	}))

	require.NoError(t, broker.Publish(ctx, contracts.PaymentCompleted{
		OrderID: uuid.New(), PaymentID: uuid.New(), Amount: 10, CompletedAt: time.Now().UTC(),
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return succeeded
	}, 10*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, attempts, 2)
}

func TestBroker_MalformedPayloadIsDropped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	broker := setupBroker(t)
	ctx := context.Background()

	require.NoError(t, broker.DeclareTopology(ctx, messaging.Topology{
		Queues: []string{contracts.CheckoutErrorQueue},
	}))

	var (
		mu    sync.Mutex
		calls int
	)
	require.NoError(t, broker.Subscribe(contracts.CheckoutErrorQueue, func(_ context.Context, _ []byte) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return messaging.ErrDrop
	}))

	require.NoError(t, broker.Publish(ctx, contracts.CheckoutError{
		UserID: uuid.New(), Error: "insufficient stock",
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, 10*time.Second, 50*time.Millisecond)

	// No redelivery after a drop.
	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}
