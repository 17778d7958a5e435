package messaging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/adapters/memory"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/application"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []contracts.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event contracts.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []contracts.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]contracts.Event{}, p.events...)
}

func newFixture() (*Consumer, *application.Service, *recordingPublisher) {
	publisher := &recordingPublisher{}
	svc := application.NewService(memory.NewRepository(), publisher, nil)
	return NewConsumer(svc, nil), svc, publisher
}

func TestHandleOrderCreatedCreatesPendingDelivery(t *testing.T) {
	consumer, svc, _ := newFixture()
	event := contracts.OrderCreated{
		OrderID: uuid.New(), UserID: uuid.New(), DeliveryAddress: "1 Main Street",
		TotalPrice: 42.50, Amount: 42.50,
	}

	require.NoError(t, consumer.HandleOrderCreated(context.Background(), event))
	// Redelivery leaves the existing delivery alone.
	require.NoError(t, consumer.HandleOrderCreated(context.Background(), event))

	delivery, err := svc.GetByOrderID(context.Background(), event.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, delivery.Status)
	assert.Equal(t, event.UserID, delivery.UserID)
	assert.Equal(t, "1 Main Street", delivery.Address)
}

func TestHandlePaymentCompletedStartsPreparation(t *testing.T) {
	consumer, svc, publisher := newFixture()
	orderID := uuid.New()
	require.NoError(t, consumer.HandleOrderCreated(context.Background(), contracts.OrderCreated{
		OrderID: orderID, UserID: uuid.New(), DeliveryAddress: "1 Main Street",
	}))

	payment := contracts.PaymentCompleted{
		OrderID: orderID, PaymentID: uuid.New(), Amount: 42.50, CompletedAt: time.Now().UTC(),
	}
	require.NoError(t, consumer.HandlePaymentCompleted(context.Background(), payment))

	delivery, err := svc.GetByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, delivery.Status)

	events := publisher.published()
	require.Len(t, events, 1)
	statusEvent, ok := events[0].(contracts.DeliveryStatusUpdated)
	require.True(t, ok)
	assert.Equal(t, "Preparing", statusEvent.Status)

	// Redelivered PaymentCompleted: already Preparing, no second event.
	require.NoError(t, consumer.HandlePaymentCompleted(context.Background(), payment))
	assert.Len(t, publisher.published(), 1)
}

func TestHandlePaymentCompletedWithoutDeliveryIsDropped(t *testing.T) {
	consumer, _, publisher := newFixture()

	err := consumer.HandlePaymentCompleted(context.Background(), contracts.PaymentCompleted{
		OrderID: uuid.New(), PaymentID: uuid.New(), Amount: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, publisher.published())
}
