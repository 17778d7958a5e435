package messaging

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/payments/adapters/memory"
	"github.com/shopmesh/shopmesh/internal/domains/payments/application"
	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
)

type stubGateway struct {
	calls int
}

func (g *stubGateway) Charge(context.Context, *domain.Payment) error {
	g.calls++
	return nil
}

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

func TestHandleOrderCreatedChargesOnce(t *testing.T) {
	gateway := &stubGateway{}
	publisher := &recordingPublisher{}
	svc := application.NewService(memory.NewRepository(), gateway, publisher, nil)
	consumer := NewConsumer(svc, nil)

	event := contracts.OrderCreated{
		OrderID: uuid.New(), UserID: uuid.New(), DeliveryAddress: "1 Main Street",
		TotalPrice: 42.50, Amount: 42.50,
	}
	require.NoError(t, consumer.HandleOrderCreated(context.Background(), event))
	// Redelivery must not charge or publish again.
	require.NoError(t, consumer.HandleOrderCreated(context.Background(), event))

	assert.Equal(t, 1, gateway.calls)
	require.Len(t, publisher.published(), 1)

	payment, err := svc.GetByOrderID(context.Background(), event.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, payment.Status)
}
