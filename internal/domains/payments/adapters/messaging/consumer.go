// Package messaging subscribes the payment service to the order event stream.
package messaging

import (
	"context"
	"log/slog"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/payments/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// QueueOrderCreated receives OrderCreated events for payment processing.
const QueueOrderCreated = "payment.order-created"

// Consumer reacts to new orders by creating and processing payments.
type Consumer struct {
	payments ports.Service
	logger   *slog.Logger
}

// NewConsumer wires the payment event consumer.
func NewConsumer(payments ports.Service, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{payments: payments, logger: logger}
}

// Topology declares the payment service's broker layout.
func Topology() messaging.Topology {
	return messaging.Topology{
		Exchanges: []string{
			contracts.ExchangePaymentEvents,
			contracts.ExchangeOrderEvents,
		},
		Queues: []string{QueueOrderCreated},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangeOrderEvents, Queue: QueueOrderCreated, Key: "order.created"},
		},
	}
}

// Register declares the topology and attaches the handler.
func (c *Consumer) Register(ctx context.Context, broker messaging.Broker) error {
	if err := broker.DeclareTopology(ctx, Topology()); err != nil {
		return err
	}
	return broker.Subscribe(QueueOrderCreated, messaging.Decode(c.HandleOrderCreated))
}

// HandleOrderCreated creates the payment for the order and runs it through
// the gateway. CreatePayment absorbs redeliveries by returning the existing
// payment, and Process skips anything past Pending, so the pair is safe to
// run on every delivery.
func (c *Consumer) HandleOrderCreated(ctx context.Context, event contracts.OrderCreated) error {
	payment, err := c.payments.CreatePayment(ctx, event.OrderID, event.Amount)
	if err != nil {
		return err
	}
	_, err = c.payments.Process(ctx, payment.ID)
	return err
}
