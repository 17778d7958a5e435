// Package messaging subscribes the delivery service to the order and payment
// event streams.
package messaging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// Queue names owned by the delivery service.
const (
	QueueOrderCreated     = "delivery.order-created"
	QueuePaymentCompleted = "delivery.payment-completed"
)

// Consumer reacts to order and payment events by managing deliveries.
type Consumer struct {
	deliveries ports.Service
	logger     *slog.Logger
}

// NewConsumer wires the delivery event consumer.
func NewConsumer(deliveries ports.Service, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{deliveries: deliveries, logger: logger}
}

// Topology declares the delivery service's broker layout.
func Topology() messaging.Topology {
	return messaging.Topology{
		Exchanges: []string{
			contracts.ExchangeDeliveryEvents,
			contracts.ExchangeOrderEvents,
			contracts.ExchangePaymentEvents,
		},
		Queues: []string{QueueOrderCreated, QueuePaymentCompleted},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangeOrderEvents, Queue: QueueOrderCreated, Key: "order.created"},
			{Exchange: contracts.ExchangePaymentEvents, Queue: QueuePaymentCompleted, Key: "payment.completed"},
		},
	}
}

// Register declares the topology and attaches the handlers.
func (c *Consumer) Register(ctx context.Context, broker messaging.Broker) error {
	if err := broker.DeclareTopology(ctx, Topology()); err != nil {
		return err
	}
	if err := broker.Subscribe(QueueOrderCreated, messaging.Decode(c.HandleOrderCreated)); err != nil {
		return err
	}
	return broker.Subscribe(QueuePaymentCompleted, messaging.Decode(c.HandlePaymentCompleted))
}

// HandleOrderCreated registers a pending delivery for the new order.
// CreateDelivery absorbs redeliveries by returning the existing delivery.
func (c *Consumer) HandleOrderCreated(ctx context.Context, event contracts.OrderCreated) error {
	_, err := c.deliveries.CreateDelivery(ctx, event.OrderID, event.UserID, event.DeliveryAddress)
	return err
}

// HandlePaymentCompleted moves the order's delivery into preparation. A missing
// delivery is logged and dropped rather than requeued: the order service
// creates deliveries before payments can complete, so a gap here means the
// order flow was short-circuited and retrying cannot repair it.
func (c *Consumer) HandlePaymentCompleted(ctx context.Context, event contracts.PaymentCompleted) error {
	_, err := c.deliveries.UpdateStatusByOrder(ctx, event.OrderID, domain.StatusPreparing)
	if errors.Is(err, ports.ErrNotFound) {
		c.logger.Warn("payment completed for order without delivery, ignoring",
			slog.String("order.id", event.OrderID.String()))
		return nil
	}
	return err
}
