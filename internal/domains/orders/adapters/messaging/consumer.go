// Package messaging subscribes the order service to the payment, delivery,
// and cart event streams.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/orders/application"
	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
	"github.com/shopmesh/shopmesh/internal/domains/orders/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// Queue names owned by the order service.
const (
	QueuePaymentCompleted = "order.payment-completed"
	QueuePaymentFailed    = "order.payment-failed"
	QueuePaymentRefunded  = "order.payment-refunded"
	QueueDeliveryStatus   = "order.delivery-status"
	QueueCartCheckout     = "order.cart-checkout"
)

// Consumer reacts to upstream events by advancing order state.
type Consumer struct {
	orders    ports.Service
	publisher messaging.Publisher
	logger    *slog.Logger
}

// NewConsumer wires the order event consumer.
func NewConsumer(orders ports.Service, publisher messaging.Publisher, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{orders: orders, publisher: publisher, logger: logger}
}

// Topology declares everything the order service talks to: its own exchange,
// the upstream exchanges it consumes from, and its queues with bindings.
func Topology() messaging.Topology {
	return messaging.Topology{
		Exchanges: []string{
			contracts.ExchangeOrderEvents,
			contracts.ExchangePaymentEvents,
			contracts.ExchangeDeliveryEvents,
			contracts.ExchangeCartEvents,
		},
		Queues: []string{
			QueuePaymentCompleted,
			QueuePaymentFailed,
			QueuePaymentRefunded,
			QueueDeliveryStatus,
			QueueCartCheckout,
			contracts.CheckoutErrorQueue,
		},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangePaymentEvents, Queue: QueuePaymentCompleted, Key: "payment.completed"},
			{Exchange: contracts.ExchangePaymentEvents, Queue: QueuePaymentFailed, Key: "payment.failed"},
			{Exchange: contracts.ExchangePaymentEvents, Queue: QueuePaymentRefunded, Key: "payment.refunded"},
			{Exchange: contracts.ExchangeDeliveryEvents, Queue: QueueDeliveryStatus, Key: contracts.DeliveryStatusKeyPrefix + "*"},
			{Exchange: contracts.ExchangeCartEvents, Queue: QueueCartCheckout, Key: "cart.checkout"},
		},
	}
}

// Register declares the topology and attaches all handlers.
func (c *Consumer) Register(ctx context.Context, broker messaging.Broker) error {
	if err := broker.DeclareTopology(ctx, Topology()); err != nil {
		return err
	}
	subscriptions := map[string]messaging.Handler{
		QueuePaymentCompleted: messaging.Decode(c.HandlePaymentCompleted),
		QueuePaymentFailed:    messaging.Decode(c.HandlePaymentFailed),
		QueuePaymentRefunded:  messaging.Decode(c.HandlePaymentRefunded),
		QueueDeliveryStatus:   messaging.Decode(c.HandleDeliveryStatusUpdated),
		QueueCartCheckout:     messaging.Decode(c.HandleCartCheckout),
	}
	for queue, handler := range subscriptions {
		if err := broker.Subscribe(queue, handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", queue, err)
		}
	}
	return nil
}

// HandlePaymentCompleted marks the order as paid.
func (c *Consumer) HandlePaymentCompleted(ctx context.Context, event contracts.PaymentCompleted) error {
	_, err := c.orders.UpdateStatus(ctx, event.OrderID, domain.StatusPaid)
	return c.ignoreUnknownOrder(err, event.OrderID)
}

// HandlePaymentFailed marks the order as unpaid.
func (c *Consumer) HandlePaymentFailed(ctx context.Context, event contracts.PaymentFailed) error {
	c.logger.Info("payment failed for order",
		slog.String("order.id", event.OrderID.String()), slog.String("reason", event.ErrorMessage))
	_, err := c.orders.UpdateStatus(ctx, event.OrderID, domain.StatusUnpaid)
	return c.ignoreUnknownOrder(err, event.OrderID)
}

// HandlePaymentRefunded marks the order as refunded.
func (c *Consumer) HandlePaymentRefunded(ctx context.Context, event contracts.PaymentRefunded) error {
	_, err := c.orders.UpdateStatus(ctx, event.OrderID, domain.StatusRefunded)
	return c.ignoreUnknownOrder(err, event.OrderID)
}

// HandleDeliveryStatusUpdated maps the delivery state onto the order
// lifecycle. Delivery states with no order equivalent resolve to the current
// status, which UpdateStatus then treats as a no-op.
func (c *Consumer) HandleDeliveryStatusUpdated(ctx context.Context, event contracts.DeliveryStatusUpdated) error {
	order, err := c.orders.GetOrder(ctx, event.OrderID)
	if err != nil {
		return c.ignoreUnknownOrder(err, event.OrderID)
	}
	_, err = c.orders.UpdateStatus(ctx, event.OrderID, order.StatusForDeliveryUpdate(event.Status))
	return c.ignoreUnknownOrder(err, event.OrderID)
}

// ignoreUnknownOrder absorbs events that reference an order this service has
// never seen. Retrying cannot make the order appear, and requeueing would
// wedge the queue behind the poison message.
func (c *Consumer) ignoreUnknownOrder(err error, orderID uuid.UUID) error {
	if errors.Is(err, ports.ErrNotFound) {
		c.logger.Warn("event for unknown order, ignoring", slog.String("order.id", orderID.String()))
		return nil
	}
	return err
}

// HandleCartCheckout bridges a cart checkout into an order. Stock shortfalls
// are reported back on the checkout error queue and acked; a checkout naming
// an unknown product can never succeed and is dropped.
func (c *Consumer) HandleCartCheckout(ctx context.Context, event contracts.CartCheckout) error {
	items := make([]ports.CreateOrderItem, 0, len(event.Items))
	for _, item := range event.Items {
		items = append(items, ports.CreateOrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	_, err := c.orders.CreateOrder(ctx, ports.CreateOrderInput{
		UserID:          event.UserID,
		DeliveryAddress: event.DeliveryAddress,
		Items:           items,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, application.ErrUnknownProduct):
		return fmt.Errorf("%w: %w", messaging.ErrDrop, err)
	case errors.Is(err, application.ErrInsufficientStock), errors.Is(err, application.ErrInvalidInput):
		c.logger.Warn("checkout rejected", slog.String("user.id", event.UserID.String()), slog.String("reason", err.Error()))
		return c.publisher.Publish(ctx, contracts.CheckoutError{
			UserID:  event.UserID,
			Error:   "checkout rejected",
			Details: err.Error(),
		})
	default:
		return err
	}
}
