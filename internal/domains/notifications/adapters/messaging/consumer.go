// Package messaging fans the platform's event streams into user
// notifications.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// Queue names owned by the notification service.
const (
	QueueOrderCreated      = "notification.order-created"
	QueueOrderStatus       = "notification.order-status"
	QueuePaymentCompleted  = "notification.payment-completed"
	QueuePaymentFailed     = "notification.payment-failed"
	QueuePaymentRefunded   = "notification.payment-refunded"
	QueueDeliveryStatus    = "notification.delivery-status"
	QueueDeliveryStarted   = "notification.delivery-started"
	QueueDeliveryCompleted = "notification.delivery-completed"
)

// Consumer turns order, payment, and delivery events into notifications.
type Consumer struct {
	notifications ports.Service
	orders        ports.OrderLookup
	logger        *slog.Logger
}

// NewConsumer wires the notification event consumer.
func NewConsumer(notifications ports.Service, orders ports.OrderLookup, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{notifications: notifications, orders: orders, logger: logger}
}

// Topology declares the notification service's broker layout. It binds to
// every stream it renders messages for.
func Topology() messaging.Topology {
	return messaging.Topology{
		Exchanges: []string{
			contracts.ExchangeOrderEvents,
			contracts.ExchangePaymentEvents,
			contracts.ExchangeDeliveryEvents,
		},
		Queues: []string{
			QueueOrderCreated, QueueOrderStatus,
			QueuePaymentCompleted, QueuePaymentFailed, QueuePaymentRefunded,
			QueueDeliveryStatus, QueueDeliveryStarted, QueueDeliveryCompleted,
		},
		Bindings: []messaging.Binding{
			{Exchange: contracts.ExchangeOrderEvents, Queue: QueueOrderCreated, Key: "order.created"},
			{Exchange: contracts.ExchangeOrderEvents, Queue: QueueOrderStatus, Key: contracts.OrderStatusKeyPrefix + "*"},
			{Exchange: contracts.ExchangePaymentEvents, Queue: QueuePaymentCompleted, Key: "payment.completed"},
			{Exchange: contracts.ExchangePaymentEvents, Queue: QueuePaymentFailed, Key: "payment.failed"},
			{Exchange: contracts.ExchangePaymentEvents, Queue: QueuePaymentRefunded, Key: "payment.refunded"},
			{Exchange: contracts.ExchangeDeliveryEvents, Queue: QueueDeliveryStatus, Key: contracts.DeliveryStatusKeyPrefix + "*"},
			{Exchange: contracts.ExchangeDeliveryEvents, Queue: QueueDeliveryStarted, Key: "delivery.started"},
			{Exchange: contracts.ExchangeDeliveryEvents, Queue: QueueDeliveryCompleted, Key: "delivery.completed"},
		},
	}
}

// Register declares the topology and attaches the handlers.
func (c *Consumer) Register(ctx context.Context, broker messaging.Broker) error {
	if err := broker.DeclareTopology(ctx, Topology()); err != nil {
		return err
	}
	subscriptions := []struct {
		queue   string
		handler messaging.Handler
	}{
		{QueueOrderCreated, messaging.Decode(c.HandleOrderCreated)},
		{QueueOrderStatus, messaging.Decode(c.HandleOrderStatusChanged)},
		{QueuePaymentCompleted, messaging.Decode(c.HandlePaymentCompleted)},
		{QueuePaymentFailed, messaging.Decode(c.HandlePaymentFailed)},
		{QueuePaymentRefunded, messaging.Decode(c.HandlePaymentRefunded)},
		{QueueDeliveryStatus, messaging.Decode(c.HandleDeliveryStatusUpdated)},
		{QueueDeliveryStarted, messaging.Decode(c.HandleDeliveryStarted)},
		{QueueDeliveryCompleted, messaging.Decode(c.HandleDeliveryCompleted)},
	}
	for _, sub := range subscriptions {
		if err := broker.Subscribe(sub.queue, sub.handler); err != nil {
			return err
		}
	}
	return nil
}

// HandleOrderCreated confirms the new order to its owner.
func (c *Consumer) HandleOrderCreated(ctx context.Context, event contracts.OrderCreated) error {
	_, err := c.notifications.Notify(ctx, event.UserID, event.OrderID,
		"Order received",
		fmt.Sprintf("We received your order for %.2f and are processing the payment.", event.TotalPrice),
		domain.TypeOrder)
	return err
}

// HandleOrderStatusChanged reports order progress to its owner.
func (c *Consumer) HandleOrderStatusChanged(ctx context.Context, event contracts.OrderStatusChanged) error {
	_, err := c.notifications.Notify(ctx, event.UserID, event.OrderID,
		"Order update",
		fmt.Sprintf("Your order is now %s.", strings.ToLower(event.Status)),
		domain.TypeOrder)
	return err
}

// HandlePaymentCompleted thanks the user for a successful payment. The event
// does not carry the user, so the order service is asked first.
func (c *Consumer) HandlePaymentCompleted(ctx context.Context, event contracts.PaymentCompleted) error {
	return c.notifyOrderOwner(ctx, event.OrderID,
		"Payment received",
		fmt.Sprintf("Your payment of %.2f was processed successfully.", event.Amount),
		domain.TypePayment)
}

// HandlePaymentFailed warns the user about a declined charge.
func (c *Consumer) HandlePaymentFailed(ctx context.Context, event contracts.PaymentFailed) error {
	return c.notifyOrderOwner(ctx, event.OrderID,
		"Payment failed",
		fmt.Sprintf("Your payment of %.2f could not be processed: %s.", event.Amount, event.ErrorMessage),
		domain.TypePayment)
}

// HandlePaymentRefunded confirms a refund.
func (c *Consumer) HandlePaymentRefunded(ctx context.Context, event contracts.PaymentRefunded) error {
	return c.notifyOrderOwner(ctx, event.OrderID,
		"Payment refunded",
		fmt.Sprintf("Your payment of %.2f was refunded.", event.Amount),
		domain.TypePayment)
}

// HandleDeliveryStatusUpdated reports delivery progress. Shipped and
// Delivered are skipped here: the dedicated started/completed events render
// richer messages for those and this handler would duplicate them.
func (c *Consumer) HandleDeliveryStatusUpdated(ctx context.Context, event contracts.DeliveryStatusUpdated) error {
	switch event.Status {
	case "Shipped", "Delivered":
		return nil
	}
	return c.notifyOrderOwner(ctx, event.OrderID,
		"Delivery update",
		fmt.Sprintf("Your delivery is now %s.", strings.ToLower(event.Status)),
		domain.TypeDelivery)
}

// HandleDeliveryStarted shares the tracking number when the package ships.
func (c *Consumer) HandleDeliveryStarted(ctx context.Context, event contracts.DeliveryStarted) error {
	_, err := c.notifications.Notify(ctx, event.UserID, event.OrderID,
		"Your order has shipped",
		fmt.Sprintf("Track your package with number %s.", event.TrackingNumber),
		domain.TypeDelivery)
	return err
}

// HandleDeliveryCompleted confirms the package arrived.
func (c *Consumer) HandleDeliveryCompleted(ctx context.Context, event contracts.DeliveryCompleted) error {
	_, err := c.notifications.Notify(ctx, event.UserID, event.OrderID,
		"Order delivered",
		"Your package has been delivered. Enjoy!",
		domain.TypeDelivery)
	return err
}

// notifyOrderOwner resolves the order's owner and stores the notification. A
// failed lookup is logged and the message dropped: the notification is
// best-effort and retrying against a missing order would loop forever.
func (c *Consumer) notifyOrderOwner(ctx context.Context, orderID uuid.UUID, title, message string, kind domain.Type) error {
	order, err := c.orders.GetOrder(ctx, orderID)
	if err != nil {
		c.logger.Warn("cannot resolve order owner, skipping notification",
			slog.String("order.id", orderID.String()), slog.String("error", err.Error()))
		return nil
	}
	_, err = c.notifications.Notify(ctx, order.UserID, orderID, title, message, kind)
	return err
}
