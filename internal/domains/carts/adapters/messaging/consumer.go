// Package messaging subscribes the cart service to checkout rejections.
package messaging

import (
	"context"
	"log/slog"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// Consumer surfaces checkout rejections coming back from the order service.
type Consumer struct {
	logger *slog.Logger
}

// NewConsumer wires the cart event consumer.
func NewConsumer(logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{logger: logger}
}

// Topology declares the cart service's broker layout: the checkout exchange it
// publishes to and the error queue it consumes. The error queue hangs off the
// default exchange, so it needs no binding.
func Topology() messaging.Topology {
	return messaging.Topology{
		Exchanges: []string{contracts.ExchangeCartEvents},
		Queues:    []string{contracts.CheckoutErrorQueue},
	}
}

// Register declares the topology and attaches the handler.
func (c *Consumer) Register(ctx context.Context, broker messaging.Broker) error {
	if err := broker.DeclareTopology(ctx, Topology()); err != nil {
		return err
	}
	return broker.Subscribe(contracts.CheckoutErrorQueue, messaging.Decode(c.HandleCheckoutError))
}

// HandleCheckoutError records the rejection so operators can see why an order
// never materialized. The payload carries everything worth keeping.
func (c *Consumer) HandleCheckoutError(_ context.Context, event contracts.CheckoutError) error {
	c.logger.Warn("checkout rejected by order service",
		slog.String("user.id", event.UserID.String()),
		slog.String("error", event.Error),
		slog.String("details", event.Details))
	return nil
}
