package rabbit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

type consumer struct {
	queue   string
	channel *amqp.Channel
	logger  *slog.Logger
	done    chan struct{}
}

// Subscribe opens a dedicated channel for the queue and starts its dispatch
// loop. Deliveries are acked after the handler completes: nil acks, ErrDrop
// rejects without requeue, any other error requeues the message as the sole
// retry mechanism.
func (b *Broker) Subscribe(queue string, handler messaging.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("rabbit: broker is closed")
	}

	channel, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbit: open consumer channel for %q: %w", queue, err)
	}
	if err := channel.Qos(consumePrefetch, 0, false); err != nil {
		_ = channel.Close()
		return fmt.Errorf("rabbit: set qos for %q: %w", queue, err)
	}
	deliveries, err := channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		_ = channel.Close()
		return fmt.Errorf("rabbit: consume %q: %w", queue, err)
	}

	c := &consumer{queue: queue, channel: channel, logger: b.logger, done: make(chan struct{})}
	b.consumers = append(b.consumers, c)
	go c.dispatch(deliveries, handler)
	return nil
}

func (c *consumer) dispatch(deliveries <-chan amqp.Delivery, handler messaging.Handler) {
	for delivery := range deliveries {
		// Each message gets its own scope, detached from any request that
		// produced it.
		err := handler(context.Background(), delivery.Body)
		switch {
		case err == nil:
			if ackErr := delivery.Ack(false); ackErr != nil {
				c.logger.Error("ack failed", "queue", c.queue, "error", ackErr)
			}
		case errors.Is(err, messaging.ErrDrop):
			c.logger.Warn("dropping undeliverable message", "queue", c.queue, "type", delivery.Type, "error", err)
			if rejectErr := delivery.Reject(false); rejectErr != nil {
				c.logger.Error("reject failed", "queue", c.queue, "error", rejectErr)
			}
		default:
			c.logger.Warn("handler failed, requeueing", "queue", c.queue, "type", delivery.Type, "error", err)
			if rejectErr := delivery.Reject(true); rejectErr != nil {
				c.logger.Error("requeue failed", "queue", c.queue, "error", rejectErr)
			}
		}
	}
	close(c.done)
}

func (c *consumer) stop() {
	_ = c.channel.Close()
	<-c.done
}
