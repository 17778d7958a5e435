// Package rabbit implements the messaging port on RabbitMQ. One connection per
// service process; the publisher and every consumer get their own channel, so a
// blocked consumer never stalls publishing or other queues.
package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

const consumePrefetch = 1

// Broker is the AMQP implementation of messaging.Broker.
type Broker struct {
	logger *slog.Logger
	conn   *amqp.Connection

	publishMu sync.Mutex
	publishCh *amqp.Channel

	mu        sync.Mutex
	closed    bool
	consumers []*consumer
}

// Dial connects to the broker and opens the publisher channel.
func Dial(url string, logger *slog.Logger) (*Broker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbit: dial %s: %w", safeURL(url), err)
	}
	publishCh, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbit: open publish channel: %w", err)
	}
	return &Broker{logger: logger, conn: conn, publishCh: publishCh}, nil
}

// DeclareTopology declares durable exchanges, queues, and bindings. Declaring
// an existing entity with matching properties is a no-op; a property mismatch
// fails the call, which is treated as a startup error by the services.
func (b *Broker) DeclareTopology(_ context.Context, topology messaging.Topology) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbit: open topology channel: %w", err)
	}
	defer ch.Close()

	for _, exchange := range topology.Exchanges {
		if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbit: declare exchange %q: %w", exchange, err)
		}
	}
	for _, queue := range topology.Queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbit: declare queue %q: %w", queue, err)
		}
	}
	for _, binding := range topology.Bindings {
		if err := ch.QueueBind(binding.Queue, binding.Key, binding.Exchange, false, nil); err != nil {
			return fmt.Errorf("rabbit: bind %q to %q with %q: %w", binding.Queue, binding.Exchange, binding.Key, err)
		}
	}
	return nil
}

// Publish resolves the event's route and sends it as a persistent JSON
// message. Failures surface to the caller; there is no internal retry.
func (b *Broker) Publish(ctx context.Context, event contracts.Event) error {
	route, err := contracts.RouteFor(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbit: encode %s: %w", event.EventName(), err)
	}

	b.publishMu.Lock()
	defer b.publishMu.Unlock()
	err = b.publishCh.PublishWithContext(ctx, route.Exchange, route.Key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         event.EventName(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbit: publish %s to %s/%s: %w", event.EventName(), route.Exchange, route.Key, err)
	}
	return nil
}

// Close shuts down all consumer channels and the connection.
func (b *Broker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	consumers := b.consumers
	b.mu.Unlock()

	for _, c := range consumers {
		c.stop()
	}
	return b.conn.Close()
}

func safeURL(url string) string {
	// amqp URLs embed credentials; never log them.
	parsed, err := amqp.ParseURI(url)
	if err != nil {
		return "amqp://<unparseable>"
	}
	return fmt.Sprintf("amqp://%s:%d%s", parsed.Host, parsed.Port, parsed.Vhost)
}
