// Package messaging defines the broker port the services publish and consume
// through. Two adapters implement it: platform/rabbit (AMQP) and
// platform/membus (in-process, for tests and broker-less local runs).
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopmesh/shopmesh/internal/contracts"
)

// ErrDrop tells the dispatch loop a payload can never be processed, no matter
// how often it is redelivered. The message is rejected without requeue.
var ErrDrop = errors.New("undeliverable payload")

// Handler processes one delivery. A nil return acks the message, ErrDrop
// rejects it without requeue, any other error requeues it for redelivery.
type Handler func(ctx context.Context, body []byte) error

// Binding routes messages from an exchange to a queue by topic pattern.
// Patterns use AMQP topic semantics: `*` matches one dot-separated word,
// `#` matches zero or more.
type Binding struct {
	Exchange string
	Queue    string
	Key      string
}

// Topology is the durable broker layout a service declares at startup.
type Topology struct {
	Exchanges []string
	Queues    []string
	Bindings  []Binding
}

// Publisher sends contract events to their registered route.
type Publisher interface {
	Publish(ctx context.Context, event contracts.Event) error
}

// Broker is the full port a service binds its messaging adapters to.
type Broker interface {
	Publisher
	DeclareTopology(ctx context.Context, topology Topology) error
	Subscribe(queue string, handler Handler) error
	Close() error
}

// Decode adapts a typed event handler into a raw Handler. A payload that does
// not unmarshal into T is dropped, redelivery cannot fix it.
func Decode[T contracts.Event](handle func(ctx context.Context, event T) error) Handler {
	return func(ctx context.Context, body []byte) error {
		var event T
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("%w: decode %s: %v", ErrDrop, event.EventName(), err)
		}
		return handle(ctx, event)
	}
}
