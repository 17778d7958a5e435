// Package membus is an in-process stand-in for the AMQP broker. It keeps the
// same topology, topic-matching, and ack semantics so dispatch behavior can be
// exercised without a running RabbitMQ.
package membus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

const queueDepth = 1024

// requeueDelay keeps a permanently failing handler from spinning the
// redelivery loop hot.
const requeueDelay = time.Millisecond

// Bus implements messaging.Broker in memory. Each subscribed queue gets one
// dispatch goroutine, so handlers on the same queue run serially and a slow
// handler stalls only its own queue.
type Bus struct {
	logger *slog.Logger

	mu        sync.RWMutex
	closed    bool
	exchanges map[string]struct{}
	queues    map[string]*queue
	bindings  []messaging.Binding
}

type queue struct {
	name       string
	deliveries chan []byte
	subscribed bool
	done       chan struct{}
}

// New returns an empty bus. Declare topology before publishing.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger:    logger,
		exchanges: make(map[string]struct{}),
		queues:    make(map[string]*queue),
	}
}

// DeclareTopology registers exchanges, queues, and bindings. Re-declaration is
// idempotent, mirroring durable declarations on the real broker.
func (b *Bus) DeclareTopology(_ context.Context, topology messaging.Topology) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("membus: bus is closed")
	}
	for _, exchange := range topology.Exchanges {
		b.exchanges[exchange] = struct{}{}
	}
	for _, name := range topology.Queues {
		if _, ok := b.queues[name]; !ok {
			b.queues[name] = &queue{
				name:       name,
				deliveries: make(chan []byte, queueDepth),
				done:       make(chan struct{}),
			}
		}
	}
	for _, binding := range topology.Bindings {
		if _, ok := b.queues[binding.Queue]; !ok {
			return fmt.Errorf("membus: binding references undeclared queue %q", binding.Queue)
		}
		if !b.hasBinding(binding) {
			b.bindings = append(b.bindings, binding)
		}
	}
	return nil
}

func (b *Bus) hasBinding(binding messaging.Binding) bool {
	for _, existing := range b.bindings {
		if existing == binding {
			return true
		}
	}
	return false
}

// Publish routes the event through the contract registry and fans it out to
// every queue whose binding matches. Messages to the default exchange go
// straight to the queue named by the routing key.
func (b *Bus) Publish(_ context.Context, event contracts.Event) error {
	route, err := contracts.RouteFor(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("membus: encode %s: %w", event.EventName(), err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return errors.New("membus: bus is closed")
	}

	if route.Exchange == contracts.ExchangeDefault {
		q, ok := b.queues[route.Key]
		if !ok {
			return fmt.Errorf("membus: no queue %q for default-exchange publish", route.Key)
		}
		return b.enqueue(q, body)
	}

	if _, ok := b.exchanges[route.Exchange]; !ok {
		return fmt.Errorf("membus: publish to undeclared exchange %q", route.Exchange)
	}
	delivered := make(map[string]struct{})
	for _, binding := range b.bindings {
		if binding.Exchange != route.Exchange || !MatchTopic(binding.Key, route.Key) {
			continue
		}
		if _, done := delivered[binding.Queue]; done {
			continue
		}
		delivered[binding.Queue] = struct{}{}
		if err := b.enqueue(b.queues[binding.Queue], body); err != nil {
			return err
		}
	}
	return nil
}

// enqueue never blocks: Publish holds the bus read lock, and waiting on a
// stalled queue here would freeze every publisher behind it.
func (b *Bus) enqueue(q *queue, body []byte) error {
	select {
	case q.deliveries <- body:
		return nil
	default:
		return fmt.Errorf("membus: queue %q is full", q.name)
	}
}

// Subscribe attaches the queue's single consumer and starts its dispatch
// goroutine. Handler errors requeue the message; ErrDrop discards it.
func (b *Bus) Subscribe(name string, handler messaging.Handler) error {
	b.mu.Lock()
	q, ok := b.queues[name]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("membus: subscribe to undeclared queue %q", name)
	}
	if q.subscribed {
		b.mu.Unlock()
		return fmt.Errorf("membus: queue %q already has a consumer", name)
	}
	q.subscribed = true
	b.mu.Unlock()

	go b.dispatch(q, handler)
	return nil
}

func (b *Bus) dispatch(q *queue, handler messaging.Handler) {
	for {
		select {
		case <-q.done:
			return
		case body := <-q.deliveries:
			err := handler(context.Background(), body)
			switch {
			case err == nil:
			case errors.Is(err, messaging.ErrDrop):
				b.logger.Warn("dropping undeliverable message", "queue", q.name, "error", err)
			default:
				b.logger.Warn("handler failed, requeueing", "queue", q.name, "error", err)
				time.Sleep(requeueDelay)
				select {
				case q.deliveries <- body:
				case <-q.done:
					return
				}
			}
		}
	}
}

// Close stops all dispatch goroutines. Pending deliveries are discarded.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, q := range b.queues {
		close(q.done)
	}
	return nil
}

// MatchTopic reports whether an AMQP topic binding pattern matches a routing
// key. `*` consumes exactly one dot-separated word, `#` zero or more.
func MatchTopic(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	if len(pattern) == 0 {
		return len(key) == 0
	}
	switch pattern[0] {
	case "#":
		for skip := 0; skip <= len(key); skip++ {
			if matchWords(pattern[1:], key[skip:]) {
				return true
			}
		}
		return false
	case "*":
		return len(key) > 0 && matchWords(pattern[1:], key[1:])
	default:
		return len(key) > 0 && pattern[0] == key[0] && matchWords(pattern[1:], key[1:])
	}
}
