package contracts

import (
	"fmt"
	"strings"
)

// Exchange names. All are durable topic exchanges except the AMQP default
// exchange (empty name), which carries the checkout error queue.
const (
	ExchangeOrderEvents    = "order.events"
	ExchangePaymentEvents  = "payment.events"
	ExchangeDeliveryEvents = "delivery.events"
	ExchangeCartEvents     = "cart.events"
	ExchangeDefault        = ""
)

// Routing key prefixes for status-dependent keys and binding patterns.
const (
	OrderStatusKeyPrefix    = "order.status."
	DeliveryStatusKeyPrefix = "delivery.status."
)

// CheckoutErrorQueue is the durable queue checkout rejections are delivered to
// through the default exchange.
const CheckoutErrorQueue = "cart.checkout.error"

// Route locates an event on the broker.
type Route struct {
	Exchange string
	Key      string
}

// dynamicallyRouted is implemented by events whose routing key depends on
// payload state.
type dynamicallyRouted interface {
	routingKey() string
}

func (e OrderStatusChanged) routingKey() string {
	return OrderStatusKeyPrefix + strings.ToLower(e.Status)
}

func (e DeliveryStatusUpdated) routingKey() string {
	return DeliveryStatusKeyPrefix + strings.ToLower(e.Status)
}

// routes is the single place an event type is bound to an exchange and key.
// Publish sites never compute routes themselves. Entries for dynamically
// routed events hold the binding pattern; RouteFor substitutes the concrete key.
var routes = map[string]Route{
	EventOrderCreated:          {Exchange: ExchangeOrderEvents, Key: "order.created"},
	EventOrderStatusChanged:    {Exchange: ExchangeOrderEvents, Key: OrderStatusKeyPrefix + "*"},
	EventPaymentCompleted:      {Exchange: ExchangePaymentEvents, Key: "payment.completed"},
	EventPaymentFailed:         {Exchange: ExchangePaymentEvents, Key: "payment.failed"},
	EventPaymentRefunded:       {Exchange: ExchangePaymentEvents, Key: "payment.refunded"},
	EventDeliveryStatusUpdated: {Exchange: ExchangeDeliveryEvents, Key: DeliveryStatusKeyPrefix + "*"},
	EventDeliveryStarted:       {Exchange: ExchangeDeliveryEvents, Key: "delivery.started"},
	EventDeliveryCompleted:     {Exchange: ExchangeDeliveryEvents, Key: "delivery.completed"},
	EventCartCheckout:          {Exchange: ExchangeCartEvents, Key: "cart.checkout"},
	EventCheckoutError:         {Exchange: ExchangeDefault, Key: CheckoutErrorQueue},
}

// RouteFor resolves the exchange and routing key for an event. Unregistered
// event types are a programming error surfaced at publish time.
func RouteFor(e Event) (Route, error) {
	route, ok := routes[e.EventName()]
	if !ok {
		return Route{}, fmt.Errorf("no route registered for event %q", e.EventName())
	}
	if dyn, ok := e.(dynamicallyRouted); ok {
		route.Key = dyn.routingKey()
	}
	return route, nil
}

// AllEvents returns one zero value per contract type, in registry order. Used
// by tests to prove the registry stays complete.
func AllEvents() []Event {
	return []Event{
		OrderCreated{},
		OrderStatusChanged{},
		PaymentCompleted{},
		PaymentFailed{},
		PaymentRefunded{},
		DeliveryStatusUpdated{},
		DeliveryStarted{},
		DeliveryCompleted{},
		CartCheckout{},
		CheckoutError{},
	}
}
