// Package contracts holds the wire-level event definitions shared by every
// service. Producers and consumers import the same types, so a payload change
// here is a payload change everywhere.
package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every message that crosses the broker.
type Event interface {
	EventName() string
}

// Event type identifiers. Static events reuse their routing key; events with
// status-dependent keys carry a distinct identifier.
const (
	EventOrderCreated          = "order.created"
	EventOrderStatusChanged    = "order.status_changed"
	EventPaymentCompleted      = "payment.completed"
	EventPaymentFailed         = "payment.failed"
	EventPaymentRefunded       = "payment.refunded"
	EventDeliveryStatusUpdated = "delivery.status_updated"
	EventDeliveryStarted       = "delivery.started"
	EventDeliveryCompleted     = "delivery.completed"
	EventCartCheckout          = "cart.checkout"
	EventCheckoutError         = "cart.checkout_error"
)

// OrderCreated is published once per successfully created order and starts the
// payment and delivery flows.
type OrderCreated struct {
	OrderID         uuid.UUID `json:"orderId"`
	UserID          uuid.UUID `json:"userId"`
	DeliveryAddress string    `json:"deliveryAddress"`
	TotalPrice      float64   `json:"totalPrice"`
	Amount          float64   `json:"amount"`
}

func (OrderCreated) EventName() string { return EventOrderCreated }

// OrderStatusChanged is published on every order status transition.
type OrderStatusChanged struct {
	OrderID   uuid.UUID `json:"orderId"`
	UserID    uuid.UUID `json:"userId"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
}

func (OrderStatusChanged) EventName() string { return EventOrderStatusChanged }

// PaymentCompleted signals a successful charge for an order.
type PaymentCompleted struct {
	OrderID     uuid.UUID `json:"orderId"`
	PaymentID   uuid.UUID `json:"paymentId"`
	Amount      float64   `json:"amount"`
	CompletedAt time.Time `json:"completedAt"`
}

func (PaymentCompleted) EventName() string { return EventPaymentCompleted }

// PaymentFailed signals a rejected or errored charge.
type PaymentFailed struct {
	OrderID      uuid.UUID `json:"orderId"`
	PaymentID    uuid.UUID `json:"paymentId"`
	Amount       float64   `json:"amount"`
	FailedAt     time.Time `json:"failedAt"`
	ErrorMessage string    `json:"errorMessage"`
}

func (PaymentFailed) EventName() string { return EventPaymentFailed }

// PaymentRefunded signals a completed payment that was refunded.
type PaymentRefunded struct {
	OrderID    uuid.UUID `json:"orderId"`
	PaymentID  uuid.UUID `json:"paymentId"`
	Amount     float64   `json:"amount"`
	RefundedAt time.Time `json:"refundedAt"`
}

func (PaymentRefunded) EventName() string { return EventPaymentRefunded }

// DeliveryStatusUpdated is published on every delivery status transition.
type DeliveryStatusUpdated struct {
	DeliveryID uuid.UUID `json:"deliveryId"`
	OrderID    uuid.UUID `json:"orderId"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (DeliveryStatusUpdated) EventName() string { return EventDeliveryStatusUpdated }

// DeliveryStarted is published when a delivery ships and a tracking number is
// assigned.
type DeliveryStarted struct {
	DeliveryID     uuid.UUID `json:"deliveryId"`
	OrderID        uuid.UUID `json:"orderId"`
	UserID         uuid.UUID `json:"userId"`
	TrackingNumber string    `json:"trackingNumber"`
	StartedAt      time.Time `json:"startedAt"`
}

func (DeliveryStarted) EventName() string { return EventDeliveryStarted }

// DeliveryCompleted is published when a delivery reaches the customer.
type DeliveryCompleted struct {
	DeliveryID     uuid.UUID `json:"deliveryId"`
	OrderID        uuid.UUID `json:"orderId"`
	UserID         uuid.UUID `json:"userId"`
	TrackingNumber string    `json:"trackingNumber"`
	CompletedAt    time.Time `json:"completedAt"`
}

func (DeliveryCompleted) EventName() string { return EventDeliveryCompleted }

// CartCheckoutItem is a single cart line inside a checkout message.
type CartCheckoutItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CartCheckout asks the order service to turn a cart into an order.
type CartCheckout struct {
	UserID          uuid.UUID          `json:"userId"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Items           []CartCheckoutItem `json:"items"`
}

func (CartCheckout) EventName() string { return EventCartCheckout }

// CheckoutError reports a rejected checkout back to the cart service over the
// dedicated error queue.
type CheckoutError struct {
	UserID  uuid.UUID `json:"userId"`
	Error   string    `json:"error"`
	Details string    `json:"details"`
}

func (CheckoutError) EventName() string { return EventCheckoutError }
