package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusCreated              Status = "Created"
	StatusPending              Status = "Pending"
	StatusPaid                 Status = "Paid"
	StatusUnpaid               Status = "Unpaid"
	StatusPreparingForDelivery Status = "PreparingForDelivery"
	StatusShipped              Status = "Shipped"
	StatusDelivered            Status = "Delivered"
	StatusCancelled            Status = "Cancelled"
	StatusRefunded             Status = "Refunded"
)

var (
	ErrEmptyAddress    = errors.New("delivery address is required")
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be greater than zero")
	ErrUnknownStatus   = errors.New("unknown order status")
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusPending, StatusPaid, StatusUnpaid,
		StatusPreparingForDelivery, StatusShipped, StatusDelivered,
		StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Item is an order line with name and price snapshotted at creation time, so
// later catalog changes never alter an existing order.
type Item struct {
	ProductID   int64
	ProductName string
	UnitPrice   float64
	Quantity    int
}

// Subtotal returns the line total.
func (i Item) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order is the aggregate managed by the orders bounded context. TotalPrice is
// computed once at creation and never recomputed.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	DeliveryAddress string
	Items           []Item
	TotalPrice      float64
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder validates the invariants and builds a new Order aggregate in the
// Created state.
func NewOrder(userID uuid.UUID, deliveryAddress string, items []Item) (*Order, error) {
	if strings.TrimSpace(deliveryAddress) == "" {
		return nil, ErrEmptyAddress
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	total := 0.0
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total += item.Subtotal()
	}
	now := time.Now().UTC()
	return &Order{
		ID:              uuid.New(),
		UserID:          userID,
		DeliveryAddress: deliveryAddress,
		Items:           append([]Item{}, items...),
		TotalPrice:      total,
		Status:          StatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ChangeStatus moves the order to the given state. It reports false without
// touching the aggregate when the status is already current, which makes
// redelivered status events harmless.
func (o *Order) ChangeStatus(next Status) (bool, error) {
	if !next.Valid() {
		return false, ErrUnknownStatus
	}
	if o.Status == next {
		return false, nil
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

// StatusForDeliveryUpdate maps a delivery-side status onto the order
// lifecycle. Delivery states with no order equivalent leave the order where it
// is rather than failing the update.
func (o *Order) StatusForDeliveryUpdate(deliveryStatus string) Status {
	switch deliveryStatus {
	case "Preparing":
		return StatusPreparingForDelivery
	case "Shipped":
		return StatusShipped
	case "Delivered":
		return StatusDelivered
	case "Canceled":
		return StatusCancelled
	default:
		return o.Status
	}
}
