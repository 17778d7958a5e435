package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a delivery.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCanceled  Status = "Canceled"
)

var (
	ErrEmptyAddress      = errors.New("delivery address is required")
	ErrUnknownStatus     = errors.New("unknown delivery status")
	ErrInvalidTransition = errors.New("invalid delivery status transition")
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// transitions holds the forward edges of the delivery state machine.
// Cancellation is handled separately: it is allowed from any non-terminal state.
var transitions = map[Status]Status{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusShipped,
	StatusShipped:   StatusDelivered,
}

// Delivery is the aggregate managed by the deliveries bounded context. A
// tracking number exists from the moment the delivery ships.
type Delivery struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	UserID         uuid.UUID
	Address        string
	Status         Status
	TrackingNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewDelivery validates the invariants and builds a pending delivery.
func NewDelivery(orderID, userID uuid.UUID, address string) (*Delivery, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}
	now := time.Now().UTC()
	return &Delivery{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    userID,
		Address:   address,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangeStatus moves the delivery along the state machine. Shipping assigns
// the tracking number. Setting the current status again reports false without
// touching the aggregate.
func (d *Delivery) ChangeStatus(next Status) (bool, error) {
	if !next.Valid() {
		return false, ErrUnknownStatus
	}
	if d.Status == next {
		return false, nil
	}
	if d.Status.Terminal() {
		return false, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, d.Status)
	}
	if next != StatusCanceled && transitions[d.Status] != next {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, next)
	}
	now := time.Now().UTC()
	d.Status = next
	d.UpdatedAt = now
	if next == StatusShipped && d.TrackingNumber == "" {
		d.TrackingNumber = newTrackingNumber(now)
	}
	return true, nil
}

// newTrackingNumber builds a DEL-YYYYMMDD-XXXXXXXX identifier.
func newTrackingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("DEL-%s-%s", now.Format("20060102"), suffix)
}
