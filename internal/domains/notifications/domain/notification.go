package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification by the flow that produced it.
type Type string

const (
	TypeOrder    Type = "order"
	TypePayment  Type = "payment"
	TypeDelivery Type = "delivery"
)

var (
	ErrEmptyTitle  = errors.New("notification title is required")
	ErrUnknownType = errors.New("unknown notification type")
)

// Valid reports whether the type is one of the known categories.
func (t Type) Valid() bool {
	switch t {
	case TypeOrder, TypePayment, TypeDelivery:
		return true
	}
	return false
}

// Notification is a single user-facing message about an order's progress.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	OrderID   uuid.UUID
	Title     string
	Message   string
	Type      Type
	Read      bool
	CreatedAt time.Time
}

// NewNotification validates the invariants and builds an unread notification.
func NewNotification(userID, orderID uuid.UUID, title, message string, kind Type) (*Notification, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if !kind.Valid() {
		return nil, ErrUnknownType
	}
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		OrderID:   orderID,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkRead flags the notification as seen. Reports false when it already was.
func (n *Notification) MarkRead() bool {
	if n.Read {
		return false
	}
	n.Read = true
	return true
}
