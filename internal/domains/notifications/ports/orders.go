package ports

import (
	"context"

	"github.com/google/uuid"
)

// OrderInfo is the slice of an order the notification service needs to
// address a user.
type OrderInfo struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Status string
}

// OrderLookup resolves orders owned by the order service. Payment and
// delivery events do not carry the user, so consumers look it up here.
type OrderLookup interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (OrderInfo, error)
}
