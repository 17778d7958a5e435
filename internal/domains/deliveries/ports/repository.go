package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
)

// ErrNotFound is returned when no delivery matches the lookup.
var ErrNotFound = errors.New("delivery not found")

// Repository persists delivery aggregates.
type Repository interface {
	Save(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Delivery, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Delivery, error)
}
