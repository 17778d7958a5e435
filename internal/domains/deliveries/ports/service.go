package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
)

// Service defines the delivery use cases exposed to adapters.
type Service interface {
	// CreateDelivery registers a pending delivery for an order. An order that
	// already has a delivery gets its existing one back.
	CreateDelivery(ctx context.Context, orderID, userID uuid.UUID, address string) (*domain.Delivery, error)
	// UpdateStatus moves a delivery along its lifecycle and publishes the
	// matching events.
	UpdateStatus(ctx context.Context, deliveryID uuid.UUID, status domain.Status) (*domain.Delivery, error)
	// UpdateStatusByOrder is UpdateStatus addressed by order instead of
	// delivery id.
	UpdateStatusByOrder(ctx context.Context, orderID uuid.UUID, status domain.Status) (*domain.Delivery, error)
	GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*domain.Delivery, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Delivery, error)
	ListUserDeliveries(ctx context.Context, userID uuid.UUID) ([]*domain.Delivery, error)
}
