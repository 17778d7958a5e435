package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
)

// CreateOrderItem is one requested line in a new order, before price snapshot.
type CreateOrderItem struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	UserID          uuid.UUID
	DeliveryAddress string
	Items           []CreateOrderItem
}

// Service exposes the order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.Order, error)
}
