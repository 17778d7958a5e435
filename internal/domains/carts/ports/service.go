package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/carts/domain"
)

// Service defines the cart use cases exposed to adapters.
type Service interface {
	// GetCart returns the user's active cart, creating an empty one on first
	// touch.
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	// Checkout validates the cart, hands it to the order service over the
	// broker, and empties it.
	Checkout(ctx context.Context, userID uuid.UUID, deliveryAddress string) error
}
