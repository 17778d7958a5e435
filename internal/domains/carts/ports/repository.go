package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/carts/domain"
)

// ErrNotFound is returned when no cart matches the lookup.
var ErrNotFound = errors.New("cart not found")

// Repository persists cart aggregates. One active cart per user.
type Repository interface {
	Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
}
