package ports

import (
	"context"
	"errors"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/domain"
)

// ErrNotFound is returned when no product matches the lookup.
var ErrNotFound = errors.New("product not found")

// Repository persists catalog products.
type Repository interface {
	// Save stores the product, assigning an ID on first save.
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetByIDs returns the products that exist; missing ids are absent from
	// the result.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)
	List(ctx context.Context, category string) ([]*domain.Product, error)
}
