package ports

import (
	"context"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/domain"
)

// CreateProductInput carries everything needed to add a catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	ImageURLs   []string
	Attributes  map[string]string
}

// Service defines the catalog use cases exposed to adapters.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
	// AdjustStock applies a relative stock change, e.g. -2 when two units
	// sell.
	AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error)
	SetStock(ctx context.Context, id int64, stock int) (*domain.Product, error)
}
