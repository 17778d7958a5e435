// Package memory provides an in-memory product repository for local runs and
// tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/domain"
	"github.com/shopmesh/shopmesh/internal/domains/catalog/ports"
)

// Repository stores products in process memory with sequential ids.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{products: make(map[int64]*domain.Product), nextID: 1}
}

// Save stores a copy of the product, assigning an ID on first save.
func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	}
	r.products[product.ID] = cloneProduct(product)
	return cloneProduct(product), nil
}

// GetByID returns the product with the given id.
func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProduct(product), nil
}

// GetByIDs returns the products that exist; missing ids are skipped.
func (r *Repository) GetByIDs(_ context.Context, ids []int64) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result = append(result, cloneProduct(product))
		}
	}
	return result, nil
}

// List returns all products, optionally filtered by category, ordered by id.
func (r *Repository) List(_ context.Context, category string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Product
	for _, product := range r.products {
		if category != "" && product.Category != category {
			continue
		}
		result = append(result, cloneProduct(product))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func cloneProduct(product *domain.Product) *domain.Product {
	clone := *product
	clone.ImageURLs = append([]string{}, product.ImageURLs...)
	if product.Attributes != nil {
		clone.Attributes = make(map[string]string, len(product.Attributes))
		for k, v := range product.Attributes {
			clone.Attributes[k] = v
		}
	}
	return &clone
}

var _ ports.Repository = (*Repository)(nil)
