// Package memory provides an in-memory cart repository for local runs and
// tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/carts/domain"
	"github.com/shopmesh/shopmesh/internal/domains/carts/ports"
)

// Repository stores carts in process memory, keyed by user.
type Repository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*domain.Cart
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{carts: make(map[uuid.UUID]*domain.Cart)}
}

// Save stores a copy of the cart.
func (r *Repository) Save(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.UserID] = cloneCart(cart)
	return cloneCart(cart), nil
}

// GetByUser returns the user's active cart.
func (r *Repository) GetByUser(_ context.Context, userID uuid.UUID) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneCart(cart), nil
}

func cloneCart(cart *domain.Cart) *domain.Cart {
	clone := *cart
	clone.Items = append([]domain.Item{}, cart.Items...)
	return &clone
}

var _ ports.Repository = (*Repository)(nil)
