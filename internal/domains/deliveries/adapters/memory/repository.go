// Package memory provides an in-memory delivery repository for local runs and
// tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/ports"
)

// Repository stores deliveries in process memory.
type Repository struct {
	mu         sync.RWMutex
	deliveries map[uuid.UUID]*domain.Delivery
	byOrder    map[uuid.UUID]uuid.UUID
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		deliveries: make(map[uuid.UUID]*domain.Delivery),
		byOrder:    make(map[uuid.UUID]uuid.UUID),
	}
}

// Save stores a copy of the delivery.
func (r *Repository) Save(_ context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries[delivery.ID] = cloneDelivery(delivery)
	r.byOrder[delivery.OrderID] = delivery.ID
	return cloneDelivery(delivery), nil
}

// GetByID returns the delivery with the given id.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	delivery, ok := r.deliveries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneDelivery(delivery), nil
}

// GetByOrderID returns the delivery attached to the given order.
func (r *Repository) GetByOrderID(_ context.Context, orderID uuid.UUID) (*domain.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneDelivery(r.deliveries[id]), nil
}

// ListByUser returns the user's deliveries, newest first.
func (r *Repository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Delivery
	for _, delivery := range r.deliveries {
		if delivery.UserID == userID {
			result = append(result, cloneDelivery(delivery))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func cloneDelivery(delivery *domain.Delivery) *domain.Delivery {
	clone := *delivery
	return &clone
}

var _ ports.Repository = (*Repository)(nil)
