package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
	"github.com/shopmesh/shopmesh/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory payment persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
	byOrder  map[uuid.UUID]uuid.UUID
}

func NewRepository() *Repository {
	return &Repository{
		payments: map[uuid.UUID]*domain.Payment{},
		byOrder:  map[uuid.UUID]uuid.UUID{},
	}
}

func (r *Repository) Save(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	clone := clonePayment(payment)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[clone.ID] = clone
	r.byOrder[clone.OrderID] = clone.ID
	return clonePayment(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clonePayment(payment), nil
}

func (r *Repository) GetByOrderID(_ context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clonePayment(r.payments[id]), nil
}

func clonePayment(payment *domain.Payment) *domain.Payment {
	clone := *payment
	clone.CompletedAt = cloneTime(payment.CompletedAt)
	clone.FailedAt = cloneTime(payment.FailedAt)
	clone.RefundedAt = cloneTime(payment.RefundedAt)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copy := *t
	return &copy
}
