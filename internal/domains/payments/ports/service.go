package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
)

// Service exposes the payment use cases to adapters.
type Service interface {
	CreatePayment(ctx context.Context, orderID uuid.UUID, amount float64) (*domain.Payment, error)
	Process(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
	Refund(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status domain.Status) (*domain.Payment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
}
