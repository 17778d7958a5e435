package ports

import (
	"context"

	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
)

// Gateway charges a payment against the external payment provider. A non-nil
// error means the charge was declined or could not be placed.
type Gateway interface {
	Charge(ctx context.Context, payment *domain.Payment) error
}
