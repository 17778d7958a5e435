package application

import (
	"errors"
	"fmt"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput marks validation failures in the request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientStock marks stock adjustments that would go negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidStock):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return ErrInsufficientStock
	default:
		return err
	}
}
