package application

import (
	"errors"
	"fmt"

	"github.com/shopmesh/shopmesh/internal/domains/carts/domain"
)

var (
	// ErrInvalidInput marks validation failures in the request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownProduct marks items referencing products the catalog does not
	// know.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInsufficientStock marks quantities beyond the catalog's stock level.
	ErrInsufficientStock = errors.New("insufficient stock")
)

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrEmptyAddress):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
