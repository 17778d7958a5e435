package application

import (
	"errors"
	"fmt"

	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid order input")

// ErrUnknownProduct signals the order referenced a product the catalog does
// not know.
var ErrUnknownProduct = errors.New("unknown product")

// ErrInsufficientStock signals a requested quantity exceeds available stock.
var ErrInsufficientStock = errors.New("insufficient stock")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyAddress) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrUnknownStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
