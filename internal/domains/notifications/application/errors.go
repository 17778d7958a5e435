package application

import (
	"errors"
	"fmt"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
)

// ErrInvalidInput marks validation failures in the request payload.
var ErrInvalidInput = errors.New("invalid input")

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyTitle), errors.Is(err, domain.ErrUnknownType):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
