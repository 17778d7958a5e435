package application

import (
	"errors"
	"fmt"

	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
)

var (
	// ErrInvalidInput marks validation failures in the request payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidOperation marks status changes the lifecycle does not allow.
	ErrInvalidOperation = errors.New("invalid operation")
)

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyAddress), errors.Is(err, domain.ErrUnknownStatus):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
	default:
		return err
	}
}
