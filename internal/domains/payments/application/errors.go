package application

import (
	"errors"
	"fmt"

	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid payment input")

// ErrInvalidOperation signals a transition the payment state machine forbids.
var ErrInvalidOperation = errors.New("invalid payment operation")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrUnknownStatus):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrAlreadyProcessed), errors.Is(err, domain.ErrNotRefundable):
		return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
	}
	return err
}
