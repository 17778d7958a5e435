package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
	"github.com/shopmesh/shopmesh/internal/domains/payments/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// gatewayFailureReason is the message carried on PaymentFailed when the
// provider declines a charge.
const gatewayFailureReason = "payment processing failed"

// Service orchestrates the payments bounded context use cases.
type Service struct {
	repo      ports.Repository
	gateway   ports.Gateway
	publisher messaging.Publisher
	logger    *slog.Logger
}

// NewService wires the payment service with its dependencies.
func NewService(repo ports.Repository, gateway ports.Gateway, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, gateway: gateway, publisher: publisher, logger: logger}
}

// CreatePayment registers a pending payment for an order. A redelivered
// OrderCreated finds the existing payment and returns it untouched instead of
// charging the customer twice.
func (s *Service) CreatePayment(ctx context.Context, orderID uuid.UUID, amount float64) (*domain.Payment, error) {
	existing, err := s.repo.GetByOrderID(ctx, orderID)
	if err == nil {
		s.logger.Warn("payment already exists for order, skipping creation",
			slog.String("order.id", orderID.String()), slog.String("payment.status", string(existing.Status)))
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	payment, err := domain.NewPayment(orderID, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, payment)
}

// Process runs a pending payment through the gateway and publishes the
// outcome. Payments past Pending are returned as-is, so reprocessing a
// redelivered event cannot double-charge or re-publish.
func (s *Service) Process(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.StatusPending {
		s.logger.Warn("payment already processed, skipping gateway",
			slog.String("payment.id", payment.ID.String()), slog.String("status", string(payment.Status)))
		return payment, nil
	}

	chargeErr := s.gateway.Charge(ctx, payment)
	if chargeErr != nil {
		if err := payment.Fail(gatewayFailureReason); err != nil {
			return nil, mapError(err)
		}
	} else if err := payment.Complete(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, payment)
	if err != nil {
		return nil, err
	}

	var event contracts.Event
	if chargeErr != nil {
		s.logger.Info("payment failed",
			slog.String("payment.id", saved.ID.String()), slog.String("error", chargeErr.Error()))
		event = contracts.PaymentFailed{
			OrderID:      saved.OrderID,
			PaymentID:    saved.ID,
			Amount:       saved.Amount,
			FailedAt:     timeOrNow(saved.FailedAt),
			ErrorMessage: saved.ErrorMessage,
		}
	} else {
		event = contracts.PaymentCompleted{
			OrderID:     saved.OrderID,
			PaymentID:   saved.ID,
			Amount:      saved.Amount,
			CompletedAt: timeOrNow(saved.CompletedAt),
		}
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("payment %s processed but %s publish failed: %w", saved.ID, event.EventName(), err)
	}
	return saved, nil
}

// Refund reverses a completed payment and publishes PaymentRefunded.
func (s *Service) Refund(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := payment.Refund(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, payment)
	if err != nil {
		return nil, err
	}
	event := contracts.PaymentRefunded{
		OrderID:    saved.OrderID,
		PaymentID:  saved.ID,
		Amount:     saved.Amount,
		RefundedAt: timeOrNow(saved.RefundedAt),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("payment %s refunded but PaymentRefunded publish failed: %w", saved.ID, err)
	}
	return saved, nil
}

// UpdateStatus forces a payment into the given state, publishing the matching
// event. Setting the current status again is a no-op without an event.
func (s *Service) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status domain.Status) (*domain.Payment, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	changed, err := payment.ChangeStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		s.logger.Debug("payment already in target status, skipping update",
			slog.String("payment.id", paymentID.String()), slog.String("status", string(status)))
		return payment, nil
	}
	saved, err := s.repo.Save(ctx, payment)
	if err != nil {
		return nil, err
	}
	if event := statusEvent(saved); event != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			return nil, fmt.Errorf("payment %s updated but %s publish failed: %w", saved.ID, event.EventName(), err)
		}
	}
	return saved, nil
}

// GetByOrderID loads the payment attached to an order.
func (s *Service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

func statusEvent(payment *domain.Payment) contracts.Event {
	switch payment.Status {
	case domain.StatusCompleted:
		return contracts.PaymentCompleted{
			OrderID: payment.OrderID, PaymentID: payment.ID, Amount: payment.Amount,
			CompletedAt: timeOrNow(payment.CompletedAt),
		}
	case domain.StatusFailed:
		return contracts.PaymentFailed{
			OrderID: payment.OrderID, PaymentID: payment.ID, Amount: payment.Amount,
			FailedAt: timeOrNow(payment.FailedAt), ErrorMessage: payment.ErrorMessage,
		}
	case domain.StatusRefunded:
		return contracts.PaymentRefunded{
			OrderID: payment.OrderID, PaymentID: payment.ID, Amount: payment.Amount,
			RefundedAt: timeOrNow(payment.RefundedAt),
		}
	}
	return nil
}

func timeOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now().UTC()
}

var _ ports.Service = (*Service)(nil)
