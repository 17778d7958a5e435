// Package application implements the delivery service use cases.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// Service orchestrates the deliveries bounded context use cases.
type Service struct {
	repo      ports.Repository
	publisher messaging.Publisher
	logger    *slog.Logger
}

// NewService wires the delivery service with its dependencies.
func NewService(repo ports.Repository, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// CreateDelivery registers a pending delivery for an order. A redelivered
// OrderCreated finds the existing delivery and returns it untouched.
func (s *Service) CreateDelivery(ctx context.Context, orderID, userID uuid.UUID, address string) (*domain.Delivery, error) {
	existing, err := s.repo.GetByOrderID(ctx, orderID)
	if err == nil {
		s.logger.Warn("delivery already exists for order, skipping creation",
			slog.String("order.id", orderID.String()), slog.String("delivery.status", string(existing.Status)))
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	delivery, err := domain.NewDelivery(orderID, userID, address)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, delivery)
}

// UpdateStatus moves a delivery along its lifecycle. Every real transition
// publishes DeliveryStatusUpdated; shipping and delivering additionally
// publish their dedicated events. Setting the current status again is a no-op
// without events.
func (s *Service) UpdateStatus(ctx context.Context, deliveryID uuid.UUID, status domain.Status) (*domain.Delivery, error) {
	delivery, err := s.repo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return s.applyStatus(ctx, delivery, status)
}

// UpdateStatusByOrder is UpdateStatus addressed by the owning order.
func (s *Service) UpdateStatusByOrder(ctx context.Context, orderID uuid.UUID, status domain.Status) (*domain.Delivery, error) {
	delivery, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.applyStatus(ctx, delivery, status)
}

func (s *Service) applyStatus(ctx context.Context, delivery *domain.Delivery, status domain.Status) (*domain.Delivery, error) {
	changed, err := delivery.ChangeStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		s.logger.Debug("delivery already in target status, skipping update",
			slog.String("delivery.id", delivery.ID.String()), slog.String("status", string(status)))
		return delivery, nil
	}
	saved, err := s.repo.Save(ctx, delivery)
	if err != nil {
		return nil, err
	}

	events := []contracts.Event{contracts.DeliveryStatusUpdated{
		DeliveryID: saved.ID,
		OrderID:    saved.OrderID,
		Status:     string(saved.Status),
		UpdatedAt:  saved.UpdatedAt,
	}}
	switch saved.Status {
	case domain.StatusShipped:
		events = append(events, contracts.DeliveryStarted{
			DeliveryID:     saved.ID,
			OrderID:        saved.OrderID,
			UserID:         saved.UserID,
			TrackingNumber: saved.TrackingNumber,
			StartedAt:      saved.UpdatedAt,
		})
	case domain.StatusDelivered:
		events = append(events, contracts.DeliveryCompleted{
			DeliveryID:     saved.ID,
			OrderID:        saved.OrderID,
			UserID:         saved.UserID,
			TrackingNumber: saved.TrackingNumber,
			CompletedAt:    saved.UpdatedAt,
		})
	}
	for _, event := range events {
		if err := s.publisher.Publish(ctx, event); err != nil {
			return nil, fmt.Errorf("delivery %s updated but %s publish failed: %w", saved.ID, event.EventName(), err)
		}
	}
	return saved, nil
}

// GetDelivery loads a delivery by id.
func (s *Service) GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*domain.Delivery, error) {
	return s.repo.GetByID(ctx, deliveryID)
}

// GetByOrderID loads the delivery attached to an order.
func (s *Service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Delivery, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

// ListUserDeliveries returns all deliveries belonging to a user.
func (s *Service) ListUserDeliveries(ctx context.Context, userID uuid.UUID) ([]*domain.Delivery, error) {
	return s.repo.ListByUser(ctx, userID)
}

var _ ports.Service = (*Service)(nil)
