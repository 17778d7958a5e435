// Package application implements the notification service use cases.
package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
)

// Service orchestrates the notifications bounded context use cases.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

// NewService wires the notification service with its dependencies.
func NewService(repo ports.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Notify stores a new unread notification for the user.
func (s *Service) Notify(ctx context.Context, userID, orderID uuid.UUID, title, message string, kind domain.Type) (*domain.Notification, error) {
	notification, err := domain.NewNotification(userID, orderID, title, message, kind)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, notification)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("notification stored",
		slog.String("notification.id", saved.ID.String()),
		slog.String("user.id", userID.String()),
		slog.String("type", string(kind)))
	return saved, nil
}

// ListForUser returns all of a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListUnread returns the user's unread notifications, newest first.
func (s *Service) ListUnread(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return s.repo.ListUnreadByUser(ctx, userID)
}

// MarkRead flags a notification as seen. Marking twice is a no-op.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !notification.MarkRead() {
		return notification, nil
	}
	return s.repo.Save(ctx, notification)
}

var _ ports.Service = (*Service)(nil)
