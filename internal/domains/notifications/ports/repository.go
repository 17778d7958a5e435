package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
)

// ErrNotFound is returned when no notification matches the lookup.
var ErrNotFound = errors.New("notification not found")

// Repository persists notifications.
type Repository interface {
	Save(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
}
