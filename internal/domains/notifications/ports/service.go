package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
)

// Service defines the notification use cases exposed to adapters.
type Service interface {
	Notify(ctx context.Context, userID, orderID uuid.UUID, title, message string, kind domain.Type) (*domain.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	ListUnread(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}
