// Package memory provides an in-memory notification repository for local runs
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
)

// Repository stores notifications in process memory.
type Repository struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]*domain.Notification
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{notifications: make(map[uuid.UUID]*domain.Notification)}
}

// Save stores a copy of the notification.
func (r *Repository) Save(_ context.Context, notification *domain.Notification) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[notification.ID] = cloneNotification(notification)
	return cloneNotification(notification), nil
}

// GetByID returns the notification with the given id.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	notification, ok := r.notifications[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneNotification(notification), nil
}

// ListByUser returns the user's notifications, newest first.
func (r *Repository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return r.list(userID, false), nil
}

// ListUnreadByUser returns the user's unread notifications, newest first.
func (r *Repository) ListUnreadByUser(_ context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	return r.list(userID, true), nil
}

func (r *Repository) list(userID uuid.UUID, unreadOnly bool) []*domain.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.Read {
			continue
		}
		result = append(result, cloneNotification(notification))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func cloneNotification(notification *domain.Notification) *domain.Notification {
	clone := *notification
	return &clone
}

var _ ports.Repository = (*Repository)(nil)
