package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/adapters/memory"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
)

func TestNotifyStoresUnreadNotification(t *testing.T) {
	svc := NewService(memory.NewRepository(), nil)
	userID := uuid.New()

	notification, err := svc.Notify(context.Background(), userID, uuid.New(), "Order confirmed", "Your order is on its way", domain.TypeOrder)
	require.NoError(t, err)
	assert.False(t, notification.Read)

	unread, err := svc.ListUnread(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, notification.ID, unread[0].ID)
}

func TestNotifyRejectsEmptyTitle(t *testing.T) {
	svc := NewService(memory.NewRepository(), nil)
	_, err := svc.Notify(context.Background(), uuid.New(), uuid.New(), "  ", "body", domain.TypeOrder)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	svc := NewService(memory.NewRepository(), nil)
	_, err := svc.Notify(context.Background(), uuid.New(), uuid.New(), "title", "body", domain.Type("pigeon"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkReadRemovesFromUnreadList(t *testing.T) {
	svc := NewService(memory.NewRepository(), nil)
	userID := uuid.New()

	notification, err := svc.Notify(context.Background(), userID, uuid.New(), "Payment received", "Thanks", domain.TypePayment)
	require.NoError(t, err)

	read, err := svc.MarkRead(context.Background(), notification.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	// Second mark is a harmless no-op.
	_, err = svc.MarkRead(context.Background(), notification.ID)
	require.NoError(t, err)

	unread, err := svc.ListUnread(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	svc := NewService(memory.NewRepository(), nil)
	_, err := svc.MarkRead(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
