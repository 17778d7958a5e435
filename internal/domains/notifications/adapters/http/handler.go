// Package http exposes the notification service's REST surface.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/notifications/domain"
	"github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
	apierrors "github.com/shopmesh/shopmesh/internal/shared/errors"
)

// Handler serves the notification endpoints.
type Handler struct {
	notifications ports.Service
}

// NewHandler wires the HTTP adapter.
func NewHandler(notifications ports.Service) *Handler {
	return &Handler{notifications: notifications}
}

// Register mounts the notification routes.
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api/notifications")
	api.GET("/user/:userId", h.listByUser)
	api.GET("/user/:userId/unread", h.listUnread)
	api.POST("/:id/read", h.markRead)
}

type notificationResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	OrderID   uuid.UUID `json:"orderId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) listByUser(c *gin.Context) {
	h.list(c, h.notifications.ListForUser)
}

func (h *Handler) listUnread(c *gin.Context) {
	h.list(c, h.notifications.ListUnread)
}

func (h *Handler) list(c *gin.Context, query func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid user id"))
		return
	}
	notifications, err := query(c.Request.Context(), userID)
	if err != nil {
		apierrors.RespondError(c, err)
		return
	}
	responses := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, fromDomain(notification))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) markRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid notification id"))
		return
	}
	notification, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
			return
		}
		apierrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(notification))
}

func fromDomain(notification *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		OrderID:   notification.OrderID,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      string(notification.Type),
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
}
