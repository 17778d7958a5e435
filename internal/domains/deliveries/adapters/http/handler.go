// Package http exposes the delivery service's REST surface.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/deliveries/application"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/domain"
	"github.com/shopmesh/shopmesh/internal/domains/deliveries/ports"
	apierrors "github.com/shopmesh/shopmesh/internal/shared/errors"
)

// Handler serves the delivery endpoints.
type Handler struct {
	deliveries ports.Service
}

// NewHandler wires the HTTP adapter.
func NewHandler(deliveries ports.Service) *Handler {
	return &Handler{deliveries: deliveries}
}

// Register mounts the delivery routes.
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api/deliveries")
	api.GET("/:id", h.get)
	api.GET("/user/:userId", h.listByUser)
	api.POST("/update-status", h.updateStatus)
}

type deliveryResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"orderId"`
	UserID         uuid.UUID `json:"userId"`
	Address        string    `json:"address"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (h *Handler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid delivery id"))
		return
	}
	delivery, err := h.deliveries.GetDelivery(c.Request.Context(), id)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(delivery))
}

func (h *Handler) listByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid user id"))
		return
	}
	deliveries, err := h.deliveries.ListUserDeliveries(c.Request.Context(), userID)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	responses := make([]deliveryResponse, 0, len(deliveries))
	for _, delivery := range deliveries {
		responses = append(responses, fromDomain(delivery))
	}
	c.JSON(http.StatusOK, responses)
}

type updateStatusRequest struct {
	DeliveryID *uuid.UUID `json:"deliveryId"`
	OrderID    *uuid.UUID `json:"orderId"`
	Status     string     `json:"status" binding:"required"`
}

// updateStatus accepts either a delivery id or an order id. Carrier callbacks
// usually only know the order.
func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}

	var (
		delivery *domain.Delivery
		err      error
	)
	switch {
	case req.DeliveryID != nil:
		delivery, err = h.deliveries.UpdateStatus(c.Request.Context(), *req.DeliveryID, domain.Status(req.Status))
	case req.OrderID != nil:
		delivery, err = h.deliveries.UpdateStatusByOrder(c.Request.Context(), *req.OrderID, domain.Status(req.Status))
	default:
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("deliveryId or orderId is required"))
		return
	}
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(delivery))
}

func respondDeliveryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidOperation):
		apierrors.Respond(c, apierrors.ErrConflict.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, err)
	}
}

func fromDomain(delivery *domain.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:             delivery.ID,
		OrderID:        delivery.OrderID,
		UserID:         delivery.UserID,
		Address:        delivery.Address,
		Status:         string(delivery.Status),
		TrackingNumber: delivery.TrackingNumber,
		CreatedAt:      delivery.CreatedAt,
		UpdatedAt:      delivery.UpdatedAt,
	}
}
