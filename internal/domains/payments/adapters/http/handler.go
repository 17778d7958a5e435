// Package http exposes the payment service's REST surface.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/payments/application"
	"github.com/shopmesh/shopmesh/internal/domains/payments/domain"
	"github.com/shopmesh/shopmesh/internal/domains/payments/ports"
	apierrors "github.com/shopmesh/shopmesh/internal/shared/errors"
)

// Handler serves the payment endpoints.
type Handler struct {
	payments ports.Service
}

// NewHandler wires the HTTP adapter.
func NewHandler(payments ports.Service) *Handler {
	return &Handler{payments: payments}
}

// Register mounts the payment routes.
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api/payments")
	api.GET("/order/:orderId", h.getByOrder)
	api.POST("/:id/refund", h.refund)
	api.PUT("/:id/status", h.updateStatus)
}

type paymentResponse struct {
	ID           uuid.UUID  `json:"id"`
	OrderID      uuid.UUID  `json:"orderId"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	FailedAt     *time.Time `json:"failedAt,omitempty"`
	RefundedAt   *time.Time `json:"refundedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (h *Handler) getByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid order id"))
		return
	}
	payment, err := h.payments.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(payment))
}

func (h *Handler) refund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid payment id"))
		return
	}
	payment, err := h.payments.Refund(c.Request.Context(), id)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(payment))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid payment id"))
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	payment, err := h.payments.UpdateStatus(c.Request.Context(), id, domain.Status(req.Status))
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(payment))
}

func respondPaymentError(c *gin.Context, err error) {
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

func fromDomain(payment *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:           payment.ID,
		OrderID:      payment.OrderID,
		Amount:       payment.Amount,
		Status:       string(payment.Status),
		ErrorMessage: payment.ErrorMessage,
		CompletedAt:  payment.CompletedAt,
		FailedAt:     payment.FailedAt,
		RefundedAt:   payment.RefundedAt,
		CreatedAt:    payment.CreatedAt,
	}
}
