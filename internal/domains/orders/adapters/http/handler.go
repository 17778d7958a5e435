// Package http exposes the order service's REST surface.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/orders/application"
	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
	"github.com/shopmesh/shopmesh/internal/domains/orders/ports"
	apierrors "github.com/shopmesh/shopmesh/internal/shared/errors"
)

// Handler serves the order endpoints.
type Handler struct {
	orders ports.Service
}

// NewHandler wires the HTTP adapter.
func NewHandler(orders ports.Service) *Handler {
	return &Handler{orders: orders}
}

// Register mounts the order routes.
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api/orders")
	api.POST("", h.createOrder)
	api.GET("", h.listOrders)
	api.GET("/:id", h.getOrder)
	api.GET("/user/:userId", h.listUserOrders)
}

type orderItemResponse struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"userId"`
	DeliveryAddress string              `json:"deliveryAddress"`
	Items           []orderItemResponse `json:"items"`
	TotalPrice      float64             `json:"totalPrice"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type createOrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	UserID          uuid.UUID                `json:"userId" binding:"required"`
	DeliveryAddress string                   `json:"deliveryAddress" binding:"required"`
	Items           []createOrderItemRequest `json:"items" binding:"required"`
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	items := make([]ports.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ports.CreateOrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), ports.CreateOrderInput{
		UserID:          req.UserID,
		DeliveryAddress: req.DeliveryAddress,
		Items:           items,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomain(order))
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid order id"))
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(order))
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainList(orders))
}

func (h *Handler) listUserOrders(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid user id"))
		return
	}
	orders, err := h.orders.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainList(orders))
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrUnknownProduct), errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInsufficientStock):
		apierrors.Respond(c, apierrors.ErrUnprocessable.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, err)
	}
}

func fromDomain(order *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return orderResponse{
		ID:              order.ID,
		UserID:          order.UserID,
		DeliveryAddress: order.DeliveryAddress,
		Items:           items,
		TotalPrice:      order.TotalPrice,
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func fromDomainList(orders []*domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, fromDomain(order))
	}
	return result
}
