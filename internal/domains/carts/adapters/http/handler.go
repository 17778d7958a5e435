// Package http exposes the cart service's REST surface.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domains/carts/application"
	"github.com/shopmesh/shopmesh/internal/domains/carts/domain"
	"github.com/shopmesh/shopmesh/internal/domains/carts/ports"
	apierrors "github.com/shopmesh/shopmesh/internal/shared/errors"
)

// Handler serves the cart endpoints.
type Handler struct {
	carts ports.Service
}

// NewHandler wires the HTTP adapter.
func NewHandler(carts ports.Service) *Handler {
	return &Handler{carts: carts}
}

// Register mounts the cart routes.
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api/cart/:userId")
	api.GET("", h.get)
	api.POST("/items", h.addItem)
	api.PUT("/items/:productId", h.updateItem)
	api.DELETE("/items/:productId", h.removeItem)
	api.DELETE("", h.clear)
	api.POST("/checkout", h.checkout)
}

type cartItemResponse struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type cartResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"userId"`
	Items     []cartItemResponse `json:"items"`
	Total     float64            `json:"total"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (h *Handler) get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	cart, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(cart))
}

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

func (h *Handler) addItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(cart))
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) updateItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	cart, err := h.carts.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(cart))
}

func (h *Handler) removeItem(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(cart))
}

func (h *Handler) clear(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	cart, err := h.carts.ClearCart(c.Request.Context(), userID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(cart))
}

type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
}

func (h *Handler) checkout(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if err := h.carts.Checkout(c.Request.Context(), userID, req.DeliveryAddress); err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "checkout submitted"})
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid user id"))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) productID(c *gin.Context) (int64, bool) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid product id"))
		return 0, false
	}
	return productID, true
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, domain.ErrItemNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrUnknownProduct), errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInsufficientStock):
		apierrors.Respond(c, apierrors.ErrUnprocessable.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, err)
	}
}

func fromDomain(cart *domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
		})
	}
	return cartResponse{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		Total:     cart.Total(),
		UpdatedAt: cart.UpdatedAt,
	}
}
