// Package http exposes the catalog service's REST surface.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/application"
	"github.com/shopmesh/shopmesh/internal/domains/catalog/domain"
	"github.com/shopmesh/shopmesh/internal/domains/catalog/ports"
	apierrors "github.com/shopmesh/shopmesh/internal/shared/errors"
)

// Handler serves the catalog endpoints.
type Handler struct {
	catalog ports.Service
}

// NewHandler wires the HTTP adapter.
func NewHandler(catalog ports.Service) *Handler {
	return &Handler{catalog: catalog}
}

// Register mounts the catalog routes.
func (h *Handler) Register(router gin.IRouter) {
	api := router.Group("/api/products")
	api.POST("", h.create)
	api.GET("", h.list)
	api.GET("/:id", h.get)
	api.PUT("/:id/stock", h.updateStock)
}

type productResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       float64           `json:"price"`
	Stock       int               `json:"stock"`
	Category    string            `json:"category,omitempty"`
	ImageURLs   []string          `json:"imageUrls,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type createProductRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Price       float64           `json:"price" binding:"required"`
	Stock       int               `json:"stock"`
	Category    string            `json:"category"`
	ImageURLs   []string          `json:"imageUrls"`
	Attributes  map[string]string `json:"attributes"`
}

func (h *Handler) create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
		Attributes:  req.Attributes,
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomain(product))
}

// list serves both the full catalog (optionally filtered by ?category=) and
// batch lookups via ?ids=1,2,3.
func (h *Handler) list(c *gin.Context) {
	if rawIDs := c.Query("ids"); rawIDs != "" {
		ids, err := parseIDs(rawIDs)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid ids parameter"))
			return
		}
		products, err := h.catalog.GetProducts(c.Request.Context(), ids)
		if err != nil {
			respondCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, fromDomainSlice(products))
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSlice(products))
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid product id"))
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(product))
}

type updateStockRequest struct {
	Stock *int `json:"stock"`
	Delta *int `json:"delta"`
}

// updateStock accepts an absolute level or a relative delta, but not both.
func (h *Handler) updateStock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("invalid product id"))
		return
	}
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}

	var product *domain.Product
	switch {
	case req.Stock != nil && req.Delta != nil:
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("provide stock or delta, not both"))
		return
	case req.Stock != nil:
		product, err = h.catalog.SetStock(c.Request.Context(), id, *req.Stock)
	case req.Delta != nil:
		product, err = h.catalog.AdjustStock(c.Request.Context(), id, *req.Delta)
	default:
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("stock or delta is required"))
		return
	}
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomain(product))
}

func parseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInsufficientStock):
		apierrors.Respond(c, apierrors.ErrUnprocessable.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, err)
	}
}

func fromDomain(product *domain.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		ImageURLs:   product.ImageURLs,
		Attributes:  product.Attributes,
	}
}

func fromDomainSlice(products []*domain.Product) []productResponse {
	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, fromDomain(product))
	}
	return responses
}
