// Package application implements the catalog service use cases.
package application

import (
	"context"
	"log/slog"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/domain"
	"github.com/shopmesh/shopmesh/internal/domains/catalog/ports"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateProduct adds a new catalog entry.
func (s *Service) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Description, input.Price, input.Stock, input.Category)
	if err != nil {
		return nil, mapError(err)
	}
	product.ImageURLs = input.ImageURLs
	product.Attributes = input.Attributes
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created",
		slog.Int64("product.id", saved.ID), slog.String("product.name", saved.Name))
	return saved, nil
}

// GetProduct loads a single product.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProducts loads a batch of products. Missing ids are absent from the
// result rather than an error, so callers can diff request against response.
func (s *Service) GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// ListProducts returns the catalog, optionally filtered by category.
func (s *Service) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.List(ctx, category)
}

// AdjustStock applies a relative stock change.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.AdjustStock(delta); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

// SetStock replaces a product's stock level.
func (s *Service) SetStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.SetStock(stock); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

var _ ports.Service = (*Service)(nil)
