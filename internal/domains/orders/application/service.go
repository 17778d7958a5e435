package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
	"github.com/shopmesh/shopmesh/internal/domains/orders/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo      ports.Repository
	catalog   ports.Catalog
	publisher messaging.Publisher
	logger    *slog.Logger
}

// NewService wires the order service with its dependencies.
func NewService(repo ports.Repository, catalog ports.Catalog, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, catalog: catalog, publisher: publisher, logger: logger}
}

// CreateOrder validates the requested items against the catalog, snapshots
// names and prices, persists the order as Pending, and publishes OrderCreated.
// Any validation failure aborts before persistence, so no event escapes for a
// rejected order.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrNoItems)
	}
	items, err := s.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	order, err := domain.NewOrder(input.UserID, input.DeliveryAddress, items)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := order.ChangeStatus(domain.StatusPending); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	event := contracts.OrderCreated{
		OrderID:         saved.ID,
		UserID:          saved.UserID,
		DeliveryAddress: saved.DeliveryAddress,
		TotalPrice:      saved.TotalPrice,
		Amount:          saved.TotalPrice,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("order %s persisted but OrderCreated publish failed: %w", saved.ID, err)
	}
	return saved, nil
}

// GetOrder loads a single order aggregate.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUserOrders returns all orders belonging to a user.
func (s *Service) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListOrders returns every order, for the admin surface.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus transitions the order and publishes OrderStatusChanged. When
// the order already holds the target status nothing is persisted and no event
// goes out, so a redelivered status event cannot echo through the system.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := order.ChangeStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		s.logger.Debug("order already in target status, skipping update",
			slog.String("order.id", id.String()), slog.String("status", string(status)))
		return order, nil
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	event := contracts.OrderStatusChanged{
		OrderID:   saved.ID,
		UserID:    saved.UserID,
		Status:    string(saved.Status),
		ChangedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return nil, fmt.Errorf("order %s updated but OrderStatusChanged publish failed: %w", saved.ID, err)
	}
	return saved, nil
}

func (s *Service) snapshotItems(ctx context.Context, requested []ports.CreateOrderItem) ([]domain.Item, error) {
	ids := make([]int64, 0, len(requested))
	for _, item := range requested {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	byID := make(map[int64]ports.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	items := make([]domain.Item, 0, len(requested))
	for _, item := range requested {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ErrUnknownProduct, item.ProductID)
		}
		if item.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: product %d: requested %d, available %d",
				ErrInsufficientStock, item.ProductID, item.Quantity, product.Stock)
		}
		items = append(items, domain.Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
		})
	}
	return items, nil
}

var _ ports.Service = (*Service)(nil)
