// Package application implements the cart service use cases.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/contracts"
	"github.com/shopmesh/shopmesh/internal/domains/carts/domain"
	"github.com/shopmesh/shopmesh/internal/domains/carts/ports"
	"github.com/shopmesh/shopmesh/internal/platform/messaging"
)

// Service orchestrates the carts bounded context use cases.
type Service struct {
	repo      ports.Repository
	catalog   ports.Catalog
	publisher messaging.Publisher
	logger    *slog.Logger
}

// NewService wires the cart service with its dependencies.
func NewService(repo ports.Repository, catalog ports.Catalog, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, catalog: catalog, publisher: publisher, logger: logger}
}

// GetCart returns the user's active cart, creating an empty one on first touch.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return s.repo.Save(ctx, domain.NewCart(userID))
}

// AddItem validates the product against the catalog, snapshots its name and
// price, and puts it in the cart.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(product.ID, product.Name, product.Price, quantity); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, cart)
}

// UpdateItem replaces the quantity of an item already in the cart.
func (s *Service) UpdateItem(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, cart)
}

// RemoveItem drops a product from the cart.
func (s *Service) RemoveItem(ctx context.Context, userID uuid.UUID, productID int64) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, cart)
}

// ClearCart empties the user's cart.
func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	return s.repo.Save(ctx, cart)
}

// Checkout re-validates the cart against live catalog stock, hands it to the
// order service over the broker, and empties it. The cart is only cleared
// after the publish succeeds, so a broker outage leaves it intact for a retry.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, deliveryAddress string) error {
	if strings.TrimSpace(deliveryAddress) == "" {
		return mapError(domain.ErrEmptyAddress)
	}
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	if cart.Empty() {
		return mapError(domain.ErrEmptyCart)
	}
	if err := s.validateStock(ctx, cart); err != nil {
		return err
	}

	items := make([]contracts.CartCheckoutItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, contracts.CartCheckoutItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	event := contracts.CartCheckout{
		UserID:          userID,
		DeliveryAddress: deliveryAddress,
		Items:           items,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("checkout publish failed: %w", err)
	}
	s.logger.Info("cart checked out",
		slog.String("user.id", userID.String()), slog.Int("items", len(items)))

	cart.Clear()
	_, err = s.repo.Save(ctx, cart)
	return err
}

func (s *Service) lookupProduct(ctx context.Context, productID int64) (ports.Product, error) {
	products, err := s.catalog.GetProducts(ctx, []int64{productID})
	if err != nil {
		return ports.Product{}, err
	}
	if len(products) == 0 {
		return ports.Product{}, fmt.Errorf("%w: product %d", ErrUnknownProduct, productID)
	}
	return products[0], nil
}

func (s *Service) validateStock(ctx context.Context, cart *domain.Cart) error {
	ids := make([]int64, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[int64]ports.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return fmt.Errorf("%w: product %d", ErrUnknownProduct, item.ProductID)
		}
		if item.Quantity > product.Stock {
			return fmt.Errorf("%w: product %d: requested %d, available %d",
				ErrInsufficientStock, item.ProductID, item.Quantity, product.Stock)
		}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
