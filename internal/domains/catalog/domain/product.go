package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStock      = errors.New("stock cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a sellable catalog entry. The zero ID marks a product not yet
// persisted; the repository assigns identifiers.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	ImageURLs   []string
	Attributes  map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates the invariants and builds an unsaved product.
func NewProduct(name, description string, price float64, stock int, category string) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	now := time.Now().UTC()
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AdjustStock applies a relative stock change. Negative deltas cannot take
// the level below zero.
func (p *Product) AdjustStock(delta int) error {
	next := p.Stock + delta
	if next < 0 {
		return ErrInsufficientStock
	}
	p.Stock = next
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// SetStock replaces the stock level.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	return nil
}
