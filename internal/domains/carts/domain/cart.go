package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrEmptyAddress    = errors.New("delivery address is required")
)

// Item is a single product line in a cart. Name and price are snapshots from
// the catalog at the time the item was added.
type Item struct {
	ProductID   int64
	ProductName string
	UnitPrice   float64
	Quantity    int
}

// Subtotal is the line total for the item.
func (i Item) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart is the aggregate managed by the carts bounded context. Each user has
// at most one active cart.
type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart builds an empty cart for the user.
func NewCart(userID uuid.UUID) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem puts a product in the cart. Adding a product that is already there
// merges the quantities and refreshes the price snapshot.
func (c *Cart) AddItem(productID int64, name string, price float64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].ProductName = name
			c.Items[i].UnitPrice = price
			c.touch()
			return nil
		}
	}
	c.Items = append(c.Items, Item{ProductID: productID, ProductName: name, UnitPrice: price, Quantity: quantity})
	c.touch()
	return nil
}

// SetQuantity replaces the quantity of an item already in the cart.
func (c *Cart) SetQuantity(productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem drops a product from the cart.
func (c *Cart) RemoveItem(productID int64) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
	c.touch()
}

// Empty reports whether the cart has no items.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Total sums all line totals.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
