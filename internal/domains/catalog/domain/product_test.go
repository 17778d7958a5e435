package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductValidation(t *testing.T) {
	_, err := NewProduct("  ", "", 10, 5, "peripherals")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewProduct("Keyboard", "", 0, 5, "peripherals")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewProduct("Keyboard", "", 10, -1, "peripherals")
	assert.ErrorIs(t, err, ErrInvalidStock)

	product, err := NewProduct("Keyboard", "Clicky", 79.99, 5, "peripherals")
	require.NoError(t, err)
	assert.Zero(t, product.ID)
	assert.Equal(t, 5, product.Stock)
}

func TestAdjustStock(t *testing.T) {
	product, err := NewProduct("Keyboard", "", 79.99, 5, "peripherals")
	require.NoError(t, err)

	require.NoError(t, product.AdjustStock(-3))
	assert.Equal(t, 2, product.Stock)

	assert.ErrorIs(t, product.AdjustStock(-3), ErrInsufficientStock)
	assert.Equal(t, 2, product.Stock)

	require.NoError(t, product.AdjustStock(10))
	assert.Equal(t, 12, product.Stock)
}

func TestSetStock(t *testing.T) {
	product, err := NewProduct("Keyboard", "", 79.99, 5, "peripherals")
	require.NoError(t, err)

	require.NoError(t, product.SetStock(0))
	assert.Zero(t, product.Stock)
	assert.ErrorIs(t, product.SetStock(-1), ErrInvalidStock)
}
