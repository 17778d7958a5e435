package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/shopmesh/internal/domains/catalog/adapters/memory"
	"github.com/shopmesh/shopmesh/internal/domains/catalog/ports"
)

func newTestService(t *testing.T) (*Service, int64) {
	t.Helper()
	svc := NewService(memory.NewRepository(), nil)
	product, err := svc.CreateProduct(context.Background(), ports.CreateProductInput{
		Name: "Mechanical Keyboard", Description: "Clicky", Price: 79.99, Stock: 10,
		Category: "peripherals",
	})
	require.NoError(t, err)
	return svc, product.ID
}

func TestCreateProductAssignsID(t *testing.T) {
	svc, id := newTestService(t)
	assert.NotZero(t, id)

	second, err := svc.CreateProduct(context.Background(), ports.CreateProductInput{
		Name: "Wireless Mouse", Price: 24.99, Stock: 5, Category: "peripherals",
	})
	require.NoError(t, err)
	assert.NotEqual(t, id, second.ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateProduct(context.Background(), ports.CreateProductInput{Name: "", Price: 1, Stock: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProductsSkipsMissingIDs(t *testing.T) {
	svc, id := newTestService(t)

	products, err := svc.GetProducts(context.Background(), []int64{id, 9999})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
}

func TestListProductsFiltersByCategory(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateProduct(context.Background(), ports.CreateProductInput{
		Name: "Standing Desk", Price: 499, Stock: 3, Category: "furniture",
	})
	require.NoError(t, err)

	all, err := svc.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	furniture, err := svc.ListProducts(context.Background(), "furniture")
	require.NoError(t, err)
	require.Len(t, furniture, 1)
	assert.Equal(t, "Standing Desk", furniture[0].Name)
}

func TestAdjustStock(t *testing.T) {
	svc, id := newTestService(t)

	product, err := svc.AdjustStock(context.Background(), id, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)

	_, err = svc.AdjustStock(context.Background(), id, -10)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AdjustStock(context.Background(), 9999, -1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSetStock(t *testing.T) {
	svc, id := newTestService(t)

	product, err := svc.SetStock(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Zero(t, product.Stock)

	_, err = svc.SetStock(context.Background(), id, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
