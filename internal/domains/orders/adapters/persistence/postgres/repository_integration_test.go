//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopmesh/shopmesh/internal/domains/orders/domain"
	"github.com/shopmesh/shopmesh/internal/domains/orders/ports"
	"github.com/shopmesh/shopmesh/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("shopmesh_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(uuid.New(), "1 Main Street", []domain.Item{
		{ProductID: 1, ProductName: "Keyboard", UnitPrice: 49.90, Quantity: 2},
		{ProductID: 2, ProductName: "Mouse", UnitPrice: 19.90, Quantity: 1},
	})
	require.NoError(t, err)
	return order
}

func TestPostgresRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t)
	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, saved.ID)
	assert.Len(t, saved.Items, 2)

	retrieved, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.UserID, retrieved.UserID)
	assert.Equal(t, domain.StatusCreated, retrieved.Status)
	assert.InDelta(t, order.TotalPrice, retrieved.TotalPrice, 0.001)
	assert.Equal(t, "Keyboard", retrieved.Items[0].ProductName)
}

func TestPostgresRepository_SaveUpdatesStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t)
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	_, err = order.ChangeStatus(domain.StatusPaid)
	require.NoError(t, err)
	updated, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	// Item rows are replaced, not duplicated, on update.
	assert.Len(t, updated.Items, 2)
}

func TestPostgresRepository_ListByUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		order, err := domain.NewOrder(userID, "1 Main Street", []domain.Item{
			{ProductID: int64(i + 1), ProductName: "Widget", UnitPrice: 5, Quantity: 1},
		})
		require.NoError(t, err)
		_, err = repo.Save(ctx, order)
		require.NoError(t, err)
	}
	other, err := domain.NewOrder(uuid.New(), "2 Side Street", []domain.Item{
		{ProductID: 9, ProductName: "Gadget", UnitPrice: 7, Quantity: 1},
	})
	require.NoError(t, err)
	_, err = repo.Save(ctx, other)
	require.NoError(t, err)

	mine, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
