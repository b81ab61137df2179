package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredCatalog(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUnconfiguredCatalog()

	products, err := repo.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = repo.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.CreateProduct(ctx, domain.Product{Name: "Rice"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = repo.CreateCategory(ctx, domain.Category{Name: "Flour"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestUnconfiguredOrders(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUnconfiguredOrders()

	_, err := repo.CreateOrder(ctx, domain.NewOrder{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	orders, err := repo.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = repo.GetOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := repo.UpdateOrderStatus(ctx, uuid.New(), domain.OrderStatusShipped)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.False(t, updated)
}
