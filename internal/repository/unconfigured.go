package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// Unconfigured repositories stand in when no database URL is set.
// Reads return empty results, writes fail with domain.ErrNotConfigured.
type (
	unconfiguredCatalog struct{}
	unconfiguredOrders  struct{}
)

func NewUnconfiguredCatalog() port.CatalogRepository {
	return unconfiguredCatalog{}
}

func NewUnconfiguredOrders() port.OrderRepository {
	return unconfiguredOrders{}
}

func (unconfiguredCatalog) ListProducts(context.Context, bool) ([]domain.Product, error) {
	return nil, nil
}

func (unconfiguredCatalog) GetProduct(context.Context, uuid.UUID) (domain.Product, error) {
	return domain.Product{}, domain.ErrNotFound
}

func (unconfiguredCatalog) CreateProduct(context.Context, domain.Product) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrNotConfigured
}

func (unconfiguredCatalog) UpdateProduct(context.Context, domain.Product) (bool, error) {
	return false, domain.ErrNotConfigured
}

func (unconfiguredCatalog) DeleteProduct(context.Context, uuid.UUID) (bool, error) {
	return false, domain.ErrNotConfigured
}

func (unconfiguredCatalog) AddVariant(context.Context, domain.ProductVariant) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrNotConfigured
}

func (unconfiguredCatalog) ListCategories(context.Context, bool) ([]domain.Category, error) {
	return nil, nil
}

func (unconfiguredCatalog) CreateCategory(context.Context, domain.Category) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrNotConfigured
}

func (unconfiguredCatalog) ListActivePromotions(context.Context, time.Time) ([]domain.Promotion, error) {
	return nil, nil
}

func (unconfiguredCatalog) CreatePromotion(context.Context, domain.Promotion) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrNotConfigured
}

func (unconfiguredOrders) CreateOrder(context.Context, domain.NewOrder) (domain.PlacedOrder, error) {
	return domain.PlacedOrder{}, domain.ErrNotConfigured
}

func (unconfiguredOrders) GetOrder(context.Context, uuid.UUID) (domain.Order, error) {
	return domain.Order{}, domain.ErrNotFound
}

func (unconfiguredOrders) ListOrders(context.Context, domain.OrderFilter) ([]domain.Order, error) {
	return nil, nil
}

func (unconfiguredOrders) UpdateOrderStatus(context.Context, uuid.UUID, domain.OrderStatus) (bool, error) {
	return false, domain.ErrNotConfigured
}

func (unconfiguredOrders) GetAnalytics(context.Context, *time.Time, *time.Time) (domain.OrderAnalytics, error) {
	return domain.OrderAnalytics{}, nil
}
