package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type CatalogRepository interface {
	ListProducts(ctx context.Context, includeUnavailable bool) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, product domain.Product) (bool, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)
	AddVariant(ctx context.Context, variant domain.ProductVariant) (uuid.UUID, error)

	ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (uuid.UUID, error)

	ListActivePromotions(ctx context.Context, at time.Time) ([]domain.Promotion, error)
	CreatePromotion(ctx context.Context, promotion domain.Promotion) (uuid.UUID, error)
}
