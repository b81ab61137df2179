package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// AllProducts lists every product, unavailable ones included.
func (s *Service) AllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("repo.ListProducts: %w", err)
	}
	return products, nil
}

func (s *Service) AdminProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("repo.GetProduct: %w", err)
	}
	return product, nil
}

func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if err := product.Validate(); err != nil {
		return uuid.Nil, invalid(err)
	}
	for _, v := range product.Variants {
		if err := v.Validate(); err != nil {
			return uuid.Nil, invalid(err)
		}
	}

	id, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.CreateProduct: %w", err)
	}

	s.publish(domain.ProductCreated, id)

	return id, nil
}

func (s *Service) UpdateProduct(ctx context.Context, product domain.Product) error {
	if product.ID == uuid.Nil {
		return invalid(fmt.Errorf("product id is empty"))
	}
	if err := product.Validate(); err != nil {
		return invalid(err)
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return fmt.Errorf("repo.UpdateProduct: %w", err)
	}
	if !updated {
		return fmt.Errorf("product %s: %w", product.ID, domain.ErrNotFound)
	}

	s.publish(domain.ProductUpdated, product.ID)

	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("repo.DeleteProduct: %w", err)
	}
	if !deleted {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	s.publish(domain.ProductDeleted, id)

	return nil
}

func (s *Service) AddVariant(ctx context.Context, variant domain.ProductVariant) (uuid.UUID, error) {
	if variant.ProductID == uuid.Nil {
		return uuid.Nil, invalid(fmt.Errorf("variant product id is empty"))
	}
	if err := variant.Validate(); err != nil {
		return uuid.Nil, invalid(err)
	}

	id, err := s.repo.AddVariant(ctx, variant)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.AddVariant: %w", err)
	}

	s.publish(domain.ProductUpdated, variant.ProductID)

	return id, nil
}

func (s *Service) CreateCategory(ctx context.Context, category domain.Category) (uuid.UUID, error) {
	if strings.TrimSpace(category.Name) == "" {
		return uuid.Nil, invalid(fmt.Errorf("category name is empty"))
	}

	id, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.CreateCategory: %w", err)
	}

	s.publish(domain.RefreshProducts, uuid.Nil)

	return id, nil
}

func (s *Service) CreatePromotion(ctx context.Context, promotion domain.Promotion) (uuid.UUID, error) {
	switch {
	case strings.TrimSpace(promotion.Title) == "":
		return uuid.Nil, invalid(fmt.Errorf("promotion title is empty"))
	case promotion.EndDate.Before(promotion.StartDate):
		return uuid.Nil, invalid(fmt.Errorf("promotion ends before it starts"))
	case promotion.DiscountPercent.IsNegative() || promotion.DiscountPercent.GreaterThan(decimal.NewFromInt(100)):
		return uuid.Nil, invalid(fmt.Errorf("discount percent must be within 0 and 100"))
	}

	id, err := s.repo.CreatePromotion(ctx, promotion)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.CreatePromotion: %w", err)
	}
	return id, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
}

func (s *Service) publish(kind domain.ProductEventKind, id uuid.UUID) {
	s.publisher.Publish(domain.ProductEvent{Kind: kind, ProductID: id, At: s.now()})
}
