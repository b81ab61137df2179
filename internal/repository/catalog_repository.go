package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
)

type catalogRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) (port.CatalogRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &catalogRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *catalogRepository) ListProducts(ctx context.Context, includeUnavailable bool) ([]domain.Product, error) {
	rows, err := r.q.ListProducts(ctx, includeUnavailable)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products, err := r.assemble(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	if id == uuid.Nil {
		return domain.Product{}, fmt.Errorf("id is empty")
	}

	row, err := r.q.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", notFound(err))
	}

	products, err := r.assemble(ctx, []db.ListProductsRow{db.ListProductsRow(row)})
	if err != nil {
		return domain.Product{}, fmt.Errorf("assemble: %w", err)
	}

	return products[0], nil
}

// CreateProduct stores the product together with its variants and images.
func (r *catalogRepository) CreateProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if err := product.Validate(); err != nil {
		return uuid.Nil, err
	}
	for _, v := range product.Variants {
		if err := v.Validate(); err != nil {
			return uuid.Nil, err
		}
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (uuid.UUID, error) {
		id, err := q.CreateProduct(ctx, db.CreateProductParams{
			Name:          product.Name,
			Description:   product.Description,
			PriceAmount:   product.Price.Amount,
			PriceCurrency: product.Price.Currency.String(),
			Unit:          product.Unit,
			CategoryID:    product.CategoryID,
			Tags:          nonNilTags(product.Tags),
			Available:     product.Available,
			Featured:      product.Featured,
			Rating:        product.Rating,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.CreateProduct: %w", err)
		}

		for _, v := range product.Variants {
			if _, err := createVariant(ctx, q, id, v); err != nil {
				return uuid.Nil, err
			}
		}

		for i, img := range product.Images {
			err := q.CreateProductImage(ctx, db.CreateProductImageParams{
				ProductID:    id,
				ImageUrl:     img.URL,
				IsPrimary:    img.Primary,
				DisplayOrder: int32(i),
			})
			if err != nil {
				return uuid.Nil, fmt.Errorf("q.CreateProductImage: %w", err)
			}
		}

		return id, nil
	})
}

func (r *catalogRepository) UpdateProduct(ctx context.Context, product domain.Product) (bool, error) {
	if product.ID == uuid.Nil {
		return false, fmt.Errorf("id is empty")
	}
	if err := product.Validate(); err != nil {
		return false, err
	}

	rowsAffected, err := r.q.UpdateProduct(ctx, db.UpdateProductParams{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Unit:          product.Unit,
		CategoryID:    product.CategoryID,
		Tags:          nonNilTags(product.Tags),
		Available:     product.Available,
		Featured:      product.Featured,
		Rating:        product.Rating,
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateProduct: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *catalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	rowsAffected, err := r.q.DeleteProduct(ctx, id)
	if err != nil {
		return false, fmt.Errorf("q.DeleteProduct: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *catalogRepository) AddVariant(ctx context.Context, variant domain.ProductVariant) (uuid.UUID, error) {
	if variant.ProductID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("productID is empty")
	}
	if err := variant.Validate(); err != nil {
		return uuid.Nil, err
	}

	return createVariant(ctx, r.q, variant.ProductID, variant)
}

func createVariant(ctx context.Context, q *db.Queries, productID uuid.UUID, v domain.ProductVariant) (uuid.UUID, error) {
	id, err := q.CreateVariant(ctx, db.CreateVariantParams{
		ProductID:     productID,
		WeightKg:      int32(v.WeightKg),
		PriceAmount:   v.Price.Amount,
		PriceCurrency: v.Price.Currency.String(),
		StockQuantity: int32(v.StockQuantity),
		IsActive:      v.Active,
	})
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return uuid.Nil, fmt.Errorf("weight %dkg: %w", v.WeightKg, domain.ErrDuplicateVariant)
		case pgForeignKeyViolation:
			return uuid.Nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("q.CreateVariant: %w", err)
	}

	return id, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	rows, err := r.q.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("q.ListCategories: %w", err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{
			ID:           row.ID,
			Name:         row.Name,
			Description:  stringValue(row.Description),
			DisplayOrder: int(row.DisplayOrder),
			Active:       row.IsActive,
		})
	}

	return categories, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category domain.Category) (uuid.UUID, error) {
	if category.Name == "" {
		return uuid.Nil, fmt.Errorf("category name is empty")
	}

	id, err := r.q.CreateCategory(ctx, db.CreateCategoryParams{
		Name:         category.Name,
		Description:  nullString(category.Description),
		DisplayOrder: int32(category.DisplayOrder),
		IsActive:     category.Active,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.CreateCategory: %w", err)
	}

	return id, nil
}

func (r *catalogRepository) ListActivePromotions(ctx context.Context, at time.Time) ([]domain.Promotion, error) {
	rows, err := r.q.ListActivePromotions(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("q.ListActivePromotions: %w", err)
	}

	promotions := make([]domain.Promotion, 0, len(rows))
	for _, row := range rows {
		promotion, err := mapPromotionToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapPromotionToDomain: %w", err)
		}
		promotions = append(promotions, promotion)
	}

	return promotions, nil
}

func (r *catalogRepository) CreatePromotion(ctx context.Context, p domain.Promotion) (uuid.UUID, error) {
	if p.Title == "" {
		return uuid.Nil, fmt.Errorf("promotion title is empty")
	}
	if p.EndDate.Before(p.StartDate) {
		return uuid.Nil, fmt.Errorf("promotion ends before it starts")
	}

	params := db.CreatePromotionParams{
		Title:           p.Title,
		Description:     p.Description,
		DiscountPercent: p.DiscountPercent,
		Code:            nullString(p.Code),
		Applicable:      string(p.Applicable),
		ApplicableID:    p.ApplicableID,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
	}
	if params.Applicable == "" {
		params.Applicable = string(domain.ApplicableAll)
	}
	if p.MinimumPurchase != nil {
		params.MinimumPurchaseAmount = decimal.NewNullDecimal(p.MinimumPurchase.Amount)
		params.MinimumPurchaseCurrency = nullString(p.MinimumPurchase.Currency.String())
	}

	id, err := r.q.CreatePromotion(ctx, params)
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.CreatePromotion: %w", err)
	}

	return id, nil
}

// assemble attaches variants and images to product rows with one query each.
func (r *catalogRepository) assemble(ctx context.Context, rows []db.ListProductsRow) ([]domain.Product, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	dbVariants, err := r.q.ListVariantsByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.ListVariantsByProductIDs: %w", err)
	}

	dbImages, err := r.q.ListImagesByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.ListImagesByProductIDs: %w", err)
	}

	variants := make(map[uuid.UUID][]domain.ProductVariant, len(rows))
	for _, v := range dbVariants {
		price, err := parseMoney(v.PriceAmount, v.PriceCurrency)
		if err != nil {
			return nil, err
		}
		variants[v.ProductID] = append(variants[v.ProductID], domain.ProductVariant{
			ID:            v.ID,
			ProductID:     v.ProductID,
			WeightKg:      int(v.WeightKg),
			Price:         price,
			StockQuantity: int(v.StockQuantity),
			Active:        v.IsActive,
		})
	}

	images := make(map[uuid.UUID][]domain.ProductImage, len(rows))
	for _, img := range dbImages {
		images[img.ProductID] = append(images[img.ProductID], domain.ProductImage{
			URL:          img.ImageUrl,
			Primary:      img.IsPrimary,
			DisplayOrder: int(img.DisplayOrder),
		})
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		price, err := parseMoney(row.PriceAmount, row.PriceCurrency)
		if err != nil {
			return nil, err
		}

		products = append(products, domain.Product{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Price:       price,
			Unit:        row.Unit,
			CategoryID:  row.CategoryID,
			Category:    stringValue(row.CategoryName),
			Tags:        row.Tags,
			Available:   row.Available,
			Featured:    row.Featured,
			Rating:      row.Rating,
			Variants:    variants[row.ID],
			Images:      images[row.ID],
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}

	return products, nil
}

func mapPromotionToDomain(row db.Promotion) (domain.Promotion, error) {
	p := domain.Promotion{
		ID:              row.ID,
		Title:           row.Title,
		Description:     row.Description,
		DiscountPercent: row.DiscountPercent,
		Code:            stringValue(row.Code),
		Applicable:      domain.Applicability(row.Applicable),
		ApplicableID:    row.ApplicableID,
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
	}

	if row.MinimumPurchaseAmount.Valid {
		minimum, err := parseMoney(row.MinimumPurchaseAmount.Decimal, stringValue(row.MinimumPurchaseCurrency))
		if err != nil {
			return domain.Promotion{}, err
		}
		p.MinimumPurchase = &minimum
	}

	return p, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
