package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// snapshot is the persisted form of a cart, stored as JSON under StorageKey.
type snapshot struct {
	Items   []itemDTO `json:"items"`
	SavedAt time.Time `json:"saved_at"`
}

type itemDTO struct {
	Product  productDTO  `json:"product"`
	Quantity int         `json:"quantity"`
	Variant  *variantDTO `json:"variant,omitempty"`
	WeightKg *int        `json:"weight_kg,omitempty"`
}

type moneyDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type productDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       moneyDTO     `json:"price"`
	Unit        string       `json:"unit"`
	CategoryID  *uuid.UUID   `json:"category_id,omitempty"`
	Category    string       `json:"category,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Available   bool         `json:"available"`
	Featured    bool         `json:"featured,omitempty"`
	Rating      *float64     `json:"rating,omitempty"`
	Variants    []variantDTO `json:"variants,omitempty"`
	Images      []imageDTO   `json:"images,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type variantDTO struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	WeightKg      int       `json:"weight_kg"`
	Price         moneyDTO  `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Active        bool      `json:"active"`
}

type imageDTO struct {
	URL          string `json:"url"`
	Primary      bool   `json:"primary,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

func encodeSnapshot(items []domain.CartItem, savedAt time.Time) ([]byte, error) {
	s := snapshot{
		Items:   make([]itemDTO, 0, len(items)),
		SavedAt: savedAt,
	}

	for _, item := range items {
		dto := itemDTO{
			Product:  toProductDTO(item.Product),
			Quantity: item.Quantity,
			WeightKg: item.WeightKg,
		}
		if item.Variant != nil {
			v := toVariantDTO(*item.Variant)
			dto.Variant = &v
		}
		s.Items = append(s.Items, dto)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// decodeSnapshot rejects the whole snapshot if any entry is invalid or priced in another currency.
// A bare JSON array is the legacy layout written by the browser storefront.
func decodeSnapshot(data []byte, cur currency.Unit) ([]domain.CartItem, error) {
	var (
		items []domain.CartItem
		err   error
	)
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		items, err = decodeLegacy(trimmed, cur)
	} else {
		items, err = decodeCurrent(data)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.ItemKey]struct{}, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("item[%d]: %w", i, domain.ErrInvalidQuantity)
		}
		if item.UnitPrice().Currency != cur {
			return nil, fmt.Errorf("item[%d]: %w", i, domain.ErrCurrencyMismatch)
		}
		if _, dup := seen[item.Key()]; dup {
			return nil, fmt.Errorf("item[%d]: duplicate key %s", i, item.Key())
		}
		seen[item.Key()] = struct{}{}
	}

	return items, nil
}

func decodeCurrent(data []byte) ([]domain.CartItem, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.CartItem, 0, len(s.Items))
	for i, dto := range s.Items {
		item, err := fromItemDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// legacyItem is one entry of the legacy array: plain number prices in the store currency,
// a single image URL and the chosen variant under selectedVariant.
type legacyItem struct {
	Product struct {
		ID          uuid.UUID       `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Image       string          `json:"image"`
		Category    string          `json:"category"`
		Tags        []string        `json:"tags"`
		Available   bool            `json:"available"`
		Featured    bool            `json:"featured"`
		Rating      *float64        `json:"rating"`
		Unit        string          `json:"unit"`
	} `json:"product"`
	Quantity        int `json:"quantity"`
	SelectedVariant *struct {
		ID            uuid.UUID       `json:"id"`
		ProductID     uuid.UUID       `json:"product_id"`
		WeightKg      int             `json:"weight_kg"`
		Price         decimal.Decimal `json:"price"`
		StockQuantity int             `json:"stock_quantity"`
		IsActive      bool            `json:"is_active"`
	} `json:"selectedVariant"`
	WeightKg *int `json:"weight_kg"`
}

func decodeLegacy(data []byte, cur currency.Unit) ([]domain.CartItem, error) {
	var legacy []legacyItem
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("json.Unmarshal legacy: %w", err)
	}

	items := make([]domain.CartItem, 0, len(legacy))
	for i, l := range legacy {
		if l.Product.ID == uuid.Nil {
			return nil, fmt.Errorf("item[%d]: product id is empty", i)
		}

		product := domain.Product{
			ID:          l.Product.ID,
			Name:        l.Product.Name,
			Description: l.Product.Description,
			Price:       domain.Money{Amount: l.Product.Price, Currency: cur},
			Unit:        l.Product.Unit,
			Category:    l.Product.Category,
			Tags:        l.Product.Tags,
			Available:   l.Product.Available,
			Featured:    l.Product.Featured,
			Rating:      l.Product.Rating,
		}
		if l.Product.Image != "" {
			product.Images = []domain.ProductImage{{URL: l.Product.Image, Primary: true}}
		}

		item := domain.CartItem{Product: product, Quantity: l.Quantity, WeightKg: l.WeightKg}
		if v := l.SelectedVariant; v != nil {
			item.Variant = &domain.ProductVariant{
				ID:            v.ID,
				ProductID:     v.ProductID,
				WeightKg:      v.WeightKg,
				Price:         domain.Money{Amount: v.Price, Currency: cur},
				StockQuantity: v.StockQuantity,
				Active:        v.IsActive,
			}
			if item.WeightKg == nil {
				weight := v.WeightKg
				item.WeightKg = &weight
			}
		}

		items = append(items, item)
	}

	return items, nil
}

func toMoneyDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.Amount, Currency: m.Currency.String()}
}

func fromMoneyDTO(dto moneyDTO) (domain.Money, error) {
	cur, err := currency.ParseISO(dto.Currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", dto.Currency, err)
	}
	return domain.Money{Amount: dto.Amount, Currency: cur}, nil
}

func toProductDTO(p domain.Product) productDTO {
	dto := productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       toMoneyDTO(p.Price),
		Unit:        p.Unit,
		CategoryID:  p.CategoryID,
		Category:    p.Category,
		Tags:        p.Tags,
		Available:   p.Available,
		Featured:    p.Featured,
		Rating:      p.Rating,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, v := range p.Variants {
		dto.Variants = append(dto.Variants, toVariantDTO(v))
	}
	for _, img := range p.Images {
		dto.Images = append(dto.Images, imageDTO(img))
	}
	return dto
}

func toVariantDTO(v domain.ProductVariant) variantDTO {
	return variantDTO{
		ID:            v.ID,
		ProductID:     v.ProductID,
		WeightKg:      v.WeightKg,
		Price:         toMoneyDTO(v.Price),
		StockQuantity: v.StockQuantity,
		Active:        v.Active,
	}
}

func fromVariantDTO(dto variantDTO) (domain.ProductVariant, error) {
	price, err := fromMoneyDTO(dto.Price)
	if err != nil {
		return domain.ProductVariant{}, err
	}
	return domain.ProductVariant{
		ID:            dto.ID,
		ProductID:     dto.ProductID,
		WeightKg:      dto.WeightKg,
		Price:         price,
		StockQuantity: dto.StockQuantity,
		Active:        dto.Active,
	}, nil
}

func fromItemDTO(dto itemDTO) (domain.CartItem, error) {
	if dto.Product.ID == uuid.Nil {
		return domain.CartItem{}, fmt.Errorf("product id is empty")
	}

	price, err := fromMoneyDTO(dto.Product.Price)
	if err != nil {
		return domain.CartItem{}, err
	}

	product := domain.Product{
		ID:          dto.Product.ID,
		Name:        dto.Product.Name,
		Description: dto.Product.Description,
		Price:       price,
		Unit:        dto.Product.Unit,
		CategoryID:  dto.Product.CategoryID,
		Category:    dto.Product.Category,
		Tags:        dto.Product.Tags,
		Available:   dto.Product.Available,
		Featured:    dto.Product.Featured,
		Rating:      dto.Product.Rating,
		CreatedAt:   dto.Product.CreatedAt,
		UpdatedAt:   dto.Product.UpdatedAt,
	}
	for _, v := range dto.Product.Variants {
		variant, err := fromVariantDTO(v)
		if err != nil {
			return domain.CartItem{}, err
		}
		product.Variants = append(product.Variants, variant)
	}
	for _, img := range dto.Product.Images {
		product.Images = append(product.Images, domain.ProductImage(img))
	}

	item := domain.CartItem{
		Product:  product,
		Quantity: dto.Quantity,
		WeightKg: dto.WeightKg,
	}
	if dto.Variant != nil {
		variant, err := fromVariantDTO(*dto.Variant)
		if err != nil {
			return domain.CartItem{}, err
		}
		item.Variant = &variant
	}

	return item, nil
}
