package httpapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MoneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type ProductResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Price        MoneyDTO          `json:"price"`
	Unit         string            `json:"unit"`
	CategoryID   *uuid.UUID        `json:"category_id,omitempty"`
	Category     string            `json:"category,omitempty"`
	Tags         []string          `json:"tags"`
	Available    bool              `json:"available"`
	Featured     bool              `json:"featured"`
	Rating       *float64          `json:"rating,omitempty"`
	PrimaryImage string            `json:"primary_image"`
	Images       []ImageDTO        `json:"images"`
	Variants     []VariantResponse `json:"variants"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type ImageDTO struct {
	URL     string `json:"url"`
	Primary bool   `json:"primary"`
}

type VariantResponse struct {
	ID            uuid.UUID `json:"id"`
	WeightKg      int       `json:"weight_kg"`
	Price         MoneyDTO  `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Active        bool      `json:"active"`
}

type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
}

type PromotionResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent string     `json:"discount_percent"`
	Code            string     `json:"code,omitempty"`
	Applicable      string     `json:"applicable"`
	ApplicableID    *uuid.UUID `json:"applicable_id,omitempty"`
	MinimumPurchase *MoneyDTO  `json:"minimum_purchase,omitempty"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	DaysRemaining   int        `json:"days_remaining"`
}

type CartItemResponse struct {
	Key       string           `json:"key"`
	Product   ProductResponse  `json:"product"`
	Quantity  int              `json:"quantity"`
	Variant   *VariantResponse `json:"variant,omitempty"`
	WeightKg  *int             `json:"weight_kg,omitempty"`
	UnitPrice MoneyDTO         `json:"unit_price"`
	Subtotal  MoneyDTO         `json:"subtotal"`
}

type CartResponse struct {
	Items         []CartItemResponse `json:"items"`
	TotalItems    int                `json:"total_items"`
	TotalPrice    MoneyDTO           `json:"total_price"`
	PromotionCode string             `json:"promotion_code,omitempty"`
	Discount      *MoneyDTO          `json:"discount,omitempty"`
}

type AddItemRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  *int       `json:"quantity,omitempty"`
}

type UpdateQuantityRequest struct {
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}

type CheckoutRequest struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type CheckoutResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Message     string    `json:"message"`
	Link        string    `json:"link"`
	Notice      string    `json:"notice"`
	Total       MoneyDTO  `json:"total"`
}

type ThemeDTO struct {
	Theme string `json:"theme"`
}

type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Unit        string           `json:"unit"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Tags        []string         `json:"tags"`
	Available   bool             `json:"available"`
	Featured    bool             `json:"featured"`
	Rating      *float64         `json:"rating,omitempty"`
	Images      []ImageDTO       `json:"images"`
	Variants    []VariantRequest `json:"variants"`
}

type VariantRequest struct {
	WeightKg      int             `json:"weight_kg"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Active        *bool           `json:"active,omitempty"`
}

type CategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active,omitempty"`
}

type PromotionRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	Code            string           `json:"code"`
	Applicable      string           `json:"applicable"`
	ApplicableID    *uuid.UUID       `json:"applicable_id,omitempty"`
	MinimumPurchase *decimal.Decimal `json:"minimum_purchase,omitempty"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
}

type OrderLineResponse struct {
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	ProductName string     `json:"product_name"`
	Unit        string     `json:"unit"`
	Quantity    int        `json:"quantity"`
	UnitPrice   MoneyDTO   `json:"unit_price"`
	TotalPrice  MoneyDTO   `json:"total_price"`
}

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerName  string              `json:"customer_name"`
	Email         string              `json:"email,omitempty"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Lines         []OrderLineResponse `json:"lines"`
	Total         MoneyDTO            `json:"total"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AnalyticsResponse struct {
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      string          `json:"total_revenue"`
	AverageOrderValue string          `json:"average_order_value"`
	PendingOrders     int64           `json:"pending_orders"`
	CompletedOrders   int64           `json:"completed_orders"`
	TotalCustomers    int64           `json:"total_customers"`
	RecentOrders      []OrderResponse `json:"recent_orders"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func mapMoney(m domain.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount.String(), Currency: m.Currency.String()}
}

func mapProduct(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        mapMoney(p.Price),
		Unit:         p.Unit,
		CategoryID:   p.CategoryID,
		Category:     p.Category,
		Tags:         p.Tags,
		Available:    p.Available,
		Featured:     p.Featured,
		Rating:       p.Rating,
		PrimaryImage: p.PrimaryImage(),
		Images:       make([]ImageDTO, 0, len(p.Images)),
		Variants:     make([]VariantResponse, 0, len(p.Variants)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, ImageDTO{URL: img.URL, Primary: img.Primary})
	}
	for _, v := range p.Variants {
		resp.Variants = append(resp.Variants, mapVariant(v))
	}
	return resp
}

func mapProducts(products []domain.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, mapProduct(p))
	}
	return resp
}

func mapVariant(v domain.ProductVariant) VariantResponse {
	return VariantResponse{
		ID:            v.ID,
		WeightKg:      v.WeightKg,
		Price:         mapMoney(v.Price),
		StockQuantity: v.StockQuantity,
		Active:        v.Active,
	}
}

func mapCategories(categories []domain.Category) []CategoryResponse {
	resp := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, CategoryResponse{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			DisplayOrder: c.DisplayOrder,
			Active:       c.Active,
		})
	}
	return resp
}

func mapPromotion(p domain.Promotion, now time.Time) PromotionResponse {
	resp := PromotionResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		DiscountPercent: p.DiscountPercent.String(),
		Code:            p.Code,
		Applicable:      string(p.Applicable),
		ApplicableID:    p.ApplicableID,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		DaysRemaining:   p.DaysRemaining(now),
	}
	if p.MinimumPurchase != nil {
		m := mapMoney(*p.MinimumPurchase)
		resp.MinimumPurchase = &m
	}
	return resp
}

func mapCart(store *cart.Store) CartResponse {
	items := store.Items()

	resp := CartResponse{
		Items:      make([]CartItemResponse, 0, len(items)),
		TotalItems: store.TotalItems(),
		TotalPrice: mapMoney(store.TotalPrice()),
	}

	for _, item := range items {
		ir := CartItemResponse{
			Key:       item.Key().String(),
			Product:   mapProduct(item.Product),
			Quantity:  item.Quantity,
			WeightKg:  item.WeightKg,
			UnitPrice: mapMoney(item.UnitPrice()),
			Subtotal:  mapMoney(item.Subtotal()),
		}
		if item.Variant != nil {
			v := mapVariant(*item.Variant)
			ir.Variant = &v
		}
		resp.Items = append(resp.Items, ir)
	}

	return resp
}

func mapOrder(o domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.Customer.Name,
		Email:         o.Customer.Email,
		Phone:         o.Customer.Phone,
		Address:       o.Customer.Address,
		Lines:         make([]OrderLineResponse, 0, len(o.Lines)),
		Total:         mapMoney(o.Total),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   mapMoney(l.UnitPrice),
			TotalPrice:  mapMoney(l.TotalPrice),
		})
	}
	return resp
}

func mapOrders(orders []domain.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	return resp
}

func mapAnalytics(a domain.OrderAnalytics) AnalyticsResponse {
	return AnalyticsResponse{
		TotalOrders:       a.TotalOrders,
		TotalRevenue:      a.TotalRevenue.String(),
		AverageOrderValue: a.AverageOrderValue.String(),
		PendingOrders:     a.PendingOrders,
		CompletedOrders:   a.CompletedOrders,
		TotalCustomers:    a.TotalCustomers,
		RecentOrders:      mapOrders(a.RecentOrders),
	}
}

func (req ProductRequest) toDomain(id uuid.UUID, cur currency.Unit) domain.Product {
	p := domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       domain.Money{Amount: req.Price, Currency: cur},
		Unit:        req.Unit,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		Available:   req.Available,
		Featured:    req.Featured,
		Rating:      req.Rating,
	}
	for i, img := range req.Images {
		p.Images = append(p.Images, domain.ProductImage{URL: img.URL, Primary: img.Primary, DisplayOrder: i})
	}
	for _, v := range req.Variants {
		p.Variants = append(p.Variants, v.toDomain(id, cur))
	}
	return p
}

func (req VariantRequest) toDomain(productID uuid.UUID, cur currency.Unit) domain.ProductVariant {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return domain.ProductVariant{
		ProductID:     productID,
		WeightKg:      req.WeightKg,
		Price:         domain.Money{Amount: req.Price, Currency: cur},
		StockQuantity: req.StockQuantity,
		Active:        active,
	}
}

func (req CategoryRequest) toDomain() domain.Category {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return domain.Category{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		Active:       active,
	}
}

func (req PromotionRequest) toDomain(cur currency.Unit) (domain.Promotion, error) {
	applicable := domain.Applicability(req.Applicable)
	switch applicable {
	case "":
		applicable = domain.ApplicableAll
	case domain.ApplicableAll:
	case domain.ApplicableCategory, domain.ApplicableProduct:
		if req.ApplicableID == nil {
			return domain.Promotion{}, fmt.Errorf("applicable_id is required for %s promotions", applicable)
		}
	default:
		return domain.Promotion{}, fmt.Errorf("unknown applicable %q", req.Applicable)
	}

	p := domain.Promotion{
		Title:           req.Title,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		Code:            req.Code,
		Applicable:      applicable,
		ApplicableID:    req.ApplicableID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	}
	if req.MinimumPurchase != nil {
		p.MinimumPurchase = &domain.Money{Amount: *req.MinimumPurchase, Currency: cur}
	}
	return p, nil
}
