package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const PlaceholderImage = "/images/placeholder.jpg"

// StandardWeights are the weight options offered by the admin UI. Other positive weights are accepted.
var StandardWeights = []int{10, 25, 50}

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       Money
	Unit        string
	CategoryID  *uuid.UUID
	Category    string
	Tags        []string
	Available   bool
	Featured    bool
	Rating      *float64
	Variants    []ProductVariant
	Images      []ProductImage

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductVariant struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	WeightKg      int
	Price         Money
	StockQuantity int
	Active        bool
}

type ProductImage struct {
	URL          string
	Primary      bool
	DisplayOrder int
}

type Category struct {
	ID           uuid.UUID
	Name         string
	Description  string
	DisplayOrder int
	Active       bool
}

// PrimaryImage picks the image flagged primary, then the first image, then the placeholder.
func (p Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.Primary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return PlaceholderImage
}

func (p Product) FindVariant(id uuid.UUID) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return ProductVariant{}, false
}

func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is empty")
	}
	if p.Price.Amount.IsNegative() {
		return fmt.Errorf("product price is negative")
	}
	if p.Unit == "" {
		return fmt.Errorf("product unit is empty")
	}
	return nil
}

func (v ProductVariant) Validate() error {
	if v.WeightKg <= 0 {
		return fmt.Errorf("variant weight must be positive")
	}
	if !v.Price.IsPositive() {
		return fmt.Errorf("variant price must be positive")
	}
	if v.StockQuantity < 0 {
		return fmt.Errorf("variant stock quantity is negative")
	}
	return nil
}
