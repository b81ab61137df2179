package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Applicability string

const (
	ApplicableAll      Applicability = "all"
	ApplicableCategory Applicability = "category"
	ApplicableProduct  Applicability = "product"
)

var hundred = decimal.NewFromInt(100)

type Promotion struct {
	ID              uuid.UUID
	Title           string
	Description     string
	DiscountPercent decimal.Decimal
	Code            string
	Applicable      Applicability
	ApplicableID    *uuid.UUID
	MinimumPurchase *Money
	StartDate       time.Time
	EndDate         time.Time
}

func (p Promotion) IsActive(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// DaysRemaining rounds partial days up and never goes below zero.
func (p Promotion) DaysRemaining(now time.Time) int {
	left := p.EndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

func (p Promotion) AppliesTo(product Product) bool {
	switch p.Applicable {
	case ApplicableAll:
		return true
	case ApplicableCategory:
		return p.ApplicableID != nil && product.CategoryID != nil && *product.CategoryID == *p.ApplicableID
	case ApplicableProduct:
		return p.ApplicableID != nil && product.ID == *p.ApplicableID
	}
	return false
}

// Discount is the percentage of the applicable subtotal, zero until the minimum purchase
// is reached, and never more than that subtotal.
func (p Promotion) Discount(cart Cart, now time.Time) (Money, error) {
	if len(cart.Items) == 0 {
		return Money{}, ErrEmptyCart
	}

	cur := cart.Items[0].UnitPrice().Currency
	applicable := ZeroMoney(cur)
	for _, item := range cart.Items {
		if !p.AppliesTo(item.Product) {
			continue
		}
		var err error
		if applicable, err = applicable.Add(item.Subtotal()); err != nil {
			return Money{}, err
		}
	}

	if !p.IsActive(now) || applicable.Amount.IsZero() {
		return ZeroMoney(cur), nil
	}

	if p.MinimumPurchase != nil {
		total, err := cart.TotalPrice(cur)
		if err != nil {
			return Money{}, err
		}
		if total.Amount.LessThan(p.MinimumPurchase.Amount) {
			return ZeroMoney(cur), nil
		}
	}

	percent := decimal.Max(decimal.Zero, decimal.Min(p.DiscountPercent, hundred))
	discount := applicable.Amount.Mul(percent).Div(hundred).Round(2)
	if discount.GreaterThan(applicable.Amount) {
		discount = applicable.Amount
	}

	return Money{Amount: discount, Currency: cur}, nil
}
