package domain

import (
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

// CartItem is a selected product, optionally narrowed to one weight variant.
// Quantity is always at least 1 while the item is in a cart.
type CartItem struct {
	Product  Product
	Quantity int
	Variant  *ProductVariant
	WeightKg *int
}

// ItemKey identifies a cart entry. VariantID is uuid.Nil for variant-less entries.
type ItemKey struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
}

func KeyOf(productID uuid.UUID, variantID *uuid.UUID) ItemKey {
	key := ItemKey{ProductID: productID}
	if variantID != nil {
		key.VariantID = *variantID
	}
	return key
}

func (k ItemKey) HasVariant() bool {
	return k.VariantID != uuid.Nil
}

func (k ItemKey) String() string {
	if !k.HasVariant() {
		return k.ProductID.String()
	}
	return k.ProductID.String() + "-" + k.VariantID.String()
}

func (i CartItem) Key() ItemKey {
	if i.Variant == nil {
		return ItemKey{ProductID: i.Product.ID}
	}
	return ItemKey{ProductID: i.Product.ID, VariantID: i.Variant.ID}
}

// UnitPrice is the variant price when a variant is selected, else the product price.
func (i CartItem) UnitPrice() Money {
	if i.Variant != nil {
		return i.Variant.Price
	}
	return i.Product.Price
}

func (i CartItem) Subtotal() Money {
	return i.UnitPrice().Mul(i.Quantity)
}

func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c Cart) TotalPrice(cur currency.Unit) (Money, error) {
	total := ZeroMoney(cur)
	for _, item := range c.Items {
		var err error
		total, err = total.Add(item.Subtotal())
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
