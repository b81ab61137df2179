package cart_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/storage"
	"github.com/shopspring/decimal"
)

type cartTestContext struct {
	storage  *storage.Memory
	store    *cart.Store
	products map[string]domain.Product
	err      error
}

func (c *cartTestContext) reset(ctx context.Context) error {
	c.storage = storage.NewMemory()
	c.products = make(map[string]domain.Product)
	c.err = nil

	store, err := cart.NewStore(ctx, c.storage)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *cartTestContext) anEmptyCart() error {
	if c.store.Len() != 0 {
		return fmt.Errorf("expected empty cart, got %d entries", c.store.Len())
	}
	return nil
}

func (c *cartTestContext) aProductPricedPer(name string, price int, unit string) error {
	c.products[name] = domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     ugx(int64(price)),
		Unit:      unit,
		Available: true,
	}
	return nil
}

func (c *cartTestContext) theProductHasAVariantPriced(name string, weight, price int) error {
	product, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}

	product.Variants = append(product.Variants, domain.ProductVariant{
		ID:            uuid.New(),
		ProductID:     product.ID,
		WeightKg:      weight,
		Price:         ugx(int64(price)),
		StockQuantity: 100,
		Active:        true,
	})
	c.products[name] = product
	return nil
}

func (c *cartTestContext) iAddOf(ctx context.Context, quantity int, name string) error {
	product, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	c.err = c.store.AddItem(ctx, product, quantity, nil)
	return c.err
}

func (c *cartTestContext) iAddOfIn(ctx context.Context, quantity int, name string, weight int) error {
	product, variant, err := c.variant(name, weight)
	if err != nil {
		return err
	}
	c.err = c.store.AddItem(ctx, product, quantity, &variant)
	return c.err
}

func (c *cartTestContext) iSetTheQuantityOfTo(ctx context.Context, name string, quantity int) error {
	product, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	c.err = c.store.UpdateQuantity(ctx, product.ID, quantity, nil)
	return c.err
}

func (c *cartTestContext) iRemove(ctx context.Context, name string) error {
	product, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	_, c.err = c.store.RemoveItem(ctx, product.ID, nil)
	return nil
}

func (c *cartTestContext) iClearTheCart(ctx context.Context) error {
	c.err = c.store.Clear(ctx)
	return c.err
}

func (c *cartTestContext) theCartIsReloadedFromStorage(ctx context.Context) error {
	store, err := cart.NewStore(ctx, c.storage)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *cartTestContext) theCartHasEntries(count int) error {
	if got := c.store.Len(); got != count {
		return fmt.Errorf("expected %d entries, got %d", count, got)
	}
	return nil
}

func (c *cartTestContext) theCartHoldsItems(count int) error {
	if got := c.store.TotalItems(); got != count {
		return fmt.Errorf("expected %d items, got %d", count, got)
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(amount int) error {
	total := c.store.TotalPrice()
	if !total.Amount.Equal(decimal.NewFromInt(int64(amount))) {
		return fmt.Errorf("expected total %d, got %s", amount, total)
	}
	return nil
}

func (c *cartTestContext) theOperationFailsWith(fragment string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error containing %q", fragment)
	}
	if !strings.Contains(c.err.Error(), fragment) {
		return fmt.Errorf("expected error containing %q, got %q", fragment, c.err.Error())
	}
	return nil
}

func (c *cartTestContext) variant(name string, weight int) (domain.Product, domain.ProductVariant, error) {
	product, ok := c.products[name]
	if !ok {
		return domain.Product{}, domain.ProductVariant{}, fmt.Errorf("unknown product %q", name)
	}

	for _, v := range product.Variants {
		if v.WeightKg == weight {
			return product, v, nil
		}
	}

	return domain.Product{}, domain.ProductVariant{}, fmt.Errorf("product %q has no %dkg variant", name, weight)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset(ctx)
	})

	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^a product "([^"]*)" priced (\d+) UGX per "([^"]*)"$`, tc.aProductPricedPer)
	ctx.Step(`^the product "([^"]*)" has a (\d+)kg variant priced (\d+) UGX$`, tc.theProductHasAVariantPriced)

	ctx.Step(`^I add (\d+) of "([^"]*)"$`, tc.iAddOf)
	ctx.Step(`^I add (\d+) of "([^"]*)" in (\d+)kg$`, tc.iAddOfIn)
	ctx.Step(`^I set the quantity of "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfTo)
	ctx.Step(`^I remove "([^"]*)"$`, tc.iRemove)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^the cart is reloaded from storage$`, tc.theCartIsReloadedFromStorage)

	ctx.Step(`^the cart has (\d+) entr(?:y|ies)$`, tc.theCartHasEntries)
	ctx.Step(`^the cart holds (\d+) items$`, tc.theCartHoldsItems)
	ctx.Step(`^the cart total is (\d+) UGX$`, tc.theCartTotalIs)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
