package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// StorageKey is the client storage key holding the cart snapshot.
const StorageKey = "cart"

var DefaultCurrency = currency.MustParseISO("UGX")

// Store is the authoritative set of items a client intends to buy.
// It is restored from storage once at construction and persisted after every mutation.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartItem

	storage        port.Storage
	currency       currency.Unit
	checkInventory bool
	logger         *zap.Logger
	observe        func(op string)
	now            func() time.Time
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithCurrency(cur currency.Unit) Option {
	return func(s *Store) {
		s.currency = cur
	}
}

// WithInventoryChecks rejects unavailable products, inactive variants and quantities above variant stock.
func WithInventoryChecks() Option {
	return func(s *Store) {
		s.checkInventory = true
	}
}

// WithObserver is called with the operation name after each persisted mutation.
func WithObserver(fn func(op string)) Option {
	return func(s *Store) {
		s.observe = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(ctx context.Context, storage port.Storage, opts ...Option) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}

	s := &Store{
		storage:  storage,
		currency: DefaultCurrency,
		logger:   zap.NewNop(),
		observe:  func(string) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.restore(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) restore(ctx context.Context) error {
	data, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage.Get: %w", err)
	}

	items, err := decodeSnapshot(data, s.currency)
	if err != nil {
		s.logger.Warn("discarding unreadable cart snapshot",
			zap.String("key", StorageKey), zap.Error(err))
		return nil
	}

	s.items = items
	return nil
}

// AddItem merges quantity into the entry with the same product and variant, or appends a new entry.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int, variant *domain.ProductVariant) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if product.ID == uuid.Nil {
		return fmt.Errorf("product id is empty")
	}
	if variant != nil && variant.ProductID != uuid.Nil && variant.ProductID != product.ID {
		return domain.ErrVariantMismatch
	}

	item := domain.CartItem{Product: product, Quantity: quantity}
	if variant != nil {
		v := *variant
		weight := v.WeightKg
		item.Variant = &v
		item.WeightKg = &weight
	}

	if price := item.UnitPrice(); price.Currency != s.currency {
		return fmt.Errorf("%w: cart is in %s, price is in %s", domain.ErrCurrencyMismatch, s.currency, price.Currency)
	}

	s.logger.Debug("adding item",
		zap.String("product_id", product.ID.String()),
		zap.String("key", item.Key().String()),
		zap.Int("quantity", quantity))

	return s.mutate(ctx, "add", func(items []domain.CartItem) ([]domain.CartItem, error) {
		idx := slices.IndexFunc(items, func(i domain.CartItem) bool { return i.Key() == item.Key() })
		if idx < 0 {
			if err := s.inventory(item, quantity); err != nil {
				return nil, err
			}
			return append(items, item), nil
		}

		total := items[idx].Quantity + quantity
		if err := s.inventory(item, total); err != nil {
			return nil, err
		}
		items[idx].Quantity = total
		return items, nil
	})
}

// RemoveItem deletes the matching entry and reports whether one existed.
// Without a variant id only the variant-less entry matches.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (bool, error) {
	removed := false

	err := s.mutate(ctx, "remove", func(items []domain.CartItem) ([]domain.CartItem, error) {
		idx, err := find(items, productID, variantID)
		if err != nil || idx < 0 {
			return nil, err
		}

		removed = true
		return slices.Delete(items, idx, idx+1), nil
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}

// UpdateQuantity replaces the quantity of the matching entry. A quantity of zero or less removes it.
// Updating an entry that is not in the cart is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int, variantID *uuid.UUID) error {
	if quantity <= 0 {
		_, err := s.RemoveItem(ctx, productID, variantID)
		return err
	}

	return s.mutate(ctx, "update", func(items []domain.CartItem) ([]domain.CartItem, error) {
		idx, err := find(items, productID, variantID)
		if err != nil || idx < 0 {
			return nil, err
		}

		if err := s.inventory(items[idx], quantity); err != nil {
			return nil, err
		}
		items[idx].Quantity = quantity
		return items, nil
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func([]domain.CartItem) ([]domain.CartItem, error) {
		return []domain.CartItem{}, nil
	})
}

// Settle subtracts ordered quantities from the matching entries and drops entries that reach zero.
// Items added or increased after the snapshot was taken stay in the cart.
func (s *Store) Settle(ctx context.Context, ordered []domain.CartItem) error {
	return s.mutate(ctx, "settle", func(items []domain.CartItem) ([]domain.CartItem, error) {
		for _, o := range ordered {
			idx := slices.IndexFunc(items, func(i domain.CartItem) bool { return i.Key() == o.Key() })
			if idx < 0 {
				continue
			}
			items[idx].Quantity -= o.Quantity
		}

		return slices.DeleteFunc(items, func(i domain.CartItem) bool { return i.Quantity <= 0 }), nil
	})
}

func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

func (s *Store) Cart() domain.Cart {
	return domain.Cart{Items: s.Items()}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Cart{Items: s.items}.TotalItems()
}

// TotalPrice never fails: every entry is priced in the store currency.
func (s *Store) TotalPrice() domain.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amount := decimal.Zero
	for _, item := range s.items {
		amount = amount.Add(item.Subtotal().Amount)
	}

	return domain.Money{Amount: amount, Currency: s.currency}
}

func (s *Store) Currency() currency.Unit {
	return s.currency
}

// mutate applies fn to a copy of the items and commits the copy only once it is persisted.
// fn returning nil items with a nil error means nothing changed.
func (s *Store) mutate(ctx context.Context, op string, fn func(items []domain.CartItem) ([]domain.CartItem, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(slices.Clone(s.items))
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	data, err := encodeSnapshot(next, s.now())
	if err != nil {
		return fmt.Errorf("encodeSnapshot: %w", err)
	}

	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("storage.Set: %w", err)
	}

	s.items = next
	s.observe(op)

	return nil
}

func (s *Store) inventory(item domain.CartItem, quantity int) error {
	if !s.checkInventory {
		return nil
	}

	if !item.Product.Available {
		return domain.ErrProductUnavailable
	}

	if item.Variant == nil {
		return nil
	}

	if !item.Variant.Active {
		return domain.ErrProductUnavailable
	}
	if quantity > item.Variant.StockQuantity {
		return fmt.Errorf("%w: %d requested, %d in stock", domain.ErrInsufficientStock, quantity, item.Variant.StockQuantity)
	}

	return nil
}

// find returns the index of the matching entry or -1.
func find(items []domain.CartItem, productID uuid.UUID, variantID *uuid.UUID) (int, error) {
	key := domain.KeyOf(productID, variantID)

	idx := slices.IndexFunc(items, func(i domain.CartItem) bool { return i.Key() == key })
	if idx >= 0 || key.HasVariant() {
		return idx, nil
	}

	if slices.ContainsFunc(items, func(i domain.CartItem) bool { return i.Product.ID == productID }) {
		return -1, domain.ErrAmbiguousItem
	}

	return -1, nil
}
