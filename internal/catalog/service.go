package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// Filter narrows the storefront product list. Zero value matches everything.
type Filter struct {
	CategoryID   *uuid.UUID
	Query        string
	FeaturedOnly bool
}

func (f Filter) matches(p domain.Product) bool {
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}

	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

// Service serves the storefront catalog from a cache that is refetched whenever a product event arrives.
type Service struct {
	repo      port.CatalogRepository
	publisher port.ProductEventPublisher
	logger    *zap.Logger
	now       func() time.Time

	mu         sync.RWMutex
	loaded     bool
	products   []domain.Product
	categories []domain.Category
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo port.CatalogRepository, publisher port.ProductEventPublisher, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher is nil")
	}

	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Products returns available products matching filter.
func (s *Service) Products(ctx context.Context, filter Filter) ([]domain.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.matches(p) {
			result = append(result, p)
		}
	}

	return result, nil
}

// Product returns an available product. Unavailable products are reported as not found.
func (s *Service) Product(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("repo.GetProduct: %w", err)
	}

	if !product.Available {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	return product, nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.categories), nil
}

func (s *Service) ActivePromotions(ctx context.Context) ([]domain.Promotion, error) {
	promotions, err := s.repo.ListActivePromotions(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("repo.ListActivePromotions: %w", err)
	}
	return promotions, nil
}

// PromotionByCode finds an active promotion by its code, ignoring case.
func (s *Service) PromotionByCode(ctx context.Context, code string) (domain.Promotion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Promotion{}, fmt.Errorf("promotion code is empty")
	}

	promotions, err := s.ActivePromotions(ctx)
	if err != nil {
		return domain.Promotion{}, err
	}

	for _, p := range promotions {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}

	return domain.Promotion{}, fmt.Errorf("promotion %q: %w", code, domain.ErrNotFound)
}

// Reload refetches products and categories, replacing the cache only when both succeed.
func (s *Service) Reload(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx, false)
	if err != nil {
		return fmt.Errorf("repo.ListProducts: %w", err)
	}

	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return fmt.Errorf("repo.ListCategories: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.categories = categories
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("catalog reloaded", zap.Int("products", len(products)), zap.Int("categories", len(categories)))

	return nil
}

// Refresh asks every subscriber, this service included, to refetch.
func (s *Service) Refresh() {
	s.publisher.Publish(domain.ProductEvent{Kind: domain.ForceProductRefresh})
}

// Run reloads the cache for every event received until ctx is done or events is closed.
// Events that queue up during a reload are coalesced into one more reload.
func (s *Service) Run(ctx context.Context, events <-chan domain.ProductEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}

			pending := drain(events)
			if err := s.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Warn("catalog reload failed",
					zap.String("kind", string(event.Kind)),
					zap.Int("coalesced", pending),
					zap.Error(err))
			}
		}
	}
}

func drain(events <-chan domain.ProductEvent) int {
	n := 0
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded {
		return nil
	}
	return s.Reload(ctx)
}
