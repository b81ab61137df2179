package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/preference"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidID = errors.New("invalid session id")

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// StorageFactory returns the client storage scoped to one session.
type StorageFactory func(owner string) (port.Storage, error)

// Session is one client's cart, checkout and preferences.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Composer
	Themes   *preference.Themes

	lastSeen time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	// opening dedupes concurrent restores of one id, restores run outside mu
	opening singleflight.Group

	storageFor   StorageFactory
	orders       port.OrderCreator
	cartOpts     []cart.Option
	checkoutOpts []checkout.Option
	logger       *zap.Logger
	now          func() time.Time
}

type Option func(*Manager)

func WithCartOptions(opts ...cart.Option) Option {
	return func(m *Manager) {
		m.cartOpts = append(m.cartOpts, opts...)
	}
}

func WithCheckoutOptions(opts ...checkout.Option) Option {
	return func(m *Manager) {
		m.checkoutOpts = append(m.checkoutOpts, opts...)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(storageFor StorageFactory, orders port.OrderCreator, opts ...Option) (*Manager, error) {
	if storageFor == nil {
		return nil, fmt.Errorf("storage factory is nil")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator is nil")
	}

	m := &Manager{
		sessions:   make(map[string]*Session),
		storageFor: storageFor,
		orders:     orders,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Get returns the session for id, restoring it from client storage on first use.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if !idPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	if s, ok := m.lookup(id); ok {
		return s, nil
	}

	v, err, _ := m.opening.Do(id, func() (any, error) {
		// a restore that finished between lookup and Do already registered the session
		if s, ok := m.lookup(id); ok {
			return s, nil
		}

		s, err := m.open(ctx, id)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.sessions[id] = s
		m.mu.Unlock()

		m.logger.Debug("session opened", zap.String("session_id", id), zap.Int("items", s.Cart.Len()))

		return s, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Session), nil
}

func (m *Manager) lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

func (m *Manager) open(ctx context.Context, id string) (*Session, error) {
	storage, err := m.storageFor(id)
	if err != nil {
		return nil, fmt.Errorf("storageFor: %w", err)
	}

	cartOpts := append([]cart.Option{cart.WithLogger(m.logger.With(zap.String("session_id", id)))}, m.cartOpts...)
	store, err := cart.NewStore(ctx, storage, cartOpts...)
	if err != nil {
		return nil, fmt.Errorf("cart.NewStore: %w", err)
	}

	checkoutOpts := append([]checkout.Option{checkout.WithLogger(m.logger.With(zap.String("session_id", id)))}, m.checkoutOpts...)
	composer, err := checkout.NewComposer(store, m.orders, checkoutOpts...)
	if err != nil {
		return nil, fmt.Errorf("checkout.NewComposer: %w", err)
	}

	themes, err := preference.NewThemes(storage)
	if err != nil {
		return nil, fmt.Errorf("preference.NewThemes: %w", err)
	}

	return &Session{
		ID:       id,
		Cart:     store,
		Checkout: composer,
		Themes:   themes,
		lastSeen: m.now(),
	}, nil
}

// Sweep drops sessions idle for longer than idle. Their data stays in client storage.
func (m *Manager) Sweep(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) && s.Checkout.State() == checkout.StateIdle {
			delete(m.sessions, id)
			n++
		}
	}

	if n > 0 {
		m.logger.Debug("idle sessions dropped", zap.Int("count", n))
	}

	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(idle)
		}
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
