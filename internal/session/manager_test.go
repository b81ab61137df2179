package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/preference"
	"github.com/nikolayk812/storefront/internal/session"
	"github.com/nikolayk812/storefront/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type nopOrders struct{}

func (nopOrders) CreateOrder(context.Context, domain.NewOrder) (domain.PlacedOrder, error) {
	return domain.PlacedOrder{ID: uuid.New(), OrderNumber: "ORD-1"}, nil
}

func newManager(t *testing.T, base port.Storage, opts ...session.Option) *session.Manager {
	t.Helper()

	m, err := session.NewManager(func(owner string) (port.Storage, error) {
		return storage.Namespace(base, owner), nil
	}, nopOrders{}, opts...)
	require.NoError(t, err)
	return m
}

func TestManager_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, storage.NewMemory())

	alice, err := m.Get(ctx, "alice")
	require.NoError(t, err)
	bob, err := m.Get(ctx, "bob")
	require.NoError(t, err)

	product := domain.Product{
		ID:    uuid.New(),
		Name:  "Beans",
		Price: domain.Money{Amount: decimal.NewFromInt(3000), Currency: currency.MustParseISO("UGX")},
		Unit:  "kg",
	}
	require.NoError(t, alice.Cart.AddItem(ctx, product, 2, nil))
	require.NoError(t, alice.Themes.Set(ctx, preference.ThemeDark))

	assert.Equal(t, 2, alice.Cart.TotalItems())
	assert.Zero(t, bob.Cart.TotalItems())

	theme, err := bob.Themes.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, preference.ThemeSystem, theme)

	again, err := m.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, alice, again)
	assert.Equal(t, 2, m.Len())
}

func TestManager_SweepRestoresFromStorage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	base := storage.NewMemory()
	m := newManager(t, base, session.WithClock(clock))

	s, err := m.Get(ctx, "carol")
	require.NoError(t, err)

	product := domain.Product{
		ID:    uuid.New(),
		Name:  "Sugar",
		Price: domain.Money{Amount: decimal.NewFromInt(4500), Currency: currency.MustParseISO("UGX")},
		Unit:  "kg",
	}
	require.NoError(t, s.Cart.AddItem(ctx, product, 3, nil))

	assert.Zero(t, m.Sweep(time.Hour))

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	assert.Equal(t, 1, m.Sweep(time.Hour))
	assert.Zero(t, m.Len())

	restored, err := m.Get(ctx, "carol")
	require.NoError(t, err)
	assert.NotSame(t, s, restored)
	assert.Equal(t, 3, restored.Cart.TotalItems())
}

func TestManager_InvalidID(t *testing.T) {
	m := newManager(t, storage.NewMemory())

	for _, id := range []string{"", "has space", "semi;colon", string(make([]byte, 129))} {
		_, err := m.Get(context.Background(), id)
		require.ErrorIs(t, err, session.ErrInvalidID)
	}
}

func TestManager_StorageFactoryError(t *testing.T) {
	boom := errors.New("redis down")

	m, err := session.NewManager(func(string) (port.Storage, error) { return nil, boom }, nopOrders{})
	require.NoError(t, err)

	_, err = m.Get(context.Background(), "dave")
	require.ErrorIs(t, err, boom)
	assert.Zero(t, m.Len())
}

func TestManager_SlowRestoreDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	base := storage.NewMemory()
	started := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	calls := make(map[string]int)

	m, err := session.NewManager(func(owner string) (port.Storage, error) {
		mu.Lock()
		calls[owner]++
		mu.Unlock()

		if owner == "slow" {
			close(started)
			<-release
		}
		return storage.Namespace(base, owner), nil
	}, nopOrders{})
	require.NoError(t, err)

	const callers = 5
	results := make(chan *session.Session, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := m.Get(ctx, "slow")
			assert.NoError(t, err)
			results <- s
		}()
	}

	<-started

	fast := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx, "fast")
		fast <- err
	}()

	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("restore of one session blocked another")
	}

	close(release)
	wg.Wait()
	close(results)

	var first *session.Session
	for s := range results {
		require.NotNil(t, s)
		if first == nil {
			first = s
		}
		assert.Same(t, first, s)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls["slow"])
	assert.Equal(t, 2, m.Len())
}

func TestManager_RunSweeper(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newManager(t, storage.NewMemory())

	_, err := m.Get(ctx, "erin")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.RunSweeper(ctx, 5*time.Millisecond, -time.Hour)
	}()

	require.Eventually(t, func() bool { return m.Len() == 0 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestNewManager_Invalid(t *testing.T) {
	_, err := session.NewManager(nil, nopOrders{})
	require.Error(t, err)

	_, err = session.NewManager(func(string) (port.Storage, error) { return storage.NewMemory(), nil }, nil)
	require.Error(t, err)
}
