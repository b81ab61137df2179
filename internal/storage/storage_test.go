package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// storageSuite runs the same contract against every port.Storage implementation.
type storageSuite struct {
	suite.Suite

	newStorage func(t *testing.T) port.Storage
	storage    port.Storage
}

func TestMemoryStorage(t *testing.T) {
	suite.Run(t, &storageSuite{newStorage: func(t *testing.T) port.Storage {
		return storage.NewMemory()
	}})
}

func TestNamespacedStorage(t *testing.T) {
	suite.Run(t, &storageSuite{newStorage: func(t *testing.T) port.Storage {
		return storage.Namespace(storage.NewMemory(), gofakeit.UUID())
	}})
}

func TestRedisStorage(t *testing.T) {
	suite.Run(t, &storageSuite{newStorage: func(t *testing.T) port.Storage {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		s, err := storage.NewRedis(client, "storefront", 0)
		require.NoError(t, err)
		return s
	}})
}

func TestSQLiteStorage(t *testing.T) {
	suite.Run(t, &storageSuite{newStorage: func(t *testing.T) port.Storage {
		s, err := storage.OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "storage.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}})
}

func (suite *storageSuite) SetupTest() {
	suite.storage = suite.newStorage(suite.T())
}

func (suite *storageSuite) TestSetGet() {
	tests := []struct {
		name      string
		key       string
		values    []string
		wantError string
	}{
		{
			name:   "set and get: ok",
			key:    "cart",
			values: []string{`{"items":[]}`},
		},
		{
			name:   "overwrite: ok",
			key:    "theme",
			values: []string{"light", "dark"},
		},
		{
			name:      "empty key: error",
			key:       "",
			values:    []string{"x"},
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			for _, value := range tt.values {
				err := suite.storage.Set(ctx, tt.key, []byte(value))
				if tt.wantError != "" {
					require.EqualError(t, err, tt.wantError)
					return
				}
				require.NoError(t, err)
			}

			got, err := suite.storage.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.values[len(tt.values)-1], string(got))
		})
	}
}

func (suite *storageSuite) TestGet_Missing() {
	_, err := suite.storage.Get(suite.T().Context(), gofakeit.UUID())
	suite.ErrorIs(err, domain.ErrNotFound)
}

func (suite *storageSuite) TestDelete() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.storage.Set(ctx, "cart", []byte("x")))
	require.NoError(t, suite.storage.Delete(ctx, "cart"))
	require.NoError(t, suite.storage.Delete(ctx, "cart"))

	_, err := suite.storage.Get(ctx, "cart")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNamespace_IsolatesOwners(t *testing.T) {
	ctx := t.Context()
	base := storage.NewMemory()

	alice := storage.Namespace(base, "alice")
	bob := storage.Namespace(base, "bob")

	require.NoError(t, alice.Set(ctx, "cart", []byte("a")))

	_, err := bob.Get(ctx, "cart")
	require.ErrorIs(t, err, domain.ErrNotFound)

	raw, err := base.Get(ctx, "alice:cart")
	require.NoError(t, err)
	assert.Equal(t, "a", string(raw))
}

func TestRedis_TTL(t *testing.T) {
	ctx := t.Context()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s, err := storage.NewRedis(client, "storefront", time.Hour)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "cart", []byte("x")))
	assert.Equal(t, time.Hour, mr.TTL("storefront:cart"))

	mr.FastForward(2 * time.Hour)

	_, err = s.Get(ctx, "cart")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := t.Context()
	s := storage.NewMemory()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
