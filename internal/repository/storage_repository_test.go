package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type storageRepositorySuite struct {
	suite.Suite

	pool *pgxpool.Pool
}

func TestStorageRepositorySuite(t *testing.T) {
	suite.Run(t, new(storageRepositorySuite))
}

func (suite *storageRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)
}

func (suite *storageRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *storageRepositorySuite) TestSet() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		key       string
		values    [][]byte
		wantError string
	}{
		{
			name:   "set value: ok",
			key:    "cart",
			values: [][]byte{[]byte(`{"items":[]}`)},
		},
		{
			name:   "overwrite value: ok",
			key:    "theme",
			values: [][]byte{[]byte(`"light"`), []byte(`"dark"`)},
		},
		{
			name:      "set with empty key: error",
			key:       "",
			values:    [][]byte{[]byte("x")},
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			storage, err := repository.NewStorage(suite.pool, gofakeit.UUID())
			require.NoError(t, err)

			for _, value := range tt.values {
				err = storage.Set(ctx, tt.key, value)
				if tt.wantError != "" {
					require.EqualError(t, err, tt.wantError)
					return
				}
				require.NoError(t, err)
			}

			got, err := storage.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.values[len(tt.values)-1], got)
		})
	}
}

func (suite *storageRepositorySuite) TestGet_NotFound() {
	t := suite.T()
	ctx := t.Context()

	storage, err := repository.NewStorage(suite.pool, gofakeit.UUID())
	require.NoError(t, err)

	_, err = storage.Get(ctx, "cart")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *storageRepositorySuite) TestOwnersAreIsolated() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	first, err := repository.NewStorage(suite.pool, gofakeit.UUID())
	require.NoError(t, err)
	second, err := repository.NewStorage(suite.pool, gofakeit.UUID())
	require.NoError(t, err)

	require.NoError(t, first.Set(ctx, "cart", []byte("first")))

	_, err = second.Get(ctx, "cart")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *storageRepositorySuite) TestDelete() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	storage, err := repository.NewStorage(suite.pool, gofakeit.UUID())
	require.NoError(t, err)

	require.NoError(t, storage.Set(ctx, "cart", []byte("x")))
	require.NoError(t, storage.Delete(ctx, "cart"))
	// deleting a missing key is not an error
	require.NoError(t, storage.Delete(ctx, "cart"))

	_, err = storage.Get(ctx, "cart")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *storageRepositorySuite) TestNewStorage_EmptyOwner() {
	_, err := repository.NewStorage(suite.pool, "")
	suite.EqualError(err, "ownerID is empty")
}

func (suite *storageRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE client_storage")
	suite.NoError(err)
}
