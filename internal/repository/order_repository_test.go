package repository_test

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type orderRepositorySuite struct {
	suite.Suite

	repo port.OrderRepository
	pool *pgxpool.Pool
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo, err = repository.NewOrder(suite.pool)
	suite.Require().NoError(err)
}

func (suite *orderRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *orderRepositorySuite) TestCreateOrder() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		order     domain.NewOrder
		wantError string
	}{
		{
			name:  "create order: ok",
			order: randomNewOrder(2),
		},
		{
			name: "create order without optional contact fields: ok",
			order: func() domain.NewOrder {
				o := randomNewOrder(1)
				o.Customer.Email = ""
				o.Notes = ""
				return o
			}(),
		},
		{
			name: "create order with empty customer name: error",
			order: func() domain.NewOrder {
				o := randomNewOrder(1)
				o.Customer.Name = ""
				return o
			}(),
			wantError: "customer name is empty",
		},
		{
			name:      "create order without lines: error",
			order:     randomNewOrder(0),
			wantError: "order has no lines",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			placed, err := suite.repo.CreateOrder(ctx, tt.order)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.NotEqual(t, uuid.Nil, placed.ID)
			assert.True(t, strings.HasPrefix(placed.OrderNumber, "ORD-"), placed.OrderNumber)
			assert.False(t, placed.CreatedAt.IsZero())

			got, err := suite.repo.GetOrder(ctx, placed.ID)
			require.NoError(t, err)

			assert.Equal(t, placed.OrderNumber, got.OrderNumber)
			assert.Equal(t, domain.OrderStatusPending, got.Status)
			assert.Equal(t, domain.PaymentStatusPending, got.PaymentStatus)
			assertNoDiff(t, tt.order.Customer, got.Customer)
			assertNoDiff(t, tt.order.Total, got.Total)
			assertNoDiff(t, tt.order.Lines, got.Lines)
		})
	}
}

func (suite *orderRepositorySuite) TestCreateOrder_RollsBackOnInvalidLine() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := randomNewOrder(2)
	order.Lines[1].Quantity = 0

	_, err := suite.repo.CreateOrder(ctx, order)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	orders, err := suite.repo.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func (suite *orderRepositorySuite) TestGetOrder_NotFound() {
	_, err := suite.repo.GetOrder(suite.T().Context(), uuid.New())
	suite.ErrorIs(err, domain.ErrNotFound)
}

func (suite *orderRepositorySuite) TestUpdateOrderStatus() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	placed, err := suite.repo.CreateOrder(ctx, randomNewOrder(1))
	require.NoError(t, err)

	tests := []struct {
		name        string
		id          uuid.UUID
		status      domain.OrderStatus
		wantUpdated bool
		wantError   error
	}{
		{
			name:        "update existing order: ok",
			id:          placed.ID,
			status:      domain.OrderStatusShipped,
			wantUpdated: true,
		},
		{
			name:   "update missing order: not found",
			id:     uuid.New(),
			status: domain.OrderStatusDelivered,
		},
		{
			name:      "update with unknown status: error",
			id:        placed.ID,
			status:    domain.OrderStatus("lost"),
			wantError: domain.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			updated, err := suite.repo.UpdateOrderStatus(ctx, tt.id, tt.status)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdated, updated)

			if updated {
				got, err := suite.repo.GetOrder(ctx, tt.id)
				require.NoError(t, err)
				assert.Equal(t, tt.status, got.Status)
			}
		})
	}
}

func (suite *orderRepositorySuite) TestListOrders() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	var ids []uuid.UUID
	for range 3 {
		placed, err := suite.repo.CreateOrder(ctx, randomNewOrder(1))
		require.NoError(t, err)
		ids = append(ids, placed.ID)
	}

	_, err := suite.repo.UpdateOrderStatus(ctx, ids[0], domain.OrderStatusCancelled)
	require.NoError(t, err)

	all, err := suite.repo.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, ids[2], all[0].ID)
	for _, o := range all {
		assert.Len(t, o.Lines, 1)
	}

	cancelled := domain.OrderStatusCancelled
	filtered, err := suite.repo.ListOrders(ctx, domain.OrderFilter{Status: &cancelled})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, ids[0], filtered[0].ID)

	limited, err := suite.repo.ListOrders(ctx, domain.OrderFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func (suite *orderRepositorySuite) TestGetAnalytics() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	phone := gofakeit.Phone()
	totals := []int64{1000, 3000, 5000}
	var ids []uuid.UUID
	for i, total := range totals {
		order := randomNewOrder(1)
		order.Total.Amount = decimal.NewFromInt(total)
		if i < 2 {
			order.Customer.Phone = phone
		}
		placed, err := suite.repo.CreateOrder(ctx, order)
		require.NoError(t, err)
		ids = append(ids, placed.ID)
	}

	_, err := suite.repo.UpdateOrderStatus(ctx, ids[1], domain.OrderStatusDelivered)
	require.NoError(t, err)

	got, err := suite.repo.GetAnalytics(ctx, nil, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 3, got.TotalOrders)
	assert.True(t, decimal.NewFromInt(9000).Equal(got.TotalRevenue), got.TotalRevenue.String())
	assert.True(t, decimal.NewFromInt(3000).Equal(got.AverageOrderValue), got.AverageOrderValue.String())
	assert.EqualValues(t, 2, got.PendingOrders)
	assert.EqualValues(t, 1, got.CompletedOrders)
	assert.EqualValues(t, 2, got.TotalCustomers)
	assert.Len(t, got.RecentOrders, 3)

	future := time.Now().Add(time.Hour)
	empty, err := suite.repo.GetAnalytics(ctx, &future, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalOrders)
	assert.True(t, empty.TotalRevenue.IsZero())

	past := time.Now().Add(-time.Hour)
	_, err = suite.repo.GetAnalytics(ctx, &future, &past)
	require.EqualError(t, err, "analytics range end is before start")
}

func (suite *orderRepositorySuite) TestNewOrderWithTx_RolledBack() {
	t := suite.T()
	ctx := t.Context()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	placed, err := repository.NewOrderWithTx(tx).CreateOrder(ctx, randomNewOrder(1))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	_, err = suite.repo.GetOrder(ctx, placed.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *orderRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE orders CASCADE")
	suite.NoError(err)
}

func randomNewOrder(lines int) domain.NewOrder {
	cur := randomCurrency()

	order := domain.NewOrder{
		Customer: domain.Customer{
			Name:    gofakeit.Name(),
			Email:   gofakeit.Email(),
			Phone:   gofakeit.Phone(),
			Address: gofakeit.Address().Address,
		},
		Notes: gofakeit.Sentence(5),
		Total: domain.Money{Amount: decimal.Zero, Currency: cur},
	}

	for range lines {
		unitPrice := domain.Money{Amount: decimal.NewFromInt(int64(gofakeit.IntRange(100, 10000))), Currency: cur}
		quantity := gofakeit.IntRange(1, 5)

		line := domain.OrderLine{
			ProductID:   uuid.New(),
			ProductName: gofakeit.ProductName(),
			Unit:        "kg",
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  unitPrice.Mul(quantity),
		}
		if gofakeit.Bool() {
			variantID := uuid.New()
			line.VariantID = &variantID
		}

		order.Lines = append(order.Lines, line)
		order.Total.Amount = order.Total.Amount.Add(line.TotalPrice.Amount)
	}

	return order
}
