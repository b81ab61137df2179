package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 500
	recentOrdersLimit = 5
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

// CreateOrder inserts the order and its lines atomically. The order number is assigned by the database.
func (r *orderRepository) CreateOrder(ctx context.Context, order domain.NewOrder) (domain.PlacedOrder, error) {
	if order.Customer.Name == "" {
		return domain.PlacedOrder{}, fmt.Errorf("customer name is empty")
	}
	if len(order.Lines) == 0 {
		return domain.PlacedOrder{}, fmt.Errorf("order has no lines")
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.PlacedOrder, error) {
		row, err := q.CreateOrder(ctx, db.CreateOrderParams{
			CustomerName:    order.Customer.Name,
			CustomerEmail:   nullString(order.Customer.Email),
			CustomerPhone:   nullString(order.Customer.Phone),
			CustomerAddress: nullString(order.Customer.Address),
			TotalAmount:     order.Total.Amount,
			TotalCurrency:   order.Total.Currency.String(),
			Notes:           nullString(order.Notes),
		})
		if err != nil {
			return domain.PlacedOrder{}, fmt.Errorf("q.CreateOrder: %w", err)
		}

		for i, line := range order.Lines {
			if line.Quantity < 1 {
				return domain.PlacedOrder{}, fmt.Errorf("line[%d]: %w", i, domain.ErrInvalidQuantity)
			}

			err := q.CreateOrderItem(ctx, db.CreateOrderItemParams{
				OrderID:     row.ID,
				LineNo:      int32(i + 1),
				ProductID:   line.ProductID,
				VariantID:   line.VariantID,
				ProductName: line.ProductName,
				Unit:        line.Unit,
				Quantity:    int32(line.Quantity),
				UnitPrice:   line.UnitPrice.Amount,
				TotalPrice:  line.TotalPrice.Amount,
			})
			if err != nil {
				return domain.PlacedOrder{}, fmt.Errorf("q.CreateOrderItem: %w", err)
			}
		}

		return domain.PlacedOrder{
			ID:          row.ID,
			OrderNumber: row.OrderNumber,
			CreatedAt:   row.CreatedAt,
		}, nil
	})
}

func (r *orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	if id == uuid.Nil {
		return domain.Order{}, fmt.Errorf("id is empty")
	}

	dbOrder, err := r.q.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", notFound(err))
	}

	orders, err := r.withLines(ctx, []db.Order{dbOrder})
	if err != nil {
		return domain.Order{}, fmt.Errorf("withLines: %w", err)
	}

	return orders[0], nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	limit = min(limit, maxOrderLimit)

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	dbOrders, err := r.q.ListOrders(ctx, db.ListOrdersParams{
		Status:   status,
		RowLimit: int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("q.ListOrders: %w", err)
	}

	orders, err := r.withLines(ctx, dbOrders)
	if err != nil {
		return nil, fmt.Errorf("withLines: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (bool, error) {
	if _, err := domain.ParseOrderStatus(string(status)); err != nil {
		return false, err
	}

	rowsAffected, err := r.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *orderRepository) GetAnalytics(ctx context.Context, from, to *time.Time) (domain.OrderAnalytics, error) {
	if from != nil && to != nil && to.Before(*from) {
		return domain.OrderAnalytics{}, fmt.Errorf("analytics range end is before start")
	}

	row, err := r.q.GetOrderAnalytics(ctx, db.GetOrderAnalyticsParams{
		FromTime: from,
		ToTime:   to,
	})
	if err != nil {
		return domain.OrderAnalytics{}, fmt.Errorf("q.GetOrderAnalytics: %w", err)
	}

	recent, err := r.ListOrders(ctx, domain.OrderFilter{Limit: recentOrdersLimit})
	if err != nil {
		return domain.OrderAnalytics{}, fmt.Errorf("ListOrders: %w", err)
	}

	return domain.OrderAnalytics{
		TotalOrders:       row.TotalOrders,
		TotalRevenue:      row.TotalRevenue,
		AverageOrderValue: row.AverageOrderValue,
		PendingOrders:     row.PendingOrders,
		CompletedOrders:   row.CompletedOrders,
		TotalCustomers:    row.TotalCustomers,
		RecentOrders:      recent,
	}, nil
}

func (r *orderRepository) withLines(ctx context.Context, dbOrders []db.Order) ([]domain.Order, error) {
	if len(dbOrders) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(dbOrders))
	for _, o := range dbOrders {
		ids = append(ids, o.ID)
	}

	dbItems, err := r.q.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrderItems: %w", err)
	}

	itemsByOrder := make(map[uuid.UUID][]db.OrderItem, len(dbOrders))
	for _, item := range dbItems {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	orders := make([]domain.Order, 0, len(dbOrders))
	for _, o := range dbOrders {
		order, err := mapOrderToDomain(o, itemsByOrder[o.ID])
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrderToDomain(o db.Order, items []db.OrderItem) (domain.Order, error) {
	total, err := parseMoney(o.TotalAmount, o.TotalCurrency)
	if err != nil {
		return domain.Order{}, err
	}

	status, err := domain.ParseOrderStatus(o.Status)
	if err != nil {
		return domain.Order{}, err
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			Quantity:    int(item.Quantity),
			UnitPrice:   domain.Money{Amount: item.UnitPrice, Currency: total.Currency},
			TotalPrice:  domain.Money{Amount: item.TotalPrice, Currency: total.Currency},
		})
	}

	return domain.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Customer: domain.Customer{
			Name:    o.CustomerName,
			Email:   stringValue(o.CustomerEmail),
			Phone:   stringValue(o.CustomerPhone),
			Address: stringValue(o.CustomerAddress),
		},
		Lines:         lines,
		Total:         total,
		Status:        status,
		PaymentStatus: domain.PaymentStatus(o.PaymentStatus),
		Notes:         stringValue(o.Notes),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}, nil
}
