package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, order domain.NewOrder) (domain.PlacedOrder, error)
}

type OrderRepository interface {
	OrderCreator
	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (bool, error)
	GetAnalytics(ctx context.Context, from, to *time.Time) (domain.OrderAnalytics, error)
}
