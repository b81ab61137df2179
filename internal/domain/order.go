package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(s); status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type OrderLine struct {
	ProductID   uuid.UUID
	VariantID   *uuid.UUID
	ProductName string
	Unit        string
	Quantity    int
	UnitPrice   Money
	TotalPrice  Money
}

// NewOrder is an order submission before the database assigns its number.
type NewOrder struct {
	Customer Customer
	Lines    []OrderLine
	Total    Money
	Notes    string
}

type PlacedOrder struct {
	ID          uuid.UUID
	OrderNumber string
	CreatedAt   time.Time
}

type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	Customer      Customer
	Lines         []OrderLine
	Total         Money
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderFilter struct {
	Status *OrderStatus
	Limit  int
}

type OrderAnalytics struct {
	TotalOrders       int64
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	PendingOrders     int64
	CompletedOrders   int64
	TotalCustomers    int64
	RecentOrders      []Order
}

// OrderDispatch is what gets handed to the external messaging channel after an order is placed.
type OrderDispatch struct {
	OrderID     uuid.UUID
	OrderNumber string
	Phone       string
	Message     string
	Link        string
	Total       Money
	PlacedAt    time.Time
}

// LinesFromCart builds order lines priced at each item's effective unit price.
func LinesFromCart(items []CartItem) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		line := OrderLine{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Unit:        item.Product.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice(),
			TotalPrice:  item.Subtotal(),
		}
		if item.Variant != nil {
			variantID := item.Variant.ID
			line.VariantID = &variantID
		}
		lines = append(lines, line)
	}
	return lines
}
