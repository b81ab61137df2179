package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProductEventKind string

const (
	RefreshProducts     ProductEventKind = "refreshProducts"
	ProductCreated      ProductEventKind = "productCreated"
	ProductUpdated      ProductEventKind = "productUpdated"
	ProductDeleted      ProductEventKind = "productDeleted"
	ForceProductRefresh ProductEventKind = "forceProductRefresh"
)

// ProductEvent signals that cached product data is stale. ProductID is uuid.Nil for catalog-wide refreshes.
type ProductEvent struct {
	Kind      ProductEventKind
	ProductID uuid.UUID
	At        time.Time
}
