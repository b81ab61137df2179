package port

import "github.com/nikolayk812/storefront/internal/domain"

type ProductEventPublisher interface {
	Publish(event domain.ProductEvent)
}
