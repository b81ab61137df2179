package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// Dispatcher forwards a placed order summary to the external messaging channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, d domain.OrderDispatch) error
}
