package dispatch

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// Log only records the deep link. Used when no broker is configured.
type Log struct {
	logger *zap.Logger
}

var _ port.Dispatcher = (*Log)(nil)

func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

func (l *Log) Dispatch(_ context.Context, od domain.OrderDispatch) error {
	l.logger.Info("order ready for messaging",
		zap.String("order_number", od.OrderNumber),
		zap.String("total", od.Total.String()),
		zap.String("link", od.Link))
	return nil
}
