package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// ProductChangesChannel is the NOTIFY channel fed by the products table trigger.
const ProductChangesChannel = "product_changes"

type productChange struct {
	Op string    `json:"op"`
	ID uuid.UUID `json:"id"`
}

const (
	listenInitialDelay  = 500 * time.Millisecond
	listenMaxDelay      = 30 * time.Second
	listenBackoffFactor = 2
)

// ProductListener forwards database product change notifications to a publisher.
type ProductListener struct {
	pool      *pgxpool.Pool
	publisher port.ProductEventPublisher
	logger    *zap.Logger

	initialDelay time.Duration
	maxDelay     time.Duration
	// listen holds one LISTEN session and calls connected once it is subscribed.
	listen func(ctx context.Context, connected func()) error
}

func NewProductListener(pool *pgxpool.Pool, publisher port.ProductEventPublisher, logger *zap.Logger) (*ProductListener, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &ProductListener{
		pool:         pool,
		publisher:    publisher,
		logger:       logger,
		initialDelay: listenInitialDelay,
		maxDelay:     listenMaxDelay,
	}
	l.listen = l.listenOnce

	return l, nil
}

// Run keeps a LISTEN session open until ctx is done, reconnecting with exponential backoff.
// Notifications sent while disconnected are lost, so every reconnect publishes
// ForceProductRefresh to make subscribers reload.
func (l *ProductListener) Run(ctx context.Context) error {
	delay := l.initialDelay
	failures := 0
	connectedBefore := false

	for {
		err := l.listen(ctx, func() {
			if connectedBefore {
				l.logger.Info("product listener reconnected", zap.Int("failures", failures))
				l.publisher.Publish(domain.ProductEvent{Kind: domain.ForceProductRefresh, At: time.Now()})
			}
			connectedBefore = true
			failures = 0
			delay = l.initialDelay
		})
		if ctx.Err() != nil {
			return nil
		}

		failures++
		l.logger.Warn("product listener disconnected",
			zap.Int("failures", failures),
			zap.Duration("retry_in", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		delay = min(delay*listenBackoffFactor, l.maxDelay)
	}
}

func (l *ProductListener) listenOnce(ctx context.Context, connected func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("pool.Acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ProductChangesChannel); err != nil {
		return fmt.Errorf("conn.Exec LISTEN: %w", err)
	}
	connected()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("conn.WaitForNotification: %w", err)
		}

		event, err := parseProductChange(notification.Payload)
		if err != nil {
			l.logger.Warn("skipping product notification", zap.String("payload", notification.Payload), zap.Error(err))
			continue
		}

		l.publisher.Publish(event)
	}
}

func parseProductChange(payload string) (domain.ProductEvent, error) {
	var change productChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return domain.ProductEvent{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	event := domain.ProductEvent{ProductID: change.ID, At: time.Now()}
	switch change.Op {
	case "INSERT":
		event.Kind = domain.ProductCreated
	case "UPDATE":
		event.Kind = domain.ProductUpdated
	case "DELETE":
		event.Kind = domain.ProductDeleted
	default:
		return domain.ProductEvent{}, errors.New("unknown operation " + change.Op)
	}

	return event, nil
}
