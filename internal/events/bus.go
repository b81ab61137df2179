package events

import (
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

const DefaultBuffer = 16

// Bus fans product events out to subscribers. Publish never blocks: a subscriber whose
// buffer is full misses the event, which is fine because every event means "refetch".
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool

	logger *zap.Logger
	onDrop func(kind domain.ProductEventKind)
}

var _ port.ProductEventPublisher = (*Bus)(nil)

type Option func(*Bus)

// WithDropHook is called for every event a subscriber could not take.
func WithDropHook(fn func(kind domain.ProductEventKind)) Option {
	return func(b *Bus) {
		b.onDrop = fn
	}
}

func NewBus(logger *zap.Logger, opts ...Option) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Bus{
		subs:   make(map[uint64]*Subscription),
		logger: logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type Subscription struct {
	C <-chan domain.ProductEvent

	ch    chan domain.ProductEvent
	id    uint64
	bus   *Bus
	kinds map[domain.ProductEventKind]struct{}
}

// Subscribe registers a subscriber for the given kinds, or for every kind when none are given.
// On a closed bus the returned subscription's channel is already closed.
func (b *Bus) Subscribe(buffer int, kinds ...domain.ProductEventKind) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	ch := make(chan domain.ProductEvent, buffer)
	sub := &Subscription{C: ch, ch: ch, bus: b}
	if len(kinds) > 0 {
		sub.kinds = make(map[domain.ProductEventKind]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return sub
	}

	b.nextID++
	sub.id = b.nextID
	b.subs[sub.id] = sub

	return sub
}

func (b *Bus) Publish(event domain.ProductEvent) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if !sub.wants(event.Kind) {
			continue
		}

		select {
		case sub.ch <- event:
		default:
			b.logger.Debug("subscriber buffer full, dropping event",
				zap.String("kind", string(event.Kind)),
				zap.Uint64("subscription", sub.id))
			if b.onDrop != nil {
				b.onDrop(event.Kind)
			}
		}
	}
}

// Close ends every subscription. Publishing after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

func (s *Subscription) Unsubscribe() {
	b := s.bus

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[s.id]; !ok {
		return
	}
	delete(b.subs, s.id)
	close(s.ch)
}

func (s *Subscription) wants(kind domain.ProductEventKind) bool {
	if s.kinds == nil {
		return true
	}
	_, ok := s.kinds[kind]
	return ok
}
