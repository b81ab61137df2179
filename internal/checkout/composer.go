package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/nikolayk812/storefront/internal/checkout"

// postOrderTimeout bounds dispatch and cart settlement once the order exists.
const postOrderTimeout = 10 * time.Second

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Settings are the store-wide values that end up in every order and message.
type Settings struct {
	StoreName     string
	CustomerName  string
	WhatsAppPhone string
	Location      *time.Location
}

func DefaultSettings() Settings {
	return Settings{
		StoreName:     "M.A Online Store",
		CustomerName:  "Customer",
		WhatsAppPhone: "256741068782",
		Location:      time.UTC,
	}
}

func (s Settings) storeName() string {
	if s.StoreName == "" {
		return DefaultSettings().StoreName
	}
	return s.StoreName
}

// Request holds the contact fields a customer fills in at checkout.
type Request struct {
	Phone   string
	Address string
	Email   string
	Notes   string
}

type Receipt struct {
	OrderID     uuid.UUID
	OrderNumber string
	Message     string
	Link        string
	Notice      string
	Total       domain.Money
	PlacedAt    time.Time
}

// Composer turns the cart plus contact details into a placed order and a message for the store.
// One submission runs at a time per composer.
type Composer struct {
	mu    sync.Mutex
	state State

	cart       *cart.Store
	orders     port.OrderCreator
	dispatcher port.Dispatcher
	settings   Settings
	logger     *zap.Logger
	tracer     trace.Tracer
	observe    func(result string)
	now        func() time.Time
}

type Option func(*Composer)

func WithDispatcher(d port.Dispatcher) Option {
	return func(c *Composer) {
		c.dispatcher = d
	}
}

func WithSettings(s Settings) Option {
	return func(c *Composer) {
		c.settings = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Composer) {
		c.tracer = tracer
	}
}

// WithResultObserver is called once per submission with "ok", "invalid" or "failed".
func WithResultObserver(fn func(result string)) Option {
	return func(c *Composer) {
		c.observe = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

func NewComposer(store *cart.Store, orders port.OrderCreator, opts ...Option) (*Composer, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is nil")
	}
	if orders == nil {
		return nil, fmt.Errorf("order creator is nil")
	}

	c := &Composer{
		cart:     store,
		orders:   orders,
		settings: DefaultSettings(),
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		observe:  func(string) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.settings.CustomerName == "" {
		c.settings.CustomerName = DefaultSettings().CustomerName
	}

	return c, nil
}

func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Validate checks the contact fields without submitting anything.
func Validate(req Request) error {
	if strings.TrimSpace(req.Phone) == "" {
		return domain.ErrPhoneRequired
	}
	if strings.TrimSpace(req.Address) == "" {
		return domain.ErrAddressRequired
	}
	return nil
}

// Submit places the order for the current cart contents.
// On success the message is dispatched and the cart is cleared. On any failure the cart is left as it was.
func (c *Composer) Submit(ctx context.Context, req Request) (Receipt, error) {
	if err := c.begin(); err != nil {
		return Receipt{}, err
	}
	defer c.transition(StateIdle)

	ctx, span := c.tracer.Start(ctx, "checkout.Submit")
	defer span.End()

	receipt, err := c.submit(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if domain.IsValidation(err) {
			c.observe("invalid")
		} else {
			c.observe("failed")
		}
		return Receipt{}, err
	}

	span.SetAttributes(
		attribute.String("order.number", receipt.OrderNumber),
		attribute.String("order.total", receipt.Total.Amount.String()),
	)
	c.observe("ok")

	return receipt, nil
}

func (c *Composer) submit(ctx context.Context, req Request) (Receipt, error) {
	items := c.cart.Items()
	if len(items) == 0 {
		return Receipt{}, domain.ErrEmptyCart
	}

	if err := Validate(req); err != nil {
		return Receipt{}, err
	}

	c.transition(StateSubmitting)

	customer := domain.Customer{
		Name:    c.settings.CustomerName,
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}
	total, err := domain.Cart{Items: items}.TotalPrice(c.cart.Currency())
	if err != nil {
		return Receipt{}, fmt.Errorf("cart total: %w", err)
	}

	placed, err := c.orders.CreateOrder(ctx, domain.NewOrder{
		Customer: customer,
		Lines:    domain.LinesFromCart(items),
		Total:    total,
		Notes:    strings.TrimSpace(req.Notes),
	})
	if err != nil {
		c.logger.Error("failed to create order", zap.Int("items", len(items)), zap.Error(err))
		return Receipt{}, fmt.Errorf("failed to create order: %w", err)
	}

	placedAt := placed.CreatedAt
	if placedAt.IsZero() {
		placedAt = c.now()
	}

	msg := FormatMessage(Summary{
		OrderNumber: placed.OrderNumber,
		Customer:    customer,
		Items:       items,
		Total:       total,
		PlacedAt:    placedAt,
	}, c.settings)

	receipt := Receipt{
		OrderID:     placed.ID,
		OrderNumber: placed.OrderNumber,
		Message:     msg,
		Link:        DeepLink(c.settings.WhatsAppPhone, msg),
		Notice:      Notice(placed.OrderNumber),
		Total:       total,
		PlacedAt:    placedAt,
	}

	c.transition(StateSubmitted)

	// the order is committed: a caller going away must not skip the steps below
	post, cancel := context.WithTimeout(context.WithoutCancel(ctx), postOrderTimeout)
	defer cancel()

	c.dispatch(post, receipt, customer)

	if err := c.cart.Settle(post, items); err != nil {
		c.logger.Error("failed to settle cart after order",
			zap.String("order_number", placed.OrderNumber), zap.Error(err))
	}

	c.logger.Info("order placed",
		zap.String("order_number", placed.OrderNumber),
		zap.String("total", total.String()),
		zap.Int("items", len(items)))

	return receipt, nil
}

func (c *Composer) dispatch(ctx context.Context, receipt Receipt, customer domain.Customer) {
	if c.dispatcher == nil {
		return
	}

	err := c.dispatcher.Dispatch(ctx, domain.OrderDispatch{
		OrderID:     receipt.OrderID,
		OrderNumber: receipt.OrderNumber,
		Phone:       customer.Phone,
		Message:     receipt.Message,
		Link:        receipt.Link,
		Total:       receipt.Total,
		PlacedAt:    receipt.PlacedAt,
	})
	if err != nil {
		c.logger.Warn("failed to dispatch order message",
			zap.String("order_number", receipt.OrderNumber), zap.Error(err))
	}
}

func (c *Composer) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return domain.ErrSubmissionInProgress
	}
	c.state = StateValidating
	return nil
}

func (c *Composer) transition(to State) {
	c.mu.Lock()
	c.state = to
	c.mu.Unlock()
}

// Notice is the confirmation shown to the customer once the order is placed.
func Notice(orderNumber string) string {
	return fmt.Sprintf("Order %s placed successfully! You'll be redirected to WhatsApp to complete your order.", orderNumber)
}
