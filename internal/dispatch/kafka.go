package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultTopic = "orders.placed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPlaced is the JSON value published for every placed order.
type OrderPlaced struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Phone       string    `json:"phone"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Message     string    `json:"message"`
	Link        string    `json:"link"`
	PlacedAt    time.Time `json:"placed_at"`
}

type Kafka struct {
	writer messageWriter
	logger *zap.Logger
}

var _ port.Dispatcher = (*Kafka)(nil)

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func NewKafka(brokers []string, topic string, logger *zap.Logger) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are empty")
	}
	if topic == "" {
		topic = DefaultTopic
	}

	return newKafka(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}, logger), nil
}

func newKafka(writer messageWriter, logger *zap.Logger) *Kafka {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Kafka{writer: writer, logger: logger}
}

func (k *Kafka) Dispatch(ctx context.Context, od domain.OrderDispatch) error {
	if od.OrderNumber == "" {
		return fmt.Errorf("order number is empty")
	}

	data, err := json.Marshal(OrderPlaced{
		OrderID:     od.OrderID,
		OrderNumber: od.OrderNumber,
		Phone:       od.Phone,
		Amount:      od.Total.Amount.String(),
		Currency:    od.Total.Currency.String(),
		Message:     od.Message,
		Link:        od.Link,
		PlacedAt:    od.PlacedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(od.OrderNumber),
		Value: data,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	k.logger.Debug("order dispatched", zap.String("order_number", od.OrderNumber))

	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
