package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// KafkaPublisher forwards lifecycle events to a Kafka topic for the external
// notification layer. Publish failures are logged, never returned: the
// transition already committed and must not be rolled back by a broker hiccup.
type KafkaPublisher struct {
	writer  *kafka.Writer
	timeout time.Duration
	logger  *zap.Logger
}

func NewKafkaPublisher(logger *zap.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "shop-lifecycle-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, timeout: 5 * time.Second, logger: logger}
}

// Handle implements the Bus Handler signature.
func (p *KafkaPublisher) Handle(ctx context.Context, event domain.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal lifecycle event", zap.Error(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		p.logger.Error("failed to publish lifecycle event",
			zap.String("event_type", string(event.Type)),
			zap.String("order_id", event.OrderID.String()),
			zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
