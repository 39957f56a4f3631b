package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/domain/port"
	"centavo.dev/internal/infrastructure/logger"
)

// Publisher implements the EventPublisher port on a Kafka topic. Events for
// the same owner share a key so per-owner ordering is preserved.
type Publisher struct {
	writer *kafka.Writer
	logger logger.Logger
}

// NewPublisher creates a Kafka-backed publisher
func NewPublisher(brokers []string, topic string, logger logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// Publish writes one transaction event to the topic
func (p *Publisher) Publish(ctx context.Context, event entity.TransactionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Owner),
		Value: data,
	}); err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}

	p.logger.LogInfo(ctx, "Transaction event published",
		"owner", event.Owner,
		"kind", string(event.Kind),
		"status", string(event.Status))

	return nil
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ port.EventPublisher = (*Publisher)(nil)
