package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces calculation events to a Kafka topic.
// It implements service.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// maxAttempts caps broker retries per publish.
const maxAttempts = 3

// NewPublisher creates a Kafka producer for the calculation events topic.
// timeout bounds each broker read and write.
func NewPublisher(brokers []string, topic string, timeout time.Duration, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  maxAttempts,
		WriteTimeout: timeout,
		ReadTimeout:  timeout,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish writes a single event keyed by its id.
func (p *Publisher) Publish(ctx context.Context, event domain.CalculationEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish calculation event: %w", err)
	}
	p.logger.Debug("calculation event published", "id", event.ID, "pathway", event.Pathway)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a CalculationEvent into a Kafka message.
func serializeToMessage(event domain.CalculationEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize calculation event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "pathway", Value: []byte(event.Pathway)},
			{Key: "computed_at", Value: []byte(event.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
