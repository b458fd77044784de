package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ianmackinnon/isostate/pkg/config"
	"github.com/segmentio/kafka-go"
)

// logPartition is the only partition a Log reads and writes, so replay order
// equals append order.
const logPartition = 0

// firstPartition routes every message to logPartition.
type firstPartition struct{}

func (firstPartition) Balance(_ kafka.Message, partitions ...int) int {
	for _, p := range partitions {
		if p == logPartition {
			return p
		}
	}
	return partitions[0]
}

// Producer appends raw records to partition 0 of a topic.
type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewProducer creates a Producer for cfg.Topic.
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               firstPartition{},
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}
	return &Producer{
		writer: w,
		logger: slog.Default().With("component", "kafka-producer", "topic", cfg.Topic),
	}
}

// Publish writes values synchronously, in order.
func (p *Producer) Publish(ctx context.Context, values ...[]byte) error {
	messages := make([]kafka.Message, 0, len(values))
	for _, v := range values {
		messages = append(messages, kafka.Message{Value: v})
	}
	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.logger.Error("failed to publish", "count", len(messages), "error", err)
		return fmt.Errorf("publishing to kafka: %w", err)
	}
	p.logger.Debug("published", "count", len(messages))
	return nil
}

// Close flushes pending writes and closes the underlying Kafka writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
