package learning

import (
	"context"

	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/pkg/config"
	"github.com/ianmackinnon/isostate/pkg/kafka"
	"github.com/ianmackinnon/isostate/pkg/resilience"
)

// KafkaStore keeps rows as records of a single-partition topic, so several
// machines can share what each has learned.
type KafkaStore struct {
	producer *kafka.Producer
	replayer *kafka.Replayer
	topic    string
	retry    resilience.RetryConfig
}

func NewKafkaStore(cfg config.KafkaConfig, retry config.RetryConfig) *KafkaStore {
	return &KafkaStore{
		producer: kafka.NewProducer(cfg),
		replayer: kafka.NewReplayer(cfg),
		topic:    cfg.Topic,
		retry:    resilience.FromConfig(retry),
	}
}

func (s *KafkaStore) Append(ctx context.Context, row reference.Row) error {
	err := resilience.Retry(ctx, "kafka-append", s.retry, func() error {
		return s.producer.Publish(ctx, []byte(line(row)))
	})
	if err != nil {
		return unavailable(config.BackendKafka, err)
	}
	return nil
}

func (s *KafkaStore) Rows(ctx context.Context) ([]reference.Row, error) {
	values, err := s.replayer.ReadAll(ctx)
	if err != nil {
		return nil, unavailable(config.BackendKafka, err)
	}
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = string(v)
	}
	return parseLines("kafka:"+s.topic, lines)
}

func (s *KafkaStore) Ping(ctx context.Context) error {
	return s.replayer.Ping(ctx)
}

func (s *KafkaStore) Backend() string {
	return config.BackendKafka
}

func (s *KafkaStore) Close() error {
	return s.producer.Close()
}
