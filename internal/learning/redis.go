package learning

import (
	"context"

	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/pkg/config"
	"github.com/ianmackinnon/isostate/pkg/redis"
	"github.com/ianmackinnon/isostate/pkg/resilience"
)

// RedisStore keeps rows in a Redis list, one element per row.
type RedisStore struct {
	client *redis.Client
	key    string
	retry  resilience.RetryConfig
}

func NewRedisStore(cfg config.RedisConfig, retry config.RetryConfig) (*RedisStore, error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, unavailable(config.BackendRedis, err)
	}
	return &RedisStore{client: client, key: cfg.Key, retry: resilience.FromConfig(retry)}, nil
}

func (s *RedisStore) Append(ctx context.Context, row reference.Row) error {
	err := resilience.Retry(ctx, "redis-append", s.retry, func() error {
		_, err := s.client.Append(ctx, s.key, line(row))
		return err
	})
	if err != nil {
		return unavailable(config.BackendRedis, err)
	}
	return nil
}

func (s *RedisStore) Rows(ctx context.Context) ([]reference.Row, error) {
	lines, err := s.client.Range(ctx, s.key)
	if err != nil {
		return nil, unavailable(config.BackendRedis, err)
	}
	return parseLines("redis:"+s.key, lines)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *RedisStore) Backend() string {
	return config.BackendRedis
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// reset deletes the list. Tests use it to start empty.
func (s *RedisStore) reset(ctx context.Context) error {
	return s.client.Del(ctx, s.key)
}
