// Package learning persists confirmed disambiguation decisions and replays
// them on top of the base corpus so later lookups of the same text resolve
// exactly.
package learning

import (
	"context"
	"fmt"
	"strings"

	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/pkg/config"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
)

// Store is an append-only log of cache rows.
type Store interface {
	// Append writes one row after every row already in the store.
	Append(ctx context.Context, row reference.Row) error
	// Rows replays the store in append order. An empty or missing store
	// yields no rows.
	Rows(ctx context.Context) ([]reference.Row, error)
	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// Open builds the store selected by cfg. It returns a nil Store when caching
// is disabled, either explicitly or by a file backend without a path.
func Open(ctx context.Context, cfg config.CacheConfig, retry config.RetryConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendNone, "":
		return nil, nil
	case config.BackendFile:
		if cfg.Path == "" {
			return nil, nil
		}
		return NewFileStore(cfg.Path), nil
	case config.BackendRedis:
		s, err := NewRedisStore(cfg.Redis, retry)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPostgres:
		s, err := NewPostgresStore(ctx, cfg.Postgres, retry)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendKafka:
		return NewKafkaStore(cfg.Kafka, retry), nil
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, "unknown cache backend %q", cfg.Backend)
	}
}

// line renders a row without its trailing newline, for stores that keep one
// record per row.
func line(row reference.Row) string {
	return strings.TrimSuffix(row.Format(), "\n")
}

// parseLines parses stored lines, naming the store and position on failure.
func parseLines(source string, lines []string) ([]reference.Row, error) {
	rows := make([]reference.Row, 0, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		row, err := reference.ParseRow(l)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func unavailable(backend string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrCacheUnavailable, backend, err)
}
