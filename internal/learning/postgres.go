package learning

import (
	"context"

	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/pkg/config"
	"github.com/ianmackinnon/isostate/pkg/postgres"
	"github.com/ianmackinnon/isostate/pkg/resilience"
)

// PostgresStore keeps rows in an append-only table replayed by id.
type PostgresStore struct {
	client *postgres.Client
	log    *postgres.Log
	table  string
	retry  resilience.RetryConfig
}

func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, retry config.RetryConfig) (*PostgresStore, error) {
	client, err := postgres.New(cfg)
	if err != nil {
		return nil, unavailable(config.BackendPostgres, err)
	}
	log, err := client.Log(ctx, cfg.Table)
	if err != nil {
		client.Close()
		return nil, unavailable(config.BackendPostgres, err)
	}
	return &PostgresStore{
		client: client,
		log:    log,
		table:  cfg.Table,
		retry:  resilience.FromConfig(retry),
	}, nil
}

func (s *PostgresStore) Append(ctx context.Context, row reference.Row) error {
	err := resilience.Retry(ctx, "postgres-append", s.retry, func() error {
		return s.log.Append(ctx, line(row))
	})
	if err != nil {
		return unavailable(config.BackendPostgres, err)
	}
	return nil
}

func (s *PostgresStore) Rows(ctx context.Context) ([]reference.Row, error) {
	lines, err := s.log.Lines(ctx)
	if err != nil {
		return nil, unavailable(config.BackendPostgres, err)
	}
	return parseLines("postgres:"+s.table, lines)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *PostgresStore) Backend() string {
	return config.BackendPostgres
}

func (s *PostgresStore) Close() error {
	return s.client.Close()
}

func (s *PostgresStore) reset(ctx context.Context) error {
	return s.log.Truncate(ctx)
}
