// Package postgres wraps database/sql with the lib/pq driver and provides an
// append-only line log table used by the shared learning cache.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ianmackinnon/isostate/pkg/config"
	"github.com/lib/pq"
)

type Client struct {
	DB  *sql.DB
	cfg config.PostgresConfig
}

func New(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{DB: db, cfg: cfg}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Log is an append-only table of text lines replayed in insertion order.
type Log struct {
	client *Client
	table  string
}

// Log returns the line log stored in table, creating the table if needed.
func (c *Client) Log(ctx context.Context, table string) (*Log, error) {
	l := &Log{client: c, table: pq.QuoteIdentifier(table)}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id         BIGSERIAL PRIMARY KEY,
	line       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, l.table)
	if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
		return nil, fmt.Errorf("creating log table %s: %w", table, err)
	}
	return l, nil
}

// Append inserts lines in one transaction.
func (l *Log) Append(ctx context.Context, lines ...string) error {
	return l.client.InTx(ctx, func(tx *sql.Tx) error {
		stmt := fmt.Sprintf("INSERT INTO %s (line) VALUES ($1)", l.table)
		for _, line := range lines {
			if _, err := tx.ExecContext(ctx, stmt, line); err != nil {
				return fmt.Errorf("inserting log line: %w", err)
			}
		}
		return nil
	})
}

// Lines returns every line, oldest first.
func (l *Log) Lines(ctx context.Context) ([]string, error) {
	rows, err := l.client.DB.QueryContext(ctx, fmt.Sprintf("SELECT line FROM %s ORDER BY id", l.table))
	if err != nil {
		return nil, fmt.Errorf("querying log lines: %w", err)
	}
	defer rows.Close()
	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning log line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Truncate removes every line. Used by tests to start from an empty log.
func (l *Log) Truncate(ctx context.Context) error {
	_, err := l.client.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s", l.table))
	return err
}
