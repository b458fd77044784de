// Package kafka provides a single-partition append/replay log backed by
// segmentio/kafka-go. The producer appends records to partition 0 and the
// replayer reads the partition from its first offset up to the high water
// mark observed when the replay starts.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ianmackinnon/isostate/pkg/config"
	"github.com/segmentio/kafka-go"
)

const maxBatchBytes = 10e6

// Replayer reads every record of partition 0 of a topic.
type Replayer struct {
	brokers []string
	topic   string
	dialer  *kafka.Dialer
	timeout time.Duration
	logger  *slog.Logger
}

// NewReplayer creates a Replayer for cfg.Topic.
func NewReplayer(cfg config.KafkaConfig) *Replayer {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Replayer{
		brokers: cfg.Brokers,
		topic:   cfg.Topic,
		dialer:  &kafka.Dialer{Timeout: timeout},
		timeout: timeout,
		logger:  slog.Default().With("component", "kafka-replayer", "topic", cfg.Topic),
	}
}

// ReadAll returns the values of every record currently in the partition,
// oldest first. An empty or missing topic yields no records.
func (r *Replayer) ReadAll(ctx context.Context) ([][]byte, error) {
	conn, err := r.dial(ctx)
	if errors.Is(err, kafka.UnknownTopicOrPartition) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	first, last, err := conn.ReadOffsets()
	if err != nil {
		return nil, fmt.Errorf("reading offsets: %w", err)
	}
	var values [][]byte
	next := first
	for next < last {
		if _, err := conn.Seek(next, kafka.SeekAbsolute); err != nil {
			return nil, fmt.Errorf("seeking to offset %d: %w", next, err)
		}
		if err := conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
			return nil, fmt.Errorf("setting read deadline: %w", err)
		}
		start := next
		batch := conn.ReadBatch(1, maxBatchBytes)
		for next < last {
			msg, err := batch.ReadMessage()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					r.logger.Debug("batch ended", "offset", next, "error", err)
				}
				break
			}
			values = append(values, msg.Value)
			next = msg.Offset + 1
		}
		if err := batch.Close(); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("closing batch: %w", err)
		}
		if next == start {
			return nil, fmt.Errorf("no progress reading %s at offset %d of %d", r.topic, next, last)
		}
	}
	r.logger.Debug("replayed", "records", len(values), "first", first, "last", last)
	return values, nil
}

// Ping dials the partition leader.
func (r *Replayer) Ping(ctx context.Context) error {
	conn, err := r.dial(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}

func (r *Replayer) dial(ctx context.Context) (*kafka.Conn, error) {
	var lastErr error
	for _, broker := range r.brokers {
		conn, err := r.dialer.DialLeader(ctx, "tcp", broker, r.topic, logPartition)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no brokers configured")
	}
	return nil, fmt.Errorf("dialing leader for %s: %w", r.topic, lastErr)
}
