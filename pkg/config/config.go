// Package config loads and validates isostate configuration from YAML or TOML
// files with environment-variable overrides. It provides typed structs for
// every subsystem (reference data, index, disambiguation, learning cache and
// its backends, logging, metrics, retry).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Cache backend names accepted by CacheConfig.Backend.
const (
	BackendNone     = "none"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendKafka    = "kafka"
)

// Config is the top-level application configuration.
type Config struct {
	Reference      ReferenceConfig      `yaml:"reference" toml:"reference"`
	Index          IndexConfig          `yaml:"index" toml:"index"`
	Disambiguation DisambiguationConfig `yaml:"disambiguation" toml:"disambiguation"`
	Cache          CacheConfig          `yaml:"cache" toml:"cache"`
	Logging        LoggingConfig        `yaml:"logging" toml:"logging"`
	Metrics        MetricsConfig        `yaml:"metrics" toml:"metrics"`
	Retry          RetryConfig          `yaml:"retry" toml:"retry"`
}

// ReferenceConfig selects the reference data and the default lookup used to
// render codes back into names.
type ReferenceConfig struct {
	DataDir   string `yaml:"dataDir" toml:"dataDir"`
	NameStyle string `yaml:"nameStyle" toml:"nameStyle"`
	Language  string `yaml:"language" toml:"language"`
}

// IndexConfig controls n-gram window sizes and the fuzzy candidate memo.
type IndexConfig struct {
	NGramSizes []int         `yaml:"ngramSizes" toml:"ngramSizes"`
	MemoSize   int           `yaml:"memoSize" toml:"memoSize"`
	MemoTTL    time.Duration `yaml:"memoTTL" toml:"memoTTL"`
}

// DisambiguationConfig controls the interactive prompt.
type DisambiguationConfig struct {
	PageSize        int  `yaml:"pageSize" toml:"pageSize"`
	Batch           bool `yaml:"batch" toml:"batch"`
	AcceptSubregion bool `yaml:"acceptSubregion" toml:"acceptSubregion"`
}

// CacheConfig selects where confirmed decisions are persisted.
type CacheConfig struct {
	Backend  string         `yaml:"backend" toml:"backend"`
	Path     string         `yaml:"path" toml:"path"`
	Redis    RedisConfig    `yaml:"redis" toml:"redis"`
	Postgres PostgresConfig `yaml:"postgres" toml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka" toml:"kafka"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host" toml:"host"`
	Port            int           `yaml:"port" toml:"port"`
	Database        string        `yaml:"database" toml:"database"`
	User            string        `yaml:"user" toml:"user"`
	Password        string        `yaml:"password" toml:"password"`
	SSLMode         string        `yaml:"sslMode" toml:"sslMode"`
	Table           string        `yaml:"table" toml:"table"`
	MaxOpenConns    int           `yaml:"maxOpenConns" toml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns" toml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" toml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers     []string      `yaml:"brokers" toml:"brokers"`
	Topic       string        `yaml:"topic" toml:"topic"`
	DialTimeout time.Duration `yaml:"dialTimeout" toml:"dialTimeout"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password" toml:"password"`
	DB       int    `yaml:"db" toml:"db"`
	PoolSize int    `yaml:"poolSize" toml:"poolSize"`
	Key      string `yaml:"key" toml:"key"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Port    int  `yaml:"port" toml:"port"`
}

// RetryConfig controls backoff for network cache backends.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts" toml:"maxAttempts"`
	InitialDelay time.Duration `yaml:"initialDelay" toml:"initialDelay"`
	MaxDelay     time.Duration `yaml:"maxDelay" toml:"maxDelay"`
}

// Load reads a YAML or TOML config file (if provided) and applies
// environment-variable overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}

// Default returns a Config with the documented defaults: short English names,
// windows {3,5,7}, nine candidates per page and no persistent cache.
func Default() *Config {
	return &Config{
		Reference: ReferenceConfig{
			NameStyle: "short",
			Language:  "en",
		},
		Index: IndexConfig{
			NGramSizes: []int{3, 5, 7},
			MemoSize:   256,
			MemoTTL:    10 * time.Minute,
		},
		Disambiguation: DisambiguationConfig{
			PageSize: 9,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 4,
				Key:      "isostate:cache",
			},
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				Database:        "isostate",
				User:            "isostate",
				Password:        "localdev",
				SSLMode:         "disable",
				Table:           "isostate_cache",
				MaxOpenConns:    4,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
			Kafka: KafkaConfig{
				Brokers:     []string{"localhost:9092"},
				Topic:       "isostate-cache",
				DialTimeout: 5 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Reference.NameStyle == "" {
		errs = append(errs, errors.New("reference.nameStyle must not be empty"))
	}
	if len(c.Reference.Language) != 2 {
		errs = append(errs, fmt.Errorf("reference.language %q must be a two-letter tag", c.Reference.Language))
	}
	if len(c.Index.NGramSizes) == 0 {
		errs = append(errs, errors.New("index.ngramSizes must not be empty"))
	}
	for _, size := range c.Index.NGramSizes {
		if size < 1 || size > 7 {
			errs = append(errs, fmt.Errorf("index.ngramSizes: %d is outside 1..7", size))
		}
	}
	if c.Disambiguation.PageSize < 1 {
		errs = append(errs, fmt.Errorf("disambiguation.pageSize %d must be positive", c.Disambiguation.PageSize))
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" || c.Cache.Redis.Key == "" {
			errs = append(errs, errors.New("cache.redis requires addr and key"))
		}
	case BackendPostgres:
		if c.Cache.Postgres.Table == "" {
			errs = append(errs, errors.New("cache.postgres.table must not be empty"))
		}
	case BackendKafka:
		if len(c.Cache.Kafka.Brokers) == 0 || c.Cache.Kafka.Topic == "" {
			errs = append(errs, errors.New("cache.kafka requires brokers and topic"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q is not one of none, file, redis, postgres, kafka", c.Cache.Backend))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not text or json", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// applyEnvOverrides reads ISOSTATE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ISOSTATE_DATA_DIR"); v != "" {
		cfg.Reference.DataDir = v
	}
	if v := os.Getenv("ISOSTATE_NAME_STYLE"); v != "" {
		cfg.Reference.NameStyle = v
	}
	if v := os.Getenv("ISOSTATE_LANGUAGE"); v != "" {
		cfg.Reference.Language = v
	}
	if v := os.Getenv("ISOSTATE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Disambiguation.PageSize = n
		}
	}
	if v := os.Getenv("ISOSTATE_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("ISOSTATE_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("ISOSTATE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("ISOSTATE_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("ISOSTATE_POSTGRES_HOST"); v != "" {
		cfg.Cache.Postgres.Host = v
	}
	if v := os.Getenv("ISOSTATE_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Postgres.Port = port
		}
	}
	if v := os.Getenv("ISOSTATE_POSTGRES_DATABASE"); v != "" {
		cfg.Cache.Postgres.Database = v
	}
	if v := os.Getenv("ISOSTATE_POSTGRES_USER"); v != "" {
		cfg.Cache.Postgres.User = v
	}
	if v := os.Getenv("ISOSTATE_POSTGRES_PASSWORD"); v != "" {
		cfg.Cache.Postgres.Password = v
	}
	if v := os.Getenv("ISOSTATE_KAFKA_BROKERS"); v != "" {
		cfg.Cache.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("ISOSTATE_KAFKA_TOPIC"); v != "" {
		cfg.Cache.Kafka.Topic = v
	}
	if v := os.Getenv("ISOSTATE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ISOSTATE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ISOSTATE_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
}
