package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reference.NameStyle != "short" || cfg.Reference.Language != "en" {
		t.Errorf("reference = %+v", cfg.Reference)
	}
	if got := cfg.Index.NGramSizes; len(got) != 3 || got[0] != 3 || got[2] != 7 {
		t.Errorf("ngramSizes = %v", got)
	}
	if cfg.Disambiguation.PageSize != 9 {
		t.Errorf("pageSize = %d", cfg.Disambiguation.PageSize)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Cache.Path != "" {
		t.Errorf("cache = %s %q", cfg.Cache.Backend, cfg.Cache.Path)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "isostate.yaml", `
reference:
  nameStyle: common
index:
  ngramSizes: [2, 4]
  memoTTL: 30s
cache:
  backend: redis
  redis:
    addr: cache:6379
logging:
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reference.NameStyle != "common" || cfg.Reference.Language != "en" {
		t.Errorf("reference = %+v", cfg.Reference)
	}
	if cfg.Index.MemoTTL != 30*time.Second {
		t.Errorf("memoTTL = %v", cfg.Index.MemoTTL)
	}
	if cfg.Cache.Redis.Addr != "cache:6379" || cfg.Cache.Redis.Key != "isostate:cache" {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "isostate.yml", "reference:\n  nameStlye: common\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "isostate.toml", `
[disambiguation]
pageSize = 5
acceptSubregion = true

[cache]
backend = "postgres"

[cache.postgres]
table = "learned"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Disambiguation.PageSize != 5 || !cfg.Disambiguation.AcceptSubregion {
		t.Errorf("disambiguation = %+v", cfg.Disambiguation)
	}
	if cfg.Cache.Postgres.Table != "learned" || cfg.Cache.Postgres.Port != 5432 {
		t.Errorf("postgres = %+v", cfg.Cache.Postgres)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ISOSTATE_NAME_STYLE", "common")
	t.Setenv("ISOSTATE_CACHE_PATH", "/tmp/learned.csv")
	t.Setenv("ISOSTATE_KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("ISOSTATE_METRICS_PORT", "9191")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reference.NameStyle != "common" || cfg.Cache.Path != "/tmp/learned.csv" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Reference, cfg.Cache)
	}
	if len(cfg.Cache.Kafka.Brokers) != 2 {
		t.Errorf("brokers = %v", cfg.Cache.Kafka.Brokers)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9191 {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Reference.Language = "eng"
	cfg.Index.NGramSizes = []int{0, 9}
	cfg.Disambiguation.PageSize = 0
	cfg.Cache.Backend = "etcd"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"reference.language", "0 is outside", "9 is outside", "pageSize", "etcd", "xml"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestPostgresDSN(t *testing.T) {
	dsn := Default().Cache.Postgres.DSN()
	for _, want := range []string{"host=localhost", "port=5432", "dbname=isostate", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}
