package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

// CorpusLoader produces the full corpus (base data plus learned decisions)
// each time the engine reloads.
type CorpusLoader interface {
	LoadCorpus(ctx context.Context) (*index.Corpus, error)
}

type CorpusLoaderFunc func(ctx context.Context) (*index.Corpus, error)

func (f CorpusLoaderFunc) LoadCorpus(ctx context.Context) (*index.Corpus, error) {
	return f(ctx)
}

// Engine holds the current match index for one language and replaces it
// wholesale on Reload.
type Engine struct {
	mu       sync.RWMutex
	current  *index.MatchIndex
	loader   CorpusLoader
	language string
	sizes    tokenizer.Sizes
	hooks    []func(*index.MatchIndex)
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewEngine(loader CorpusLoader, language string, sizes tokenizer.Sizes, m *metrics.Metrics) *Engine {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Engine{
		current:  index.Build(nil, language, sizes),
		loader:   loader,
		language: language,
		sizes:    sizes,
		metrics:  m,
		logger:   slog.Default().With("component", "indexer", "language", language),
	}
}

// OnReload registers fn to run after every successful reload with the new
// index. Hooks run in registration order.
func (e *Engine) OnReload(fn func(*index.MatchIndex)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, fn)
}

// Reload loads the corpus and swaps in a freshly built index. On error the
// previous index stays in place.
func (e *Engine) Reload(ctx context.Context) error {
	start := time.Now()
	corpus, err := e.loader.LoadCorpus(ctx)
	if err != nil {
		e.metrics.IndexReloadsTotal.WithLabelValues(metrics.StatusFailure).Inc()
		return fmt.Errorf("loading corpus: %w", err)
	}
	next := index.Build(corpus, e.language, e.sizes)

	e.mu.Lock()
	e.current = next
	hooks := make([]func(*index.MatchIndex), len(e.hooks))
	copy(hooks, e.hooks)
	e.mu.Unlock()

	for _, fn := range hooks {
		fn(next)
	}

	elapsed := time.Since(start)
	e.metrics.IndexReloadsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	e.metrics.IndexReloadDuration.Observe(elapsed.Seconds())
	e.metrics.IndexNames.Set(float64(next.Len()))
	e.metrics.IndexGrams.Set(float64(next.Grams()))
	e.logger.Debug("index rebuilt",
		"records", corpus.Len(),
		"names", next.Len(),
		"grams", next.Grams(),
		"elapsed", elapsed,
	)
	return nil
}

// Snapshot returns the current index.
func (e *Engine) Snapshot() *index.MatchIndex {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Exact normalizes text and probes the exact table.
func (e *Engine) Exact(text string) (index.Entry, bool) {
	return e.Snapshot().Lookup(tokenizer.Normalize(text))
}

func (e *Engine) Language() string {
	return e.language
}

func (e *Engine) Sizes() tokenizer.Sizes {
	return e.sizes
}
