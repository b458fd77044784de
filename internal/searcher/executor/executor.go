package executor

import (
	"log/slog"

	"github.com/ianmackinnon/isostate/internal/indexer"
	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
	"github.com/ianmackinnon/isostate/internal/searcher/cache"
	"github.com/ianmackinnon/isostate/internal/searcher/ranker"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

// Executor answers exact and fuzzy queries against the engine's current
// index, memoizing fuzzy results until the next reload.
type Executor struct {
	engine  *indexer.Engine
	cache   *cache.CandidateCache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(engine *indexer.Engine, memo *cache.CandidateCache, m *metrics.Metrics) *Executor {
	if m == nil {
		m = metrics.NewNop()
	}
	e := &Executor{
		engine:  engine,
		cache:   memo,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
	if memo != nil {
		engine.OnReload(func(*index.MatchIndex) { memo.Purge() })
	}
	return e
}

// Exact looks up the normalized form of text.
func (e *Executor) Exact(text string) (index.Entry, bool) {
	return e.engine.Exact(text)
}

// Candidates returns every fuzzy candidate for query, best first.
func (e *Executor) Candidates(query string) []ranker.Candidate {
	key := tokenizer.Normalize(query)
	if key == "" {
		return nil
	}
	compute := func() []ranker.Candidate {
		return ranker.Rank(e.engine.Snapshot(), key)
	}
	var result []ranker.Candidate
	if e.cache == nil {
		result = compute()
	} else {
		var hit bool
		result, hit = e.cache.GetOrCompute(key, compute)
		if hit {
			return result
		}
	}
	e.metrics.CandidatesReturned.Observe(float64(len(result)))
	e.logger.Debug("candidates ranked", "query", key, "count", len(result))
	return result
}
