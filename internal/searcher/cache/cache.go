package cache

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/ianmackinnon/isostate/internal/searcher/ranker"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

// CandidateCache memoizes ranked candidates per normalized query. Entries
// are only valid for the index they were computed against, so the owner must
// call Purge whenever the index is rebuilt.
type CandidateCache struct {
	lru     *expirable.LRU[string, []ranker.Candidate]
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(size int, ttl time.Duration, m *metrics.Metrics) *CandidateCache {
	if size <= 0 {
		size = 1
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &CandidateCache{
		lru:     expirable.NewLRU[string, []ranker.Candidate](size, nil, ttl),
		metrics: m,
		logger:  slog.Default().With("component", "candidate-cache"),
	}
}

func (c *CandidateCache) Get(query string) ([]ranker.Candidate, bool) {
	result, ok := c.lru.Get(query)
	if !ok {
		c.misses.Add(1)
		c.metrics.MemoMissesTotal.Inc()
		return nil, false
	}
	c.hits.Add(1)
	c.metrics.MemoHitsTotal.Inc()
	c.logger.Debug("cache hit", "query", query)
	return result, true
}

func (c *CandidateCache) Set(query string, result []ranker.Candidate) {
	c.lru.Add(query, result)
}

// GetOrCompute returns the memoized candidates for query or computes and
// stores them. The boolean reports a cache hit.
func (c *CandidateCache) GetOrCompute(query string, computeFn func() []ranker.Candidate) ([]ranker.Candidate, bool) {
	if result, ok := c.Get(query); ok {
		return result, true
	}
	val, _, _ := c.group.Do(query, func() (interface{}, error) {
		result := computeFn()
		c.Set(query, result)
		return result, nil
	})
	result, ok := val.([]ranker.Candidate)
	if !ok {
		panic(fmt.Sprintf("candidate cache: unexpected value %T", val))
	}
	return result, false
}

// Purge drops every memoized query.
func (c *CandidateCache) Purge() {
	n := c.lru.Len()
	c.lru.Purge()
	c.logger.Debug("cache purged", "entries", n)
}

func (c *CandidateCache) Len() int {
	return c.lru.Len()
}

func (c *CandidateCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
