package cache

import (
	"testing"
	"time"

	"github.com/ianmackinnon/isostate/internal/searcher/ranker"
)

func TestGetOrComputeMemoizes(t *testing.T) {
	c := New(8, time.Minute, nil)
	calls := 0
	compute := func() []ranker.Candidate {
		calls++
		return []ranker.Candidate{{Code: "MH", Score: 1, Name: "marshall islands"}}
	}

	first, hit := c.GetOrCompute("marshall", compute)
	if hit || calls != 1 {
		t.Fatalf("first call: hit=%v calls=%d", hit, calls)
	}
	second, hit := c.GetOrCompute("marshall", compute)
	if !hit || calls != 1 {
		t.Fatalf("second call: hit=%v calls=%d", hit, calls)
	}
	if first[0] != second[0] {
		t.Errorf("memoized value differs: %+v vs %+v", first, second)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}
}

func TestPurgeForcesRecompute(t *testing.T) {
	c := New(8, time.Minute, nil)
	calls := 0
	compute := func() []ranker.Candidate {
		calls++
		return nil
	}
	c.GetOrCompute("korea", compute)
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Len after purge = %d", c.Len())
	}
	c.GetOrCompute("korea", compute)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestEvictsBeyondSize(t *testing.T) {
	c := New(2, time.Minute, nil)
	for _, q := range []string{"a", "b", "c"} {
		c.Set(q, nil)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry was not evicted")
	}
}
