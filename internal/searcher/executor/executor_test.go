package executor

import (
	"context"
	"testing"
	"time"

	"github.com/ianmackinnon/isostate/internal/indexer"
	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
	"github.com/ianmackinnon/isostate/internal/searcher/cache"
)

func newEngine(t *testing.T, records *[]index.Record) *indexer.Engine {
	t.Helper()
	loader := indexer.CorpusLoaderFunc(func(context.Context) (*index.Corpus, error) {
		c := index.NewCorpus()
		return c, c.AddAll(*records)
	})
	e := indexer.NewEngine(loader, "en", tokenizer.DefaultSizes(), nil)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return e
}

func TestCandidatesUsesMemoUntilReload(t *testing.T) {
	records := []index.Record{
		{Code: "NE", Language: "en", Name: "niger"},
		{Code: "NG", Language: "en", Name: "nigeria"},
	}
	engine := newEngine(t, &records)
	memo := cache.New(16, time.Minute, nil)
	exec := New(engine, memo, nil)

	got := exec.Candidates("Nigeria!")
	if len(got) == 0 || got[0].Code != "NG" {
		t.Fatalf("Candidates = %+v, want NG first", got)
	}
	exec.Candidates("nigeria")
	if hits, _ := memo.Stats(); hits != 1 {
		t.Errorf("memo hits = %d, want 1 (queries normalize to the same key)", hits)
	}

	records = append(records, index.Record{Code: "NG", Language: "en", Name: "federal republic of nigeria"})
	if err := engine.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if memo.Len() != 0 {
		t.Errorf("memo not purged on reload, len = %d", memo.Len())
	}
}

func TestCandidatesEmptyQuery(t *testing.T) {
	records := []index.Record{{Code: "NE", Language: "en", Name: "niger"}}
	exec := New(newEngine(t, &records), nil, nil)
	if got := exec.Candidates(" ?! "); got != nil {
		t.Errorf("Candidates(punctuation) = %+v, want nil", got)
	}
}

func TestExactNormalizes(t *testing.T) {
	records := []index.Record{{Code: "CI", Language: "en", Name: "côte d'ivoire"}}
	exec := New(newEngine(t, &records), nil, nil)
	if e, ok := exec.Exact("  CÔTE D’IVOIRE "); !ok || e.Code != "CI" {
		t.Errorf("Exact = %+v, %v", e, ok)
	}
}
