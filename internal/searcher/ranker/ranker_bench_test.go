package ranker

import (
	"testing"

	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
	"github.com/ianmackinnon/isostate/internal/reference"
)

func embeddedCorpus(b *testing.B) *index.Corpus {
	b.Helper()
	rows, err := reference.Embedded().Base()
	if err != nil {
		b.Fatalf("Base: %v", err)
	}
	records, err := reference.Records(rows)
	if err != nil {
		b.Fatalf("Records: %v", err)
	}
	c := index.NewCorpus()
	if err := c.AddAll(records); err != nil {
		b.Fatalf("AddAll: %v", err)
	}
	return c
}

// BenchmarkBuild measures a full index rebuild over the packaged corpus,
// which happens after every learned decision.
func BenchmarkBuild(b *testing.B) {
	corpus := embeddedCorpus(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = index.Build(corpus, "en", tokenizer.DefaultSizes())
	}
}

// BenchmarkRank measures fuzzy ranking for queries of varying length.
func BenchmarkRank(b *testing.B) {
	idx := index.Build(embeddedCorpus(b), "en", tokenizer.DefaultSizes())
	queries := []struct {
		name  string
		query string
	}{
		{"short", "uk"},
		{"typo", "marshal islnds"},
		{"reordered", "korea south"},
		{"long", "united kingdom of great britain and northern ireland"},
	}
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = Rank(idx, q.query)
			}
		})
	}
}
