package ranker

import (
	"reflect"
	"testing"

	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
)

func buildIndex(t *testing.T, sizes tokenizer.Sizes, records ...index.Record) *index.MatchIndex {
	t.Helper()
	c := index.NewCorpus()
	for i := range records {
		records[i].Language = "en"
	}
	if err := c.AddAll(records); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	return index.Build(c, "en", sizes)
}

func TestRankPrefersClosestName(t *testing.T) {
	idx := buildIndex(t, tokenizer.DefaultSizes(),
		index.Record{Code: "MH", Name: "marshall islands"},
		index.Record{Code: "SB", Name: "solomon islands"},
		index.Record{Code: "FR", Name: "france"},
	)
	got := Rank(idx, "marshal islands")
	if len(got) == 0 || got[0].Code != "MH" {
		t.Fatalf("top candidate = %+v, want MH", got)
	}
	for _, c := range got {
		if c.Code == "FR" {
			t.Errorf("unrelated name scored: %+v", c)
		}
		if c.Score < 0 {
			t.Errorf("negative score: %+v", c)
		}
	}
}

func TestRankExactScoreArithmetic(t *testing.T) {
	sizes, _ := tokenizer.NewSizes(1)
	idx := buildIndex(t, sizes,
		index.Record{Code: "AA", Name: "ab"},
		index.Record{Code: "BB", Name: "b"},
	)
	// Postings: a -> {ab:1} total 1; b -> {ab:1, b:1} total 2.
	got := Rank(idx, "ab")
	want := []Candidate{
		{Code: "AA", Score: 1.5, Name: "ab"},
		{Code: "BB", Score: 0.5, Name: "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank = %+v, want %+v", got, want)
	}
}

func TestRankOneCandidatePerCodeAndSubregion(t *testing.T) {
	idx := buildIndex(t, tokenizer.DefaultSizes(),
		index.Record{Code: "GB", Name: "united kingdom"},
		index.Record{Code: "GB", Name: "great britain"},
		index.Record{Code: "GB", Subregion: true, Name: "england"},
		index.Record{Code: "GB", Subregion: true, Name: "northern england"},
	)
	got := Rank(idx, "united kingdom england")
	seen := map[string]int{}
	for _, c := range got {
		key := c.Code
		if c.Subregion {
			key += ">"
		}
		seen[key]++
	}
	if seen["GB"] != 1 || seen["GB>"] != 1 || len(got) != 2 {
		t.Errorf("expected one GB and one GB> candidate, got %+v", got)
	}
	for _, c := range got {
		if !c.Subregion && c.Name != "united kingdom" {
			t.Errorf("country candidate kept %q, want best alias", c.Name)
		}
	}
}

func TestRankTieBreakIsDeterministic(t *testing.T) {
	sizes, _ := tokenizer.NewSizes(3)
	idx := buildIndex(t, sizes,
		index.Record{Code: "ZZ", Name: "abc"},
		index.Record{Code: "AA", Name: "abc d"},
		index.Record{Code: "MM", Name: "abc e"},
	)
	first := Rank(idx, "abc")
	for i := 0; i < 20; i++ {
		if again := Rank(idx, "abc"); !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking changed between runs:\n%+v\n%+v", first, again)
		}
	}
	// "abc d" and "abc e" share every query gram with equal weight.
	var tied []string
	for _, c := range first {
		if c.Code == "AA" || c.Code == "MM" {
			tied = append(tied, c.Code)
		}
	}
	if !reflect.DeepEqual(tied, []string{"AA", "MM"}) {
		t.Errorf("tied candidates ordered %v, want code order", tied)
	}
}

func TestRankSortedDescending(t *testing.T) {
	idx := buildIndex(t, tokenizer.DefaultSizes(),
		index.Record{Code: "KR", Name: "korea the republic of"},
		index.Record{Code: "KP", Name: "korea the democratic people's republic of"},
		index.Record{Code: "ZA", Name: "south africa"},
		index.Record{Code: "SS", Name: "south sudan"},
	)
	got := Rank(idx, "korea south")
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("not sorted at %d: %+v", i, got)
		}
	}
}

func TestRankEmptyIndex(t *testing.T) {
	idx := index.Build(nil, "en", tokenizer.DefaultSizes())
	if got := Rank(idx, "anything"); len(got) != 0 {
		t.Errorf("empty index produced %d candidates", len(got))
	}
}

func TestTop(t *testing.T) {
	cs := []Candidate{{Code: "A"}, {Code: "B"}, {Code: "C"}}
	if got := Top(cs, 2); len(got) != 2 {
		t.Errorf("Top(2) len = %d", len(got))
	}
	if got := Top(cs, 0); len(got) != 3 {
		t.Errorf("Top(0) len = %d", len(got))
	}
	if got := Top(cs, 9); len(got) != 3 {
		t.Errorf("Top(9) len = %d", len(got))
	}
}
