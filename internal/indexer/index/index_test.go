package index

import (
	"errors"
	"math"
	"testing"

	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
)

func testCorpus(t *testing.T, records ...Record) *Corpus {
	t.Helper()
	c := NewCorpus()
	if err := c.AddAll(records); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	return c
}

func TestCorpusLaterRecordWinsInPlace(t *testing.T) {
	c := testCorpus(t,
		Record{Code: "MH", Language: "en", Name: "marshall islands"},
		Record{Code: "FR", Language: "en", Name: "france"},
		Record{Code: "XX", Language: "en", Name: "marshall islands"},
		Record{Code: "MH", Language: "fr", Name: "marshall islands"},
	)
	recs := c.Records()
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	if recs[0].Code != "XX" || recs[0].Name != "marshall islands" {
		t.Errorf("first record = %+v, want overwritten XX in first position", recs[0])
	}
	if got := len(c.Language("fr")); got != 1 {
		t.Errorf("fr records = %d, want 1", got)
	}
}

func TestCorpusRejectsEmptyName(t *testing.T) {
	c := NewCorpus()
	err := c.Add(Record{Code: "MH", Language: "en"})
	if !errors.Is(err, apperrors.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("rejected record was stored")
	}
}

func TestBuildExactTableIsLanguageScoped(t *testing.T) {
	c := testCorpus(t,
		Record{Code: "DE", Language: "en", Name: "germany"},
		Record{Code: "DE", Language: "de", Name: "deutschland"},
		Record{Code: "GB", Subregion: true, Language: "en", Name: "scotland"},
	)
	m := Build(c, "en", tokenizer.DefaultSizes())
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if _, ok := m.Lookup("deutschland"); ok {
		t.Error("other-language name leaked into index")
	}
	e, ok := m.Lookup("scotland")
	if !ok || e.Code != "GB" || !e.Subregion {
		t.Errorf("Lookup(scotland) = %+v, %v", e, ok)
	}
}

func TestBuildWeightsByAliasCount(t *testing.T) {
	c := testCorpus(t,
		Record{Code: "AA", Language: "en", Name: "abc"},
		Record{Code: "BB", Language: "en", Name: "abd"},
		Record{Code: "BB", Language: "en", Name: "abe"},
	)
	sizes, _ := tokenizer.NewSizes(3)
	m := Build(c, "en", sizes)

	p, ok := m.Posting("  a")
	if !ok {
		t.Fatal("missing posting for leading gram")
	}
	if p.Weights["abc"] != 1 {
		t.Errorf("weight(abc) = %v, want 1", p.Weights["abc"])
	}
	if p.Weights["abd"] != 0.5 || p.Weights["abe"] != 0.5 {
		t.Errorf("alias weights = %v / %v, want 0.5", p.Weights["abd"], p.Weights["abe"])
	}
	if math.Abs(p.Total-2) > 1e-12 {
		t.Errorf("Total = %v, want 2", p.Total)
	}
}

func TestBuildCountsRepeatedGrams(t *testing.T) {
	c := testCorpus(t, Record{Code: "AA", Language: "en", Name: "aaaa"})
	sizes, _ := tokenizer.NewSizes(1)
	m := Build(c, "en", sizes)
	p, _ := m.Posting("a")
	if p.Weights["aaaa"] != 4 || p.Total != 4 {
		t.Errorf("posting(a) = %+v, want weight 4", p)
	}
}

func TestBuildBlankCodeIsExactOnly(t *testing.T) {
	c := testCorpus(t,
		Record{Code: "", Language: "en", Name: "atlantis"},
		Record{Code: "AT", Language: "en", Name: "austria"},
	)
	m := Build(c, "en", tokenizer.DefaultSizes())
	e, ok := m.Lookup("atlantis")
	if !ok || !e.Blank() {
		t.Fatalf("Lookup(atlantis) = %+v, %v; want blank hit", e, ok)
	}
	p, ok := m.Posting("  a")
	if !ok {
		t.Fatal("missing posting")
	}
	if _, found := p.Weights["atlantis"]; found {
		t.Error("blank-code name present in postings")
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	for _, c := range []*Corpus{nil, NewCorpus()} {
		m := Build(c, "en", tokenizer.DefaultSizes())
		if m.Len() != 0 || m.Grams() != 0 {
			t.Errorf("empty corpus produced %d names, %d grams", m.Len(), m.Grams())
		}
	}
}

func TestEntryBlank(t *testing.T) {
	if !(Entry{Code: "  "}).Blank() || !(Entry{}).Blank() || (Entry{Code: "MH"}).Blank() {
		t.Error("Blank misclassified an entry")
	}
}
