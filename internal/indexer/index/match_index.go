package index

import (
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
)

// MatchIndex is an immutable exact-name table plus n-gram postings built from
// one language of a corpus. Rebuild by calling Build again; there is no
// incremental update.
type MatchIndex struct {
	language string
	sizes    tokenizer.Sizes
	exact    map[string]Entry
	postings map[string]*Posting
}

// Build indexes the records of corpus tagged with language. A name's weight
// in the postings is 1/(number of names mapped to its code), so codes with
// many aliases do not outscore codes with few. Blank-code records are only
// exact-matchable.
func Build(corpus *Corpus, language string, sizes tokenizer.Sizes) *MatchIndex {
	m := &MatchIndex{
		language: language,
		sizes:    sizes,
		exact:    make(map[string]Entry),
		postings: make(map[string]*Posting),
	}
	if corpus == nil {
		return m
	}

	var codes []string
	names := make(map[string][]string)
	for _, r := range corpus.Language(language) {
		e := Entry{Code: r.Code, Subregion: r.Subregion}
		m.exact[r.Name] = e
		if e.Blank() {
			continue
		}
		if _, seen := names[r.Code]; !seen {
			codes = append(codes, r.Code)
		}
		names[r.Code] = append(names[r.Code], r.Name)
	}

	for _, code := range codes {
		list := names[code]
		weight := 1.0 / float64(len(list))
		for _, name := range list {
			for gram := range tokenizer.NGrams(name, sizes) {
				p, ok := m.postings[gram]
				if !ok {
					p = newPosting()
					m.postings[gram] = p
				}
				p.add(name, weight)
			}
		}
	}
	return m
}

// Lookup probes the exact table with an already-normalized name.
func (m *MatchIndex) Lookup(name string) (Entry, bool) {
	e, ok := m.exact[name]
	return e, ok
}

// Posting returns the posting for gram. Callers must not modify it.
func (m *MatchIndex) Posting(gram string) (*Posting, bool) {
	p, ok := m.postings[gram]
	return p, ok
}

func (m *MatchIndex) Language() string {
	return m.language
}

func (m *MatchIndex) Sizes() tokenizer.Sizes {
	return m.sizes
}

// Len returns the number of distinct names.
func (m *MatchIndex) Len() int {
	return len(m.exact)
}

// Grams returns the number of distinct n-grams.
func (m *MatchIndex) Grams() int {
	return len(m.postings)
}
