package index

import "strings"

// Entry is the exact-table value for a normalized name.
type Entry struct {
	Code      string
	Subregion bool
}

// Blank reports whether the entry records a confirmed "no match".
func (e Entry) Blank() bool {
	return strings.TrimSpace(e.Code) == ""
}

// Posting holds the names containing one n-gram. Weights sum per name over
// every occurrence of the gram; Total is the sum of all weights.
type Posting struct {
	Weights map[string]float64
	Total   float64
}

func newPosting() *Posting {
	return &Posting{Weights: make(map[string]float64)}
}

func (p *Posting) add(name string, weight float64) {
	p.Weights[name] += weight
	p.Total += weight
}
