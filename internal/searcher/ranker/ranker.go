package ranker

import (
	"sort"

	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
)

// Candidate is the best-scoring name for one (code, subregion) pair.
type Candidate struct {
	Code      string  `json:"code"`
	Subregion bool    `json:"subregion"`
	Score     float64 `json:"score"`
	Name      string  `json:"name"`
}

type candidateKey struct {
	code      string
	subregion bool
}

// Rank scores every indexed name sharing n-grams with query and reduces the
// scores to one candidate per code and subregion flag, best first.
//
// Each occurrence of a query gram adds weight/total for every name in that
// gram's posting, so rare grams count for more than common ones. Equal
// scores are ordered by code, then countries before subregions, then name.
func Rank(idx *index.MatchIndex, query string) []Candidate {
	scores := make(map[string]float64)
	for gram := range tokenizer.NGrams(query, idx.Sizes()) {
		p, ok := idx.Posting(gram)
		if !ok || p.Total == 0 {
			continue
		}
		for name, weight := range p.Weights {
			scores[name] += weight / p.Total
		}
	}

	best := make(map[candidateKey]Candidate, len(scores))
	for name, score := range scores {
		entry, ok := idx.Lookup(name)
		if !ok {
			continue
		}
		key := candidateKey{code: entry.Code, subregion: entry.Subregion}
		cur, seen := best[key]
		if seen && (cur.Score > score || (cur.Score == score && cur.Name < name)) {
			continue
		}
		best[key] = Candidate{
			Code:      entry.Code,
			Subregion: entry.Subregion,
			Score:     score,
			Name:      name,
		}
	}

	result := make([]Candidate, 0, len(best))
	for _, c := range best {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Subregion != b.Subregion {
			return !a.Subregion
		}
		return a.Name < b.Name
	})
	return result
}

// Top returns at most limit candidates.
func Top(candidates []Candidate, limit int) []Candidate {
	if limit > 0 && len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}
