package disambiguate

import (
	"math"
	"strings"

	"github.com/ianmackinnon/isostate/internal/searcher/ranker"
)

// BarWidth is the length of the score bar of the best candidate.
const BarWidth = 10

// Choice is one numbered line of a View.
type Choice struct {
	Rank      int
	Bar       string
	Candidate ranker.Candidate
}

// View is everything a Prompter shows for one round.
type View struct {
	// Query is the text the choices were searched with.
	Query string
	// Original is the text being resolved.
	Original string
	Choices  []Choice
	// Notice is set when the previous answer was rejected.
	Notice string
}

func newView(original, query string, candidates []ranker.Candidate) View {
	v := View{Query: query, Original: original, Choices: make([]Choice, len(candidates))}
	var best float64
	for _, c := range candidates {
		best = math.Max(best, c.Score)
	}
	for i, c := range candidates {
		v.Choices[i] = Choice{Rank: i + 1, Bar: bar(c.Score, best), Candidate: c}
	}
	return v
}

func bar(score, best float64) string {
	if best <= 0 || score <= 0 {
		return ""
	}
	n := int(math.Round(BarWidth * score / best))
	return strings.Repeat("+", min(n, BarWidth))
}
