// Package disambiguate runs the interactive protocol that turns a fuzzy
// candidate list into one confirmed code, a cancellation, or a new search.
package disambiguate

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ianmackinnon/isostate/internal/searcher/ranker"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

// DefaultPageSize is how many candidates are offered per round.
const DefaultPageSize = 9

const (
	NoticeEmpty      = "Please select an option."
	NoticeOutOfRange = "Choice out of range."
)

var (
	choicePattern    = regexp.MustCompile(`^[0-9]+$`)
	subregionPattern = regexp.MustCompile(`^[0-9]+>$`)
)

// Searcher returns ranked candidates for a query, best first.
type Searcher interface {
	Candidates(query string) []ranker.Candidate
}

// Prompter shows a view and returns the user's answer, trimmed. An error
// (io.EOF for a closed input) ends the protocol.
type Prompter interface {
	Prompt(ctx context.Context, view View) (string, error)
}

// Outcome is how a protocol run ended.
type Outcome struct {
	Cancelled bool
	Code      string
	Subregion bool
	// Name is the matched name of the confirmed candidate.
	Name string
}

type Disambiguator struct {
	search   Searcher
	prompter Prompter
	pageSize int
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Disambiguator)

func WithPageSize(n int) Option {
	return func(d *Disambiguator) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Disambiguator) {
		if m != nil {
			d.metrics = m
		}
	}
}

func New(search Searcher, prompter Prompter, opts ...Option) *Disambiguator {
	d := &Disambiguator{
		search:   search,
		prompter: prompter,
		pageSize: DefaultPageSize,
		metrics:  metrics.NewNop(),
		logger:   slog.Default().With("component", "disambiguate"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run prompts until the user confirms a candidate or cancels. Any other
// answer is taken as a new search query; there is no limit on rounds.
func (d *Disambiguator) Run(ctx context.Context, text string) (Outcome, error) {
	query := text
	for {
		view := newView(text, query, ranker.Top(d.search.Candidates(query), d.pageSize))
		for {
			if err := ctx.Err(); err != nil {
				return Outcome{}, err
			}
			d.metrics.PromptsTotal.Inc()
			answer, err := d.prompter.Prompt(ctx, view)
			if err != nil {
				return Outcome{}, err
			}
			answer = strings.TrimSpace(answer)

			outcome, notice, done := d.interpret(view, answer)
			if done {
				d.logger.Debug("disambiguated", "text", text, "answer", answer, "cancelled", outcome.Cancelled, "code", outcome.Code)
				return outcome, nil
			}
			if notice == "" {
				query = answer
				break
			}
			view.Notice = notice
		}
	}
}

// interpret maps an answer to an outcome, a notice for the same view, or
// neither when the answer is a new query.
func (d *Disambiguator) interpret(view View, answer string) (Outcome, string, bool) {
	if answer == "" {
		return Outcome{}, NoticeEmpty, false
	}
	digits := answer
	forceSubregion := false
	switch {
	case choicePattern.MatchString(answer):
	case subregionPattern.MatchString(answer):
		digits = strings.TrimSuffix(answer, ">")
		forceSubregion = true
	default:
		return Outcome{}, "", false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Outcome{}, NoticeOutOfRange, false
	}
	if n == 0 {
		return Outcome{Cancelled: true}, "", true
	}
	if n < 1 || n > len(view.Choices) {
		return Outcome{}, NoticeOutOfRange, false
	}
	c := view.Choices[n-1].Candidate
	return Outcome{
		Code:      c.Code,
		Subregion: forceSubregion || c.Subregion,
		Name:      c.Name,
	}, "", true
}
