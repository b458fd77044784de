// Package resolver turns free-form place names into region codes. It owns
// the index, the learning cache and the display name tables, and asks a
// Prompter when no exact match exists.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ianmackinnon/isostate/internal/analytics"
	"github.com/ianmackinnon/isostate/internal/disambiguate"
	"github.com/ianmackinnon/isostate/internal/indexer"
	"github.com/ianmackinnon/isostate/internal/indexer/index"
	"github.com/ianmackinnon/isostate/internal/indexer/tokenizer"
	"github.com/ianmackinnon/isostate/internal/learning"
	"github.com/ianmackinnon/isostate/internal/names"
	"github.com/ianmackinnon/isostate/internal/reference"
	"github.com/ianmackinnon/isostate/internal/searcher/cache"
	"github.com/ianmackinnon/isostate/internal/searcher/executor"
	"github.com/ianmackinnon/isostate/pkg/config"
	apperrors "github.com/ianmackinnon/isostate/pkg/errors"
	"github.com/ianmackinnon/isostate/pkg/logger"
	"github.com/ianmackinnon/isostate/pkg/metrics"
)

// Options control a single Resolve call.
type Options struct {
	// Batch disables prompting; only exact matches resolve.
	Batch bool
	// AcceptSubregion returns the parent code for subregion matches instead
	// of no match.
	AcceptSubregion bool
}

type Resolver struct {
	cfg      *config.Config
	catalog  *reference.Catalog
	engine   *indexer.Engine
	search   *executor.Executor
	learned  *learning.Cache
	store    learning.Store
	ownStore bool
	names    *names.Table
	prompter disambiguate.Prompter
	metrics  *metrics.Metrics
	session  *analytics.Session
	logger   *slog.Logger
}

type Option func(*Resolver)

// WithPrompter sets who answers disambiguation prompts. Without one, only
// batch resolution is possible.
func WithPrompter(p disambiguate.Prompter) Option {
	return func(r *Resolver) { r.prompter = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

func WithSession(s *analytics.Session) Option {
	return func(r *Resolver) {
		if s != nil {
			r.session = s
		}
	}
}

// WithCatalog replaces the reference data selected by cfg.
func WithCatalog(c *reference.Catalog) Option {
	return func(r *Resolver) { r.catalog = c }
}

// WithStore replaces the learning store selected by cfg.
func WithStore(s learning.Store) Option {
	return func(r *Resolver) {
		r.store = s
		r.ownStore = true
	}
}

// Open builds a resolver from cfg: it opens the reference data and learning
// store, builds the index, and loads the configured display name lookup.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Resolver, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Resolver{
		cfg:     cfg,
		metrics: metrics.NewNop(),
		session: analytics.NewSession(),
		logger:  slog.Default().With("component", "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.catalog == nil {
		catalog, err := reference.Open(cfg.Reference.DataDir)
		if err != nil {
			return nil, err
		}
		r.catalog = catalog
	}

	if !r.ownStore {
		store, err := learning.Open(ctx, cfg.Cache, cfg.Retry)
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		r.store = store
	}
	r.learned = learning.NewCache(r.catalog, r.store, r.metrics)

	sizes, err := tokenizer.NewSizes(cfg.Index.NGramSizes...)
	if err != nil {
		r.learned.Close()
		return nil, err
	}
	r.engine = indexer.NewEngine(r.learned, cfg.Reference.Language, sizes, r.metrics)
	r.learned.SetReloader(r.engine)
	memo := cache.New(cfg.Index.MemoSize, cfg.Index.MemoTTL, r.metrics)
	r.search = executor.New(r.engine, memo, r.metrics)

	if err := r.engine.Reload(ctx); err != nil {
		r.learned.Close()
		return nil, err
	}

	r.names = names.NewTable(r.catalog)
	if err := r.names.AddLookup(cfg.Reference.NameStyle, cfg.Reference.Language); err != nil {
		r.learned.Close()
		return nil, err
	}
	r.logger.Debug("resolver ready",
		"reference", r.catalog.Origin(),
		"language", cfg.Reference.Language,
		"names", r.engine.Snapshot().Len(),
		"sizes", sizes.String(),
	)
	return r, nil
}

// Resolve returns the code for text, or "" when there is no match. Errors
// come only from the prompter, the cache store or the reload.
func (r *Resolver) Resolve(ctx context.Context, text string, opts Options) (string, error) {
	start := time.Now()
	log := logger.FromContext(ctx).With("component", "resolver")
	event := analytics.ResolutionEvent{
		Text:       text,
		Normalized: tokenizer.Normalize(text),
		Timestamp:  start,
	}
	finish := func(outcome, code string) {
		event.Outcome = outcome
		event.Code = code
		event.Latency = time.Since(start)
		r.metrics.ResolutionsTotal.WithLabelValues(outcome).Inc()
		r.session.Record(event)
		log.Debug("resolved", "text", text, "outcome", outcome, "code", code)
	}

	if event.Normalized == "" {
		finish(metrics.OutcomeEmptyInput, "")
		return "", nil
	}

	outcome := metrics.OutcomeExact
	entry, ok := r.engine.Snapshot().Lookup(event.Normalized)
	if !ok {
		if opts.Batch {
			finish(metrics.OutcomeBatchMiss, "")
			return "", nil
		}
		if r.prompter == nil {
			finish(metrics.OutcomeError, "")
			return "", apperrors.New(apperrors.ErrInvalidInput, "no prompter available for interactive resolution")
		}
		var err error
		entry, outcome, err = r.disambiguate(ctx, text, &event)
		if err != nil {
			finish(metrics.OutcomeError, "")
			return "", err
		}
	}

	switch {
	case entry.Blank():
		if outcome == metrics.OutcomeExact {
			outcome = metrics.OutcomeBlank
		}
		finish(outcome, "")
		return "", nil
	case entry.Subregion && !opts.AcceptSubregion:
		finish(metrics.OutcomeSubregion, "")
		return "", nil
	}
	finish(outcome, entry.Code)
	return entry.Code, nil
}

// disambiguate asks the prompter and records the answer, a cancellation
// included, so the same text resolves silently next time.
func (r *Resolver) disambiguate(ctx context.Context, text string, event *analytics.ResolutionEvent) (index.Entry, string, error) {
	counter := &countingPrompter{Prompter: r.prompter}
	d := disambiguate.New(r.search, counter,
		disambiguate.WithPageSize(r.cfg.Disambiguation.PageSize),
		disambiguate.WithMetrics(r.metrics),
	)
	result, err := d.Run(ctx, text)
	event.Prompts = counter.n
	if err != nil {
		return index.Entry{}, "", fmt.Errorf("disambiguating %q: %w", text, err)
	}

	decision := learning.Decision{Language: r.cfg.Reference.Language, Name: text}
	outcome := metrics.OutcomeCancelled
	if !result.Cancelled {
		decision.Code = result.Code
		decision.Subregion = result.Subregion
		outcome = metrics.OutcomeConfirmed
	}
	if err := r.learned.Append(ctx, decision); err != nil {
		return index.Entry{}, "", err
	}
	return index.Entry{Code: decision.Code, Subregion: decision.Subregion}, outcome, nil
}

// Name renders code with the (style, lang) lookup.
func (r *Resolver) Name(code, style, lang string) (string, error) {
	return r.names.Name(code, style, lang)
}

// AddLookups loads further display name sources.
func (r *Resolver) AddLookups(ctx context.Context, keys ...reference.Key) error {
	return r.names.AddLookups(ctx, keys...)
}

func (r *Resolver) Catalog() *reference.Catalog {
	return r.catalog
}

func (r *Resolver) Engine() *indexer.Engine {
	return r.engine
}

// Store returns the learning store, nil when caching is disabled.
func (r *Resolver) Store() learning.Store {
	return r.learned.Store()
}

func (r *Resolver) Session() *analytics.Session {
	return r.session
}

func (r *Resolver) Close() error {
	return r.learned.Close()
}

type countingPrompter struct {
	disambiguate.Prompter
	n int
}

func (p *countingPrompter) Prompt(ctx context.Context, view disambiguate.View) (string, error) {
	p.n++
	return p.Prompter.Prompt(ctx, view)
}
