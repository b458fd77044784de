// Package metrics defines the Prometheus collectors used by the resolver and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for ResolutionsTotal.
const (
	OutcomeExact      = "exact"
	OutcomeConfirmed  = "confirmed"
	OutcomeCancelled  = "cancelled"
	OutcomeBatchMiss  = "batch_miss"
	OutcomeSubregion  = "subregion_discarded"
	OutcomeBlank      = "blank"
	OutcomeEmptyInput = "empty_input"
	OutcomeError      = "error"
)

// Status labels for reload and append counters.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Metrics holds all Prometheus collectors for isostate.
type Metrics struct {
	ResolutionsTotal    *prometheus.CounterVec
	PromptsTotal        prometheus.Counter
	CandidatesReturned  prometheus.Histogram
	IndexReloadsTotal   *prometheus.CounterVec
	IndexReloadDuration prometheus.Histogram
	IndexNames          prometheus.Gauge
	IndexGrams          prometheus.Gauge
	CacheAppendsTotal   *prometheus.CounterVec
	MemoHitsTotal       prometheus.Counter
	MemoMissesTotal     prometheus.Counter
}

// New creates all collectors and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry(); the CLI passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isostate_resolutions_total",
				Help: "Resolutions by outcome (exact, confirmed, cancelled, batch_miss, subregion_discarded, blank, empty_input, error).",
			},
			[]string{"outcome"},
		),
		PromptsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "isostate_prompts_total",
				Help: "Total candidate pages shown to the user.",
			},
		),
		CandidatesReturned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "isostate_candidates_returned",
				Help:    "Number of fuzzy candidates produced per query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		IndexReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isostate_index_reloads_total",
				Help: "Total index rebuilds by status.",
			},
			[]string{"status"},
		),
		IndexReloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "isostate_index_reload_duration_seconds",
				Help:    "Time to reload the corpus and rebuild the match index.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		IndexNames: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "isostate_index_names",
				Help: "Distinct normalized names in the current index.",
			},
		),
		IndexGrams: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "isostate_index_ngrams",
				Help: "Distinct n-grams in the current index.",
			},
		),
		CacheAppendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isostate_cache_appends_total",
				Help: "Learning cache appends by backend and status.",
			},
			[]string{"backend", "status"},
		),
		MemoHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "isostate_memo_hits_total",
				Help: "Fuzzy candidate memo hits.",
			},
		),
		MemoMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "isostate_memo_misses_total",
				Help: "Fuzzy candidate memo misses.",
			},
		),
	}

	reg.MustRegister(
		m.ResolutionsTotal,
		m.PromptsTotal,
		m.CandidatesReturned,
		m.IndexReloadsTotal,
		m.IndexReloadDuration,
		m.IndexNames,
		m.IndexGrams,
		m.CacheAppendsTotal,
		m.MemoHitsTotal,
		m.MemoMissesTotal,
	)

	return m
}

// NewNop returns collectors registered nowhere, for library callers that do
// not export metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler returns the Prometheus scrape HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
