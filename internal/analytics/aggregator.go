package analytics

import (
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

type SessionStats struct {
	TotalResolutions int64          `json:"total_resolutions"`
	Resolved         int64          `json:"resolved"`
	Unresolved       int64          `json:"unresolved"`
	Prompts          int64          `json:"prompts"`
	Outcomes         map[string]int `json:"outcomes"`
	AvgLatencyMs     float64        `json:"avg_latency_ms"`
	P50LatencyMs     int64          `json:"p50_latency_ms"`
	P95LatencyMs     int64          `json:"p95_latency_ms"`
	TopUnresolved    []TextCount    `json:"top_unresolved"`
	Elapsed          string         `json:"elapsed"`
}

type TextCount struct {
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

// Session accumulates resolution events. It is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	total      int64
	resolved   int64
	prompts    int64
	outcomes   map[string]int
	latencies  []int64
	unresolved map[string]int64
	startTime  time.Time
	logger     *slog.Logger
}

func NewSession() *Session {
	return &Session{
		outcomes:   make(map[string]int),
		unresolved: make(map[string]int64),
		startTime:  time.Now(),
		logger:     slog.Default().With("component", "analytics"),
	}
}

func (s *Session) Record(event ResolutionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.prompts += int64(event.Prompts)
	s.outcomes[event.Outcome]++
	s.latencies = append(s.latencies, event.Latency.Milliseconds())
	if event.Resolved() {
		s.resolved++
	} else {
		s.unresolved[event.Normalized]++
	}
	s.logger.Debug("resolution recorded", "text", event.Text, "outcome", event.Outcome, "code", event.Code)
}

func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SessionStats{
		TotalResolutions: s.total,
		Resolved:         s.resolved,
		Unresolved:       s.total - s.resolved,
		Prompts:          s.prompts,
		Outcomes:         make(map[string]int, len(s.outcomes)),
		Elapsed:          time.Since(s.startTime).Round(time.Millisecond).String(),
	}
	for k, v := range s.outcomes {
		stats.Outcomes[k] = v
	}
	if len(s.latencies) > 0 {
		sorted := make([]int64, len(s.latencies))
		copy(sorted, s.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
	}
	stats.TopUnresolved = topN(s.unresolved, 10)
	return stats
}

// WriteJSON writes the current stats as indented JSON.
func (s *Session) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Stats())
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []TextCount {
	result := make([]TextCount, 0, len(counts))
	for text, count := range counts {
		result = append(result, TextCount{Text: text, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Text < result[j].Text
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
