package analytics

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestSessionStats(t *testing.T) {
	s := NewSession()
	s.Record(ResolutionEvent{Text: "Marshall Islands", Normalized: "marshall islands", Outcome: "exact", Code: "MH", Latency: time.Millisecond})
	s.Record(ResolutionEvent{Text: "Korea (south)", Normalized: "korea south", Outcome: "batch_miss", Latency: 3 * time.Millisecond})
	s.Record(ResolutionEvent{Text: "korea south", Normalized: "korea south", Outcome: "batch_miss", Latency: 2 * time.Millisecond})
	s.Record(ResolutionEvent{Text: "Alba", Normalized: "alba", Outcome: "confirmed", Code: "GB", Prompts: 2, Latency: 10 * time.Millisecond})

	stats := s.Stats()
	if stats.TotalResolutions != 4 || stats.Resolved != 2 || stats.Unresolved != 2 {
		t.Fatalf("counts = %+v", stats)
	}
	if stats.Prompts != 2 {
		t.Errorf("Prompts = %d, want 2", stats.Prompts)
	}
	if stats.Outcomes["batch_miss"] != 2 || stats.Outcomes["exact"] != 1 {
		t.Errorf("Outcomes = %v", stats.Outcomes)
	}
	if stats.AvgLatencyMs != 4 {
		t.Errorf("AvgLatencyMs = %v, want 4", stats.AvgLatencyMs)
	}
	if stats.P50LatencyMs != 3 || stats.P95LatencyMs != 10 {
		t.Errorf("percentiles = %d/%d", stats.P50LatencyMs, stats.P95LatencyMs)
	}
	if len(stats.TopUnresolved) != 1 || stats.TopUnresolved[0] != (TextCount{Text: "korea south", Count: 2}) {
		t.Errorf("TopUnresolved = %+v", stats.TopUnresolved)
	}
}

func TestEmptySession(t *testing.T) {
	stats := NewSession().Stats()
	if stats.TotalResolutions != 0 || stats.AvgLatencyMs != 0 || len(stats.TopUnresolved) != 0 {
		t.Errorf("empty session stats = %+v", stats)
	}
}

func TestWriteJSON(t *testing.T) {
	s := NewSession()
	s.Record(ResolutionEvent{Text: "France", Normalized: "france", Outcome: "exact", Code: "FR"})
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded SessionStats
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Resolved != 1 {
		t.Errorf("Resolved = %d", decoded.Resolved)
	}
}
