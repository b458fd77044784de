// Package analytics summarizes one run's resolutions: how many terms hit
// exactly, how many needed the user, and which ones ended without a code.
package analytics

import "time"

// ResolutionEvent describes one resolved term. Outcome takes the values of
// the metrics outcome label.
type ResolutionEvent struct {
	Text       string        `json:"text"`
	Normalized string        `json:"normalized"`
	Outcome    string        `json:"outcome"`
	Code       string        `json:"code,omitempty"`
	Prompts    int           `json:"prompts"`
	Latency    time.Duration `json:"latency"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Resolved reports whether the event produced a code.
func (e ResolutionEvent) Resolved() bool {
	return e.Code != ""
}
