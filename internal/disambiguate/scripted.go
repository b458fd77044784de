package disambiguate

import (
	"context"
	"io"
	"sync"
)

// Scripted answers prompts from a fixed list, or from Answer when set, and
// records every view it was shown. It returns io.EOF once the list runs out.
type Scripted struct {
	mu      sync.Mutex
	answers []string
	Answer  func(View) (string, error)
	views   []View
}

func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Prompt(_ context.Context, view View) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, view)
	if s.Answer != nil {
		return s.Answer(view)
	}
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

// Views returns the views shown so far.
func (s *Scripted) Views() []View {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]View, len(s.views))
	copy(out, s.views)
	return out
}
