// Package memsink is an in-memory action sink.
package memsink

import (
	"context"
	"sync"

	"github.com/oicr-gsi/shesmu/action"
)

type Sink struct {
	mu      sync.Mutex
	seen    map[action.Fingerprint]struct{}
	actions []*action.Action
}

var _ action.Sink = (*Sink)(nil)

func New() *Sink {
	return &Sink{seen: make(map[action.Fingerprint]struct{})}
}

func (s *Sink) Emit(_ context.Context, a *action.Action) (bool, error) {
	fp := a.Fingerprint()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[fp]; ok {
		return false, nil
	}
	s.seen[fp] = struct{}{}
	s.actions = append(s.actions, a)
	return true, nil
}

// Actions returns the distinct actions in the order they were first
// emitted.
func (s *Sink) Actions() []*action.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*action.Action(nil), s.actions...)
}
