package session

import (
	"context"
	"sync"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/events"
)

// SubjectSource feeds an Observer with identity events for a single subject, starting with
// the identity already known when the subscription begins.
type SubjectSource struct {
	dispatcher events.Dispatcher
	current    *domain.Identity
}

// NewSubjectSource follows current.SubjectID on dispatcher.
func NewSubjectSource(dispatcher events.Dispatcher, current *domain.Identity) *SubjectSource {
	return &SubjectSource{dispatcher: dispatcher, current: current}
}

// Subscribe replays the current identity and then forwards matching events in order.
func (s *SubjectSource) Subscribe(fn func(identity *domain.Identity)) func() {
	var mu sync.Mutex
	mu.Lock()
	defer mu.Unlock()

	subjectID := ""
	if s.current != nil {
		subjectID = s.current.SubjectID
	}

	unsubs := make([]func(), 0, len(events.IdentityTypes))
	for _, t := range events.IdentityTypes {
		unsubs = append(unsubs, s.dispatcher.Subscribe(t, func(_ context.Context, e events.Event) error {
			if e.SubjectID != subjectID {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			fn(e.Identity)
			return nil
		}))
	}

	fn(s.current)

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
