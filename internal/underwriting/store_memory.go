package underwriting

import (
	"context"
	"sync"

	"covera/internal/document"
	id "covera/pkg/domain"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	decisions map[id.ApplicationID][]*Decision
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{decisions: make(map[id.ApplicationID][]*Decision)}
}

func (s *InMemoryStore) Add(_ context.Context, decision *Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *decision
	copied.RequiredDocuments = append([]document.Category(nil), decision.RequiredDocuments...)
	s.decisions[decision.ApplicationID] = append(s.decisions[decision.ApplicationID], &copied)
	return nil
}

func (s *InMemoryStore) ListByApplication(_ context.Context, applicationID id.ApplicationID) ([]*Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.decisions[applicationID]
	out := make([]*Decision, 0, len(stored))
	for _, d := range stored {
		copied := *d
		copied.RequiredDocuments = append([]document.Category(nil), d.RequiredDocuments...)
		out = append(out, &copied)
	}
	return out, nil
}
