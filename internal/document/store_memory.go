package document

import (
	"context"
	"sync"

	id "covera/pkg/domain"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[id.ApplicationID][]*Document
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[id.ApplicationID][]*Document)}
}

func (s *InMemoryStore) Add(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *doc
	s.docs[doc.ApplicationID] = append(s.docs[doc.ApplicationID], &copied)
	return nil
}

func (s *InMemoryStore) ListByApplication(_ context.Context, applicationID id.ApplicationID) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.docs[applicationID]
	out := make([]*Document, 0, len(stored))
	for _, d := range stored {
		copied := *d
		out = append(out, &copied)
	}
	return out, nil
}
