package plan

import (
	"context"
	"sync"

	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// InMemoryStore serves the catalogue from maps. Development and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[id.ProductID]*Product
	plans    map[id.PlanID]*Plan
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[id.ProductID]*Product),
		plans:    make(map[id.PlanID]*Plan),
	}
}

// Put inserts or replaces catalogue entries. Used by seeding and tests; the
// request path never writes.
func (s *InMemoryStore) Put(product *Product, plans ...*Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
	for _, p := range plans {
		s.plans[p.ID] = p
	}
}

func (s *InMemoryStore) GetPlan(_ context.Context, planID id.PlanID) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[planID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *InMemoryStore) ListProducts(_ context.Context) ([]*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemoryStore) ListPlansByProduct(_ context.Context, productID id.ProductID) ([]*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Plan
	for _, p := range s.plans {
		if p.ProductID == productID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}
