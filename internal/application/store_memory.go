package application

import (
	"context"
	"sync"

	id "covera/pkg/domain"
	"covera/pkg/platform/sentinel"
)

// InMemoryStore keeps aggregates in a map guarded by a mutex. The same
// version check as the Postgres store applies, so service tests exercise
// conflict detection without a database.
type InMemoryStore struct {
	mu           sync.RWMutex
	applications map[id.ApplicationID]*Application
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{applications: make(map[id.ApplicationID]*Application)}
}

func (s *InMemoryStore) Create(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.applications[app.ID]; exists {
		return sentinel.ErrConflict
	}
	s.applications[app.ID] = deepCopy(app)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, applicationID id.ApplicationID) (*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[applicationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return deepCopy(app), nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Application
	for _, app := range s.applications {
		if app.UserID == userID {
			out = append(out, deepCopy(app))
		}
	}
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, app *Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.applications[app.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if stored.Version != app.Version {
		return sentinel.ErrConflict
	}
	app.Version++
	s.applications[app.ID] = deepCopy(app)
	return nil
}

// deepCopy clones the aggregate including owned children so callers can
// never mutate stored state through a returned pointer.
func deepCopy(app *Application) *Application {
	copied := *app
	if app.PersonalInfo != nil {
		info := *app.PersonalInfo
		copied.PersonalInfo = &info
	}
	if app.HealthDeclaration != nil {
		decl := *app.HealthDeclaration
		decl.Conditions = append([]HealthDetail(nil), app.HealthDeclaration.Conditions...)
		decl.Medications = append([]HealthDetail(nil), app.HealthDeclaration.Medications...)
		decl.Surgeries = append([]HealthDetail(nil), app.HealthDeclaration.Surgeries...)
		decl.FamilyHistory = append([]HealthDetail(nil), app.HealthDeclaration.FamilyHistory...)
		copied.HealthDeclaration = &decl
	}
	copied.Beneficiaries = append([]Beneficiary(nil), app.Beneficiaries...)
	if app.SubmittedAt != nil {
		t := *app.SubmittedAt
		copied.SubmittedAt = &t
	}
	if app.ReviewedAt != nil {
		t := *app.ReviewedAt
		copied.ReviewedAt = &t
	}
	return &copied
}
