// Package store persists profiles and their change history.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"companion/internal/profile/models"
	"companion/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in process memory. Returned profiles are
// copies; mutating them does not affect the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*models.Profile
	byEmail  map[string]uuid.UUID
	history  map[uuid.UUID][]models.HistoryEntry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		profiles: make(map[uuid.UUID]*models.Profile),
		byEmail:  make(map[string]uuid.UUID),
		history:  make(map[uuid.UUID][]models.HistoryEntry),
	}
}

// Create inserts p. A duplicate ID or email returns sentinel.ErrConflict.
func (s *InMemoryStore) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; ok {
		return sentinel.ErrConflict
	}
	if _, ok := s.byEmail[p.Email]; ok {
		return sentinel.ErrConflict
	}
	s.profiles[p.ID] = clone(p)
	s.byEmail[p.Email] = p.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.profiles[id]), nil
}

// Update replaces the stored profile. Moving to an email owned by another
// profile returns sentinel.ErrConflict.
func (s *InMemoryStore) Update(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.profiles[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner, taken := s.byEmail[p.Email]; taken && owner != p.ID {
		return sentinel.ErrConflict
	}
	delete(s.byEmail, existing.Email)
	s.byEmail[p.Email] = p.ID
	s.profiles[p.ID] = clone(p)
	return nil
}

func (s *InMemoryStore) AppendHistory(_ context.Context, entries ...models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.history[e.ProfileID] = append(s.history[e.ProfileID], e)
	}
	return nil
}

func (s *InMemoryStore) ListHistory(_ context.Context, id uuid.UUID) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.profiles[id]; !ok {
		return nil, sentinel.ErrNotFound
	}
	return slices.Clone(s.history[id]), nil
}

func clone(p *models.Profile) *models.Profile {
	c := *p
	c.AuthSources = slices.Clone(p.AuthSources)
	return &c
}
