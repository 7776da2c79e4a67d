// Package store holds the process-wide diagnostics set and its change stream.
package store

import (
	"companion/internal/diagnostics/models"
	"companion/pkg/platform/subject"
)

// InMemoryStore keeps the current diagnostics set behind a replay-latest
// stream. Every mutation publishes the full updated set; subscribers run
// synchronously before the mutating call returns.
//
// Subscribers may read from the store but must not mutate it.
type InMemoryStore struct {
	items *subject.Subject[models.Set]
}

// New creates an empty store.
func New() *InMemoryStore {
	return &InMemoryStore{items: subject.New(models.NewSet())}
}

// Upsert replaces the value of the item of type t, or inserts it.
func (s *InMemoryStore) Upsert(t models.ItemType, value string) {
	s.items.Update(func(current models.Set) models.Set {
		return current.With(t, value)
	})
}

// ReplaceAll swaps the whole set in one publication so readers never see a
// mix of old and new facts.
func (s *InMemoryStore) ReplaceAll(items []models.Item) {
	s.items.Send(models.NewSet(items...))
}

// Regenerate replaces the set with the items build derives from the current
// one. build runs while mutations are serialized, so an Upsert or
// RemoveUserSpecific from another goroutine lands either before it (and is
// seen in current) or after it (and survives). build must not call back into
// the store.
func (s *InMemoryStore) Regenerate(build func(current models.Set) []models.Item) {
	s.items.Update(func(current models.Set) models.Set {
		return models.NewSet(build(current)...)
	})
}

// RemoveUserSpecific drops every user-specific item and keeps the rest.
func (s *InMemoryStore) RemoveUserSpecific() {
	s.items.Update(func(current models.Set) models.Set {
		return current.Without(models.ItemType.IsUserSpecific)
	})
}

// GetAll returns the items in display order.
func (s *InMemoryStore) GetAll() []models.Item {
	return s.items.Value().Ordered()
}

// Snapshot returns the current set.
func (s *InMemoryStore) Snapshot() models.Set {
	return s.items.Value()
}

func (s *InMemoryStore) Len() int {
	return s.items.Value().Len()
}

// Subscribe delivers the current set immediately and every later set.
func (s *InMemoryStore) Subscribe(fn func(models.Set)) (unsubscribe func()) {
	return s.items.Subscribe(fn)
}
