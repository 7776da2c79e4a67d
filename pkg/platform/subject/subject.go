// Package subject provides a replay-latest value stream with synchronous
// multicast delivery.
//
// A Subject holds a current value. Subscribers receive that value as soon as
// they subscribe and then every later value, in update order, on the
// goroutine that performed the update. Send returns only after every
// subscriber has been called. A subject never fails and never completes.
//
// Callbacks must not call Send, Update, or Subscribe on the same subject;
// delivery is serialized and re-entrant updates would block forever.
package subject

import "sync"

// Subject is a current-value stream. The zero value is not usable; use New.
type Subject[T any] struct {
	// deliver serializes updates with their fan-out so every subscriber
	// observes values in the order they were produced.
	deliver sync.Mutex

	mu          sync.RWMutex
	value       T
	subscribers []subscriber[T]
	nextID      uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// New creates a subject holding initial.
func New[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Send replaces the current value and delivers it to every subscriber.
func (s *Subject[T]) Send(v T) {
	s.Update(func(T) T { return v })
}

// Update derives the next value from the current one and delivers it.
// fn runs while updates are serialized, so read-modify-write sequences from
// different goroutines never interleave.
func (s *Subject[T]) Update(fn func(current T) T) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.value = fn(s.value)
	next := s.value
	subs := append([]subscriber[T](nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}

// Subscribe registers fn, calls it immediately with the current value, and
// returns a function that removes the subscription. Calling the returned
// function more than once is harmless.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Subject[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}
