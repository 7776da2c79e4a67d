// Package service keeps the user's selected health source.
package service

import (
	"context"
	"log/slog"
	"sync"

	"companion/internal/healthsource/models"
)

// ChangeHook observes selection changes. ok is false after Clear.
type ChangeHook func(ctx context.Context, hs models.HealthSource, ok bool)

// Service holds at most one selected health source.
type Service struct {
	mu       sync.RWMutex
	selected *models.HealthSource
	hooks    []ChangeHook
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithChangeHook registers fn to run after every Select and Clear.
func WithChangeHook(fn ChangeHook) Option {
	return func(s *Service) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

func New(opts ...Option) *Service {
	s := &Service{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select connects the catalog source with the given id, replacing any
// previous selection.
func (s *Service) Select(ctx context.Context, id string) (models.HealthSource, error) {
	hs, err := models.Lookup(id)
	if err != nil {
		return models.HealthSource{}, err
	}

	s.mu.Lock()
	s.selected = &hs
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "health source selected", "health_source", hs.ID)
	s.notify(ctx, hs, true)
	return hs, nil
}

// Clear disconnects the current source. Clearing with nothing selected is a
// no-op and does not run hooks.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	had := s.selected != nil
	s.selected = nil
	s.mu.Unlock()

	if !had {
		return
	}
	s.logger.InfoContext(ctx, "health source cleared")
	s.notify(ctx, models.HealthSource{}, false)
}

// Current returns the selected source.
func (s *Service) Current() (models.HealthSource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.HealthSource{}, false
	}
	return *s.selected, true
}

func (s *Service) notify(ctx context.Context, hs models.HealthSource, ok bool) {
	for _, hook := range s.hooks {
		hook(ctx, hs, ok)
	}
}
