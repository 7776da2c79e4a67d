// Package service implements the account profile of the signed-in user:
// sign-in and sign-out, personal info edits with history, and linked
// authentication sources.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"companion/internal/profile/models"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/sentinel"
	"companion/pkg/requestcontext"
)

// Store persists profiles and their history.
type Store interface {
	Create(ctx context.Context, p *models.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	AppendHistory(ctx context.Context, entries ...models.HistoryEntry) error
	ListHistory(ctx context.Context, id uuid.UUID) ([]models.HistoryEntry, error)
}

// Hooks let other modules react to account changes. Every field is optional.
type Hooks struct {
	OnSignIn         func(ctx context.Context, p *models.Profile)
	OnSignOut        func(ctx context.Context)
	OnSocialsChanged func(ctx context.Context, p *models.Profile)
}

// Service tracks the single signed-in profile of this installation.
type Service struct {
	store  Store
	logger *slog.Logger
	hooks  Hooks

	mu      sync.RWMutex
	current uuid.UUID
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(s *Service) {
		s.hooks = h
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetHooks replaces the hooks. It exists for wiring cycles where the hook
// targets are built after the service.
func (s *Service) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

func (s *Service) currentHooks() Hooks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hooks
}

// CurrentProfileID returns the signed-in profile, if any.
func (s *Service) CurrentProfileID() (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != uuid.Nil
}

// SignIn signs in the profile with the given email, creating it on first
// sign-in, and links the provider used.
func (s *Service) SignIn(ctx context.Context, req models.SignInRequest) (*models.Profile, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	p, err := s.store.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		p = &models.Profile{
			ID:          uuid.New(),
			Email:       req.Email,
			AuthSources: []string{req.AuthSource},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.store.Create(ctx, p); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return nil, dErrors.Wrap(err, dErrors.CodeConflict, "profile already exists")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
		}
		s.logger.InfoContext(ctx, "profile created", "profile_id", p.ID)
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	case !p.HasAuthSource(req.AuthSource):
		p.AuthSources = append(p.AuthSources, req.AuthSource)
		p.UpdatedAt = now
		if err := s.store.Update(ctx, p); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link authentication source")
		}
	}

	s.mu.Lock()
	s.current = p.ID
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "signed in",
		"profile_id", p.ID,
		"auth_source", req.AuthSource,
	)
	if hook := s.currentHooks().OnSignIn; hook != nil {
		hook(ctx, p)
	}
	return p, nil
}

// SignOut ends the session. Signing out while signed out still runs the
// sign-out hook so dependent state is always cleared.
func (s *Service) SignOut(ctx context.Context) {
	s.mu.Lock()
	previous := s.current
	s.current = uuid.Nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "signed out", "profile_id", previous)
	if hook := s.currentHooks().OnSignOut; hook != nil {
		hook(ctx)
	}
}

// GetProfile retrieves the signed-in user's profile.
func (s *Service) GetProfile(ctx context.Context) (*models.Profile, error) {
	id, ok := s.CurrentProfileID()
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in")
	}
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return p, nil
}

// UpdateProfile replaces the personal info and records one history entry
// per changed field.
func (s *Service) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var changes []models.HistoryEntry
	record := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, models.HistoryEntry{
				ProfileID: p.ID,
				Field:     field,
				OldValue:  oldValue,
				NewValue:  newValue,
				ChangedAt: now,
			})
		}
	}
	record("first_name", p.FirstName, req.FirstName)
	record("last_name", p.LastName, req.LastName)
	record("email", p.Email, req.Email)
	if len(changes) == 0 {
		return p, nil
	}

	p.FirstName, p.LastName, p.Email = req.FirstName, req.LastName, req.Email
	p.UpdatedAt = now
	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "email is already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	if err := s.store.AppendHistory(ctx, changes...); err != nil {
		// The profile is already saved; a missing history row is not worth failing the edit.
		s.logger.ErrorContext(ctx, "failed to record profile history",
			"profile_id", p.ID,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "profile updated",
		"profile_id", p.ID,
		"fields_changed", len(changes),
	)
	return p, nil
}

// GetProfileHistory returns the signed-in user's change log, oldest first.
func (s *Service) GetProfileHistory(ctx context.Context) (*models.History, error) {
	id, ok := s.CurrentProfileID()
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in")
	}
	entries, err := s.store.ListHistory(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile history")
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return &models.History{ProfileID: id, Entries: entries}, nil
}

// LinkAuthSource connects a social provider. Linking an already linked
// provider changes nothing.
func (s *Service) LinkAuthSource(ctx context.Context, source string) (*models.Profile, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "source is required")
	}
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p.HasAuthSource(source) {
		return p, nil
	}

	p.AuthSources = append(p.AuthSources, source)
	return s.saveSources(ctx, p, "linked", source)
}

// UnlinkAuthSource disconnects a social provider. The last remaining source
// cannot be removed since the user could no longer sign in.
func (s *Service) UnlinkAuthSource(ctx context.Context, source string) (*models.Profile, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAuthSource(source) {
		return nil, dErrors.New(dErrors.CodeNotFound, "authentication source is not linked")
	}
	if len(p.AuthSources) == 1 {
		return nil, dErrors.New(dErrors.CodeConflict, "cannot unlink the last authentication source")
	}

	p.AuthSources = slices.DeleteFunc(p.AuthSources, func(linked string) bool {
		return strings.EqualFold(linked, source)
	})
	return s.saveSources(ctx, p, "unlinked", source)
}

func (s *Service) saveSources(ctx context.Context, p *models.Profile, action, source string) (*models.Profile, error) {
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update authentication sources")
	}
	s.logger.InfoContext(ctx, "authentication source "+action,
		"profile_id", p.ID,
		"auth_source", source,
	)
	if hook := s.currentHooks().OnSocialsChanged; hook != nil {
		hook(ctx, p)
	}
	return p, nil
}
