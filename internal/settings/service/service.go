// Package service drives the settings screen: it reports screen and button
// analytics, runs action rows, and walks the rate and log-out prompts.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Session,Diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"companion/internal/analytics"
	"companion/internal/settings/models"
	"companion/internal/settings/viewmodel"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/sentinel"
)

// Session ends the signed-in session.
type Session interface {
	SignOut(ctx context.Context)
}

// Diagnostics supplies the report attached to contact requests.
type Diagnostics interface {
	FormattedHTML() string
}

// ActionKind tells the client what to do after a row was tapped.
type ActionKind string

const (
	ActionNavigate   ActionKind = "navigate"
	ActionContactUs  ActionKind = "contact_us"
	ActionRatePrompt ActionKind = "rate_prompt"
)

type ActionResult struct {
	Kind       ActionKind   `json:"kind"`
	Route      models.Route `json:"route,omitempty"`
	ReportHTML string       `json:"report_html,omitempty"`
}

type Service struct {
	sink        analytics.Sink
	session     Session
	diagnostics Diagnostics
	logger      *slog.Logger

	mu            sync.Mutex
	ratePending   bool
	logOutPending bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(sink analytics.Sink, session Session, diagnostics Diagnostics, opts ...Option) (*Service, error) {
	if sink == nil {
		return nil, fmt.Errorf("analytics sink is required")
	}
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if diagnostics == nil {
		return nil, fmt.Errorf("diagnostics is required")
	}
	s := &Service{
		sink:        sink,
		session:     session,
		diagnostics: diagnostics,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sections lays out the settings screen.
func (s *Service) Sections() []viewmodel.SectionViewModel[models.AppItem] {
	sections := models.AppSections()
	out := make([]viewmodel.SectionViewModel[models.AppItem], 0, len(sections))
	for _, section := range sections {
		out = append(out, viewmodel.NewSectionViewModel(section, nil))
	}
	return out
}

func (s *Service) LogScreenViewed(ctx context.Context) {
	s.log(ctx, analytics.EventSettingsScreenViewed)
}

// ExecuteAction handles a tap on item. Navigation rows only resolve their
// route; action rows report analytics and may open a prompt.
func (s *Service) ExecuteAction(ctx context.Context, item models.AppItem) ActionResult {
	var result ActionResult
	row := viewmodel.NewRowViewModel(item, false, func(item models.AppItem) {
		result = s.runAction(ctx, item)
	})
	if row.ExecuteActionIfNeeded() {
		return result
	}
	route, _ := item.Route()
	return ActionResult{Kind: ActionNavigate, Route: route}
}

func (s *Service) runAction(ctx context.Context, item models.AppItem) ActionResult {
	switch item {
	case models.AppItemContactUs:
		s.log(ctx, analytics.EventContactUsButtonTapped)
		return ActionResult{Kind: ActionContactUs, ReportHTML: s.diagnostics.FormattedHTML()}
	case models.AppItemRateApp:
		s.log(ctx, analytics.EventRateAppScreenViewed)
		s.mu.Lock()
		s.ratePending = true
		s.mu.Unlock()
		return ActionResult{Kind: ActionRatePrompt}
	default:
		s.logger.WarnContext(ctx, "settings action without handler", "item", item)
		return ActionResult{Kind: ActionNavigate}
	}
}

// RespondToRatePrompt closes the rate prompt opened by the rate row.
func (s *Service) RespondToRatePrompt(ctx context.Context, accepted bool) error {
	s.mu.Lock()
	pending := s.ratePending
	s.ratePending = false
	s.mu.Unlock()
	if !pending {
		return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "no rate prompt is open")
	}

	if accepted {
		s.log(ctx, analytics.EventRateNowButtonTapped)
	} else {
		s.log(ctx, analytics.EventCancelRatingButtonTapped)
	}
	return nil
}

// BeginLogOut opens the log-out confirmation.
func (s *Service) BeginLogOut(ctx context.Context) {
	s.log(ctx, analytics.EventLogOutButtonTapped)
	s.log(ctx, analytics.EventLogOutDetailScreenViewed)
	s.mu.Lock()
	s.logOutPending = true
	s.mu.Unlock()
}

// ConfirmLogOut closes the log-out confirmation and signs out when confirmed.
// Removing user-specific diagnostics follows from the session's sign-out.
func (s *Service) ConfirmLogOut(ctx context.Context, confirmed bool) error {
	s.mu.Lock()
	pending := s.logOutPending
	s.logOutPending = false
	s.mu.Unlock()
	if !pending {
		return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "log-out was not started")
	}

	if !confirmed {
		s.log(ctx, analytics.EventLogOutCancelButtonTapped)
		return nil
	}
	s.log(ctx, analytics.EventLogOutConfirmationButtonTapped)
	s.session.SignOut(ctx)
	return nil
}

func (s *Service) log(ctx context.Context, name analytics.EventName) {
	if err := s.sink.Log(ctx, analytics.NewEvent(ctx, name)); err != nil {
		s.logger.WarnContext(ctx, "failed to log analytics event", "event", name, "error", err)
	}
}
