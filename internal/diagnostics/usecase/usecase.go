// Package usecase bridges diagnostics changes to analytics and exposes the
// diagnostics operations to the rest of the app.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"companion/internal/diagnostics/metrics"
	"companion/internal/diagnostics/models"
	"companion/internal/diagnostics/ports"
)

// Repository is the diagnostics aggregator as seen by the use case.
type Repository interface {
	Subscribe(fn func(models.Set)) (unsubscribe func())
	Items(ctx context.Context) ([]models.Item, error)
	FormattedText() string
	FormattedHTML() string
	UpdateItem(t models.ItemType, value string) error
	RefreshDeviceAndUserDiagnostics(ctx context.Context)
	RefreshConnectedSocials(ctx context.Context) <-chan error
	RemoveUserSpecificProperties()
}

// UseCase forwards every published diagnostics set to analytics as user
// properties. It subscribes on construction and stays subscribed until Close;
// in the server that is the lifetime of the process.
type UseCase struct {
	repository  Repository
	analytics   ports.AnalyticsPort
	logger      *slog.Logger
	metrics     *metrics.Metrics
	baseCtx     context.Context
	unsubscribe func()
}

type Option func(*UseCase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *UseCase) {
		if logger != nil {
			u.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(u *UseCase) {
		u.metrics = m
	}
}

// WithContext sets the context analytics calls run under. It defaults to
// context.Background().
func WithContext(ctx context.Context) Option {
	return func(u *UseCase) {
		if ctx != nil {
			u.baseCtx = ctx
		}
	}
}

// New builds the use case and subscribes it to the repository's change
// stream. The current set is forwarded before New returns.
func New(repository Repository, analytics ports.AnalyticsPort, opts ...Option) (*UseCase, error) {
	if repository == nil {
		return nil, fmt.Errorf("diagnostics repository is required")
	}
	if analytics == nil {
		return nil, fmt.Errorf("analytics port is required")
	}

	u := &UseCase{
		repository: repository,
		analytics:  analytics,
		logger:     slog.New(slog.DiscardHandler),
		baseCtx:    context.Background(),
	}
	for _, opt := range opts {
		opt(u)
	}

	u.unsubscribe = repository.Subscribe(u.forward)
	return u, nil
}

// Close stops forwarding. It is only needed when the use case is shorter
// lived than its repository.
func (u *UseCase) Close() {
	if u.unsubscribe != nil {
		u.unsubscribe()
	}
}

// forward sets one user property per item in the set, not only the changed
// ones. Analytics treats repeated identical values as no-ops.
func (u *UseCase) forward(set models.Set) {
	if u.metrics != nil {
		u.metrics.IncStoreUpdates()
	}
	for _, item := range set.Ordered() {
		key := string(item.Type.UserProperty())
		if err := u.analytics.SetUserProperty(u.baseCtx, key, item.Value); err != nil {
			if u.metrics != nil {
				u.metrics.IncUserPropertyForwardFails()
			}
			u.logger.WarnContext(u.baseCtx, "failed to forward diagnostics user property",
				"property", key,
				"error", err,
			)
			continue
		}
		if u.metrics != nil {
			u.metrics.IncUserPropertiesForwarded()
		}
	}
}

// Items retrieves the device and user diagnostics in display order.
func (u *UseCase) Items(ctx context.Context) ([]models.Item, error) {
	return u.repository.Items(ctx)
}

func (u *UseCase) FormattedText() string {
	return u.repository.FormattedText()
}

func (u *UseCase) FormattedHTML() string {
	return u.repository.FormattedHTML()
}

// UpdateItem inserts or updates a single diagnostics item.
func (u *UseCase) UpdateItem(t models.ItemType, value string) error {
	return u.repository.UpdateItem(t, value)
}

// RefreshDeviceAndUserDiagnostics regenerates every diagnostics item.
func (u *UseCase) RefreshDeviceAndUserDiagnostics(ctx context.Context) {
	u.repository.RefreshDeviceAndUserDiagnostics(ctx)
}

// RefreshConnectedSocials updates the connected socials item in the
// background.
func (u *UseCase) RefreshConnectedSocials(ctx context.Context) <-chan error {
	return u.repository.RefreshConnectedSocials(ctx)
}

// RemoveUserSpecificProperties drops user-specific diagnostics.
func (u *UseCase) RemoveUserSpecificProperties() {
	u.repository.RemoveUserSpecificProperties()
}
