// Package service aggregates diagnostics facts from device, connectivity,
// profile, and health-source collaborators into the diagnostics store.
package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"companion/internal/diagnostics/metrics"
	"companion/internal/diagnostics/models"
	"companion/internal/diagnostics/ports"
	dErrors "companion/pkg/domain-errors"
	"companion/pkg/platform/sentinel"
)

const tracerName = "companion/internal/diagnostics/service"

// Store is the diagnostics set the service writes to.
type Store interface {
	Upsert(t models.ItemType, value string)
	ReplaceAll(items []models.Item)
	Regenerate(build func(current models.Set) []models.Item)
	RemoveUserSpecific()
	GetAll() []models.Item
	Snapshot() models.Set
	Len() int
	Subscribe(fn func(models.Set)) (unsubscribe func())
}

// Service is the diagnostics aggregator. It owns no state of its own; the
// store is the single source of truth and is shared with the use case.
type Service struct {
	store         Store
	device        ports.DeviceInfoProvider
	reachability  ports.ReachabilityProvider
	users         ports.UserDataRepository
	healthSources ports.HealthSourcesRepository
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func New(
	store Store,
	device ports.DeviceInfoProvider,
	reachability ports.ReachabilityProvider,
	users ports.UserDataRepository,
	healthSources ports.HealthSourcesRepository,
	opts ...Option,
) (*Service, error) {
	switch {
	case store == nil:
		return nil, fmt.Errorf("diagnostics store is required")
	case device == nil:
		return nil, fmt.Errorf("device info provider is required")
	case reachability == nil:
		return nil, fmt.Errorf("reachability provider is required")
	case users == nil:
		return nil, fmt.Errorf("user data repository is required")
	case healthSources == nil:
		return nil, fmt.Errorf("health sources repository is required")
	}

	svc := &Service{
		store:         store,
		device:        device,
		reachability:  reachability,
		users:         users,
		healthSources: healthSources,
		logger:        slog.New(slog.DiscardHandler),
		tracer:        otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// userFacts are the user-specific values folded into a regenerated set.
// A nil field leaves that category out.
type userFacts struct {
	userID                 *string
	connectedSocials       *string
	connectedHealthSources *string
}

// RefreshDeviceAndUserDiagnostics re-reads every device fact and writes the
// result as a single bulk replace. User-specific values already in the store
// are carried over; nothing is fetched for them.
func (s *Service) RefreshDeviceAndUserDiagnostics(ctx context.Context) {
	s.generate(ctx, factsFrom)
}

// RefreshConnectedSocials fetches the authentication sources description in
// the background and upserts only the connected socials item. The returned
// channel yields the fetch error, if any, and is then closed; callers that do
// not care may drop it. The fetch outlives ctx cancellation.
func (s *Service) RefreshConnectedSocials(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(done)

		socials, err := s.users.AuthenticationSourcesString(ctx)
		if err != nil {
			if s.metrics != nil {
				s.metrics.IncSocialsRefreshFailures()
			}
			s.logger.WarnContext(ctx, "connected socials refresh failed", "error", err)
			done <- err
			return
		}
		s.store.Upsert(models.ItemTypeConnectedSocials, socials)
	}()

	return done
}

// Items returns the diagnostics in display order. An empty store triggers a
// combined fetch of the user profile, authentication sources, and health
// source. If that fetch fails the store is filled with device facts only and
// those are returned; Items never reports collaborator failures.
func (s *Service) Items(ctx context.Context) ([]models.Item, error) {
	if s.store.Len() > 0 {
		return s.store.GetAll(), nil
	}

	items, err := s.loadUserData(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "user diagnostics unavailable, using device facts only", "error", err)
		s.generate(ctx, func(models.Set) userFacts { return userFacts{} })
		return s.store.GetAll(), nil
	}
	return items, nil
}

// FormattedText renders the items as "Title\nValue" blocks separated by a
// blank line. An empty store renders as "".
func (s *Service) FormattedText() string {
	items := s.store.GetAll()
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, item.Title()+"\n"+item.Value)
	}
	return strings.Join(blocks, "\n\n")
}

// FormattedHTML renders the items as div blocks for support e-mail bodies.
func (s *Service) FormattedHTML() string {
	var b strings.Builder
	for _, item := range s.store.GetAll() {
		fmt.Fprintf(&b, "<div>%s</br>%s</div></br>", html.EscapeString(item.Title()), html.EscapeString(item.Value))
	}
	return b.String()
}

// UpdateItem inserts or updates the item of type t.
func (s *Service) UpdateItem(t models.ItemType, value string) error {
	if !t.IsValid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown diagnostics item type %q", t))
	}
	s.store.Upsert(t, value)
	return nil
}

// RemoveUserSpecificProperties drops the user-specific items, typically on
// sign-out.
func (s *Service) RemoveUserSpecificProperties() {
	s.store.RemoveUserSpecific()
}

// Subscribe exposes the store's change stream.
func (s *Service) Subscribe(fn func(models.Set)) (unsubscribe func()) {
	return s.store.Subscribe(fn)
}

func (s *Service) loadUserData(ctx context.Context) (items []models.Item, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "diagnostics.load_user_data")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "user diagnostics unavailable")
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveCombinedFetch(start, err != nil)
		}
	}()

	var (
		user    *ports.User
		socials string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetUser(gctx)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		v, err := s.users.AuthenticationSourcesString(gctx)
		if err != nil {
			return fmt.Errorf("get authentication sources: %w", err)
		}
		socials = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("get user: %w", sentinel.ErrNotFound)
	}

	var healthSource string
	if hs, ok := s.healthSources.HealthSource(); ok && hs != nil {
		healthSource = hs.DiagnosticsName
	}
	span.SetAttributes(attribute.Bool("diagnostics.health_source_connected", healthSource != ""))

	fetched := userFacts{
		userID:                 &user.ID,
		connectedSocials:       &socials,
		connectedHealthSources: &healthSource,
	}
	s.generate(ctx, func(models.Set) userFacts { return fetched })
	return s.store.GetAll(), nil
}

// generate reads the device facts first, then rebuilds the set inside one
// serialized store update. facts picks the user-specific values from the set
// as it stands at that moment.
func (s *Service) generate(ctx context.Context, facts func(current models.Set) userFacts) {
	platform := s.device.OperatingSystemDescription()
	model := s.device.ModelName()
	appVersion := s.device.AppVersion()
	timezone := s.device.TimeZoneIdentifier()
	locale := s.device.LocaleIdentifier()
	connectivity := s.reachability.ConnectionDescription()

	var count int
	var withUser bool
	s.store.Regenerate(func(current models.Set) []models.Item {
		user := facts(current)
		items := []models.Item{
			{Type: models.ItemTypePlatform, Value: platform},
			{Type: models.ItemTypeModel, Value: model},
			{Type: models.ItemTypeAppVersion, Value: appVersion},
			{Type: models.ItemTypeTimezone, Value: timezone},
			{Type: models.ItemTypeLocale, Value: locale},
			{Type: models.ItemTypeConnectivity, Value: connectivity},
		}
		if user.userID != nil {
			items = append(items, models.Item{Type: models.ItemTypeUserID, Value: *user.userID})
		}
		if user.connectedSocials != nil {
			items = append(items, models.Item{Type: models.ItemTypeConnectedSocials, Value: *user.connectedSocials})
		}
		if user.connectedHealthSources != nil {
			items = append(items, models.Item{Type: models.ItemTypeConnectedHealthSources, Value: *user.connectedHealthSources})
		}
		count, withUser = len(items), user.userID != nil
		return items
	})
	s.logger.DebugContext(ctx, "diagnostics regenerated",
		"items", count,
		"with_user", withUser,
	)
}

func factsFrom(set models.Set) userFacts {
	var facts userFacts
	if item, ok := set.Get(models.ItemTypeUserID); ok {
		facts.userID = &item.Value
	}
	if item, ok := set.Get(models.ItemTypeConnectedSocials); ok {
		facts.connectedSocials = &item.Value
	}
	if item, ok := set.Get(models.ItemTypeConnectedHealthSources); ok {
		facts.connectedHealthSources = &item.Value
	}
	return facts
}
