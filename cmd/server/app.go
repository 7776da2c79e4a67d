package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companion/internal/analytics"
	"companion/internal/analytics/kafkasink"
	"companion/internal/analytics/logsink"
	"companion/internal/analytics/redissink"
	"companion/internal/diagnostics/adapters"
	diaghandler "companion/internal/diagnostics/handler"
	diagmetrics "companion/internal/diagnostics/metrics"
	diagmodels "companion/internal/diagnostics/models"
	diagservice "companion/internal/diagnostics/service"
	diagstore "companion/internal/diagnostics/store"
	"companion/internal/diagnostics/usecase"
	healthhandler "companion/internal/healthsource/handler"
	healthmodels "companion/internal/healthsource/models"
	healthservice "companion/internal/healthsource/service"
	"companion/internal/platform/config"
	"companion/internal/platform/kafka"
	"companion/internal/platform/metrics"
	"companion/internal/platform/middleware"
	"companion/internal/platform/redis"
	profilehandler "companion/internal/profile/handler"
	profilemodels "companion/internal/profile/models"
	profileservice "companion/internal/profile/service"
	profilestore "companion/internal/profile/store"
	ratelimit "companion/internal/ratelimit/middleware"
	ratelimitstore "companion/internal/ratelimit/store"
	settingshandler "companion/internal/settings/handler"
	settingsservice "companion/internal/settings/service"
	"companion/pkg/platform/circuit"
	"companion/pkg/platform/httputil"
	"companion/pkg/platform/middleware/metadata"
	"companion/pkg/platform/middleware/requesttime"
)

// app is the wired process: every module, its HTTP surface, and the
// resources that need closing on shutdown.
type app struct {
	router       http.Handler
	diagnostics  *usecase.UseCase
	reachability *adapters.ReachabilityMonitor
	profiles     *profileservice.Service
	workers      []*analytics.Async
	closers      []func()
}

// Start launches the background work: connectivity probing and remote
// analytics delivery. Both stop when ctx is done.
func (a *app) Start(ctx context.Context) {
	a.reachability.Start(ctx)
	for _, w := range a.workers {
		w.Start(ctx)
	}
}

// Wait blocks until everything launched by Start has stopped.
func (a *app) Wait() {
	a.reachability.Wait()
	for _, w := range a.workers {
		w.Wait()
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type healthChecker func(ctx context.Context) error

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	installID := cfg.App.InstallID
	if installID == "" {
		installID = uuid.NewString()
		logger.InfoContext(ctx, "generated install id", "install_id", installID)
	}

	httpMetrics := metrics.NewWithRegistry(reg)
	diagMetrics := diagmetrics.NewWithRegistry(reg)

	sink, checks, err := a.buildSinks(ctx, cfg, logger, installID)
	if err != nil {
		return nil, err
	}

	profileStore, err := a.buildProfileStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	profiles, err := profileservice.New(profileStore, profileservice.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	a.profiles = profiles

	// The health source hook needs the diagnostics use case, which reads the
	// health source service; diagnostics is assigned once built.
	var diagnostics *usecase.UseCase
	healthSources := healthservice.New(
		healthservice.WithLogger(logger),
		healthservice.WithChangeHook(func(ctx context.Context, hs healthmodels.HealthSource, ok bool) {
			value := ""
			if ok {
				value = hs.DiagnosticsName
			}
			if err := diagnostics.UpdateItem(diagmodels.ItemTypeConnectedHealthSources, value); err != nil {
				logger.WarnContext(ctx, "failed to update health source diagnostics", "error", err)
			}
		}),
	)

	a.reachability = adapters.NewReachabilityMonitor(
		cfg.Reachability.ProbeAddr,
		cfg.Reachability.Interval,
		cfg.Reachability.Timeout,
		adapters.WithReachabilityLogger(logger),
	)
	diagService, err := diagservice.New(
		diagstore.New(),
		adapters.NewDeviceInfo(ctx, cfg.App.Version),
		a.reachability,
		adapters.NewUserData(profiles),
		adapters.NewHealthSources(healthSources),
		diagservice.WithLogger(logger),
		diagservice.WithMetrics(diagMetrics),
	)
	if err != nil {
		return nil, err
	}
	diagnostics, err = usecase.New(diagService, sink,
		usecase.WithLogger(logger),
		usecase.WithMetrics(diagMetrics),
		usecase.WithContext(context.WithoutCancel(ctx)),
	)
	if err != nil {
		return nil, err
	}
	a.diagnostics = diagnostics
	a.closers = append(a.closers, diagnostics.Close)

	profiles.SetHooks(profileservice.Hooks{
		OnSignIn: func(ctx context.Context, p *profilemodels.Profile) {
			if err := diagnostics.UpdateItem(diagmodels.ItemTypeUserID, p.ID.String()); err != nil {
				logger.WarnContext(ctx, "failed to update user diagnostics", "error", err)
			}
			diagnostics.RefreshConnectedSocials(ctx)
		},
		OnSignOut: func(context.Context) {
			diagnostics.RemoveUserSpecificProperties()
		},
		OnSocialsChanged: func(ctx context.Context, _ *profilemodels.Profile) {
			diagnostics.RefreshConnectedSocials(ctx)
		},
	})

	settings, err := settingsservice.New(sink, profiles, diagnostics, settingsservice.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(logger, httpMetrics))
	r.Use(middleware.Logger(logger, httpMetrics))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", healthHandler(checks))

	limiter := ratelimit.New(ratelimitstore.NewInMemory(), cfg.RateLimit.RefreshLimit, cfg.RateLimit.RefreshWindow,
		ratelimit.WithLogger(logger),
	)
	diaghandler.New(diagnostics, logger, diaghandler.WithRefreshLimiter(limiter.Limit("diagnostics_refresh"))).Register(r)
	profilehandler.New(profiles, logger).Register(r)
	healthhandler.New(healthSources, logger).Register(r)
	settingshandler.New(settings, logger).Register(r)

	a.router = r
	return a, nil
}

// buildSinks assembles the configured analytics sinks. Remote sinks deliver
// from a background worker and fall back to the log sink while their circuit
// is open.
func (a *app) buildSinks(ctx context.Context, cfg *config.Config, logger *slog.Logger, installID string) (analytics.Sink, map[string]healthChecker, error) {
	logSink := logsink.New(logger, installID)
	checks := map[string]healthChecker{}

	var sinks []analytics.Sink
	for _, name := range cfg.Analytics.Sinks {
		switch name {
		case "log":
			sinks = append(sinks, logSink)
		case "redis":
			client, err := redis.New(ctx, cfg.Redis)
			if err != nil {
				return nil, nil, fmt.Errorf("connect redis: %w", err)
			}
			a.closers = append(a.closers, func() { _ = client.Close() })
			checks["redis"] = client.Health

			s, err := redissink.New(client.Client, installID)
			if err != nil {
				return nil, nil, err
			}
			sinks = append(sinks, a.async(analytics.NewGuarded(s, logSink, circuit.New("redis"), logger), logger))
		case "kafka":
			client, err := kafka.New(ctx, cfg.Kafka)
			if err != nil {
				return nil, nil, fmt.Errorf("connect kafka: %w", err)
			}
			a.closers = append(a.closers, client.Close)
			checks["kafka"] = func(ctx context.Context) error { return client.Ping(ctx) }

			if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.Topic); err != nil {
				return nil, nil, err
			}
			s, err := kafkasink.New(client, cfg.Kafka.Topic, installID)
			if err != nil {
				return nil, nil, err
			}
			sinks = append(sinks, a.async(analytics.NewGuarded(s, logSink, circuit.New("kafka"), logger), logger))
		default:
			return nil, nil, fmt.Errorf("unknown analytics sink %q", name)
		}
	}
	return analytics.NewFanout(sinks...), checks, nil
}

func (a *app) async(sink analytics.Sink, logger *slog.Logger) analytics.Sink {
	w := analytics.NewAsync(sink, 0, logger)
	a.workers = append(a.workers, w)
	return w
}

func (a *app) buildProfileStore(ctx context.Context, cfg *config.Config) (profileservice.Store, error) {
	if cfg.Postgres.DSN == "" {
		return profilestore.NewInMemory(), nil
	}
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := profilestore.NewPostgres(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		var errs []error
		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = map[string]string{}
			}
			if err := check(r.Context()); err != nil {
				errs = append(errs, err)
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}
		if err := errors.Join(errs...); err != nil {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}
