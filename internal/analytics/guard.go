package analytics

import (
	"context"
	"log/slog"

	"companion/pkg/platform/circuit"
)

// Guarded wraps a remote sink with a circuit breaker. Every call still goes
// to the primary; while the circuit is open, failed calls are replayed to the
// fallback instead of being reported.
type Guarded struct {
	primary  Sink
	fallback Sink
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewGuarded(primary, fallback Sink, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guarded{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (g *Guarded) SetUserProperty(ctx context.Context, key, value string) error {
	return g.call(ctx,
		func() error { return g.primary.SetUserProperty(ctx, key, value) },
		func() error { return g.fallback.SetUserProperty(ctx, key, value) },
	)
}

func (g *Guarded) Log(ctx context.Context, event Event) error {
	return g.call(ctx,
		func() error { return g.primary.Log(ctx, event) },
		func() error { return g.fallback.Log(ctx, event) },
	)
}

func (g *Guarded) call(ctx context.Context, primary, fallback func() error) error {
	err := primary()
	if err == nil {
		if _, change := g.breaker.RecordSuccess(); change.Closed {
			g.logger.InfoContext(ctx, "analytics sink recovered", "sink", g.breaker.Name())
		}
		return nil
	}

	useFallback, change := g.breaker.RecordFailure()
	if change.Opened {
		g.logger.WarnContext(ctx, "analytics sink circuit opened", "sink", g.breaker.Name(), "error", err)
	}
	if useFallback {
		return fallback()
	}
	return err
}
