// Package logsink writes analytics to the structured log.
package logsink

import (
	"context"
	"log/slog"

	"companion/internal/analytics"
)

type Sink struct {
	logger    *slog.Logger
	installID string
}

func New(logger *slog.Logger, installID string) *Sink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{logger: logger, installID: installID}
}

func (s *Sink) SetUserProperty(ctx context.Context, key, value string) error {
	s.logger.InfoContext(ctx, "analytics user property",
		"install_id", analytics.InstallID(ctx, s.installID),
		"property", key,
		"value", value,
	)
	return nil
}

func (s *Sink) Log(ctx context.Context, event analytics.Event) error {
	attrs := []any{
		"install_id", analytics.InstallID(ctx, s.installID),
		"event", string(event.Name),
		"occurred_at", event.OccurredAt,
	}
	for k, v := range event.Properties {
		attrs = append(attrs, slog.String("prop."+k, v))
	}
	s.logger.InfoContext(ctx, "analytics event", attrs...)
	return nil
}
