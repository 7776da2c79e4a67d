// Package redissink stores user properties in a per-install hash and appends
// events to a capped stream.
package redissink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"companion/internal/analytics"
)

const (
	userPropertiesKeyPrefix = "analytics:user_properties:"
	defaultEventsStream     = "analytics:events"
	defaultStreamMaxLen     = 100_000
	defaultPropertiesTTL    = 90 * 24 * time.Hour
)

// Sink writes through a go-redis client.
type Sink struct {
	client        redis.Cmdable
	installID     string
	stream        string
	maxLen        int64
	propertiesTTL time.Duration
}

type Option func(*Sink)

// WithStream overrides the event stream name.
func WithStream(stream string) Option {
	return func(s *Sink) {
		if stream != "" {
			s.stream = stream
		}
	}
}

// WithMaxLen caps the event stream at approximately n entries.
func WithMaxLen(n int64) Option {
	return func(s *Sink) {
		if n > 0 {
			s.maxLen = n
		}
	}
}

// WithPropertiesTTL sets how long an install's property hash survives
// without writes.
func WithPropertiesTTL(ttl time.Duration) Option {
	return func(s *Sink) {
		s.propertiesTTL = ttl
	}
}

func New(client redis.Cmdable, installID string, opts ...Option) (*Sink, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	s := &Sink{
		client:        client,
		installID:     installID,
		stream:        defaultEventsStream,
		maxLen:        defaultStreamMaxLen,
		propertiesTTL: defaultPropertiesTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PropertiesKey is the hash holding one install's user properties.
func PropertiesKey(installID string) string {
	return userPropertiesKeyPrefix + installID
}

func (s *Sink) SetUserProperty(ctx context.Context, key, value string) error {
	hashKey := PropertiesKey(analytics.InstallID(ctx, s.installID))
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, hashKey, key, value)
	if s.propertiesTTL > 0 {
		pipe.Expire(ctx, hashKey, s.propertiesTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set user property %s: %w", key, err)
	}
	return nil
}

func (s *Sink) Log(ctx context.Context, event analytics.Event) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("marshal event properties: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"install_id":  analytics.InstallID(ctx, s.installID),
			"event":       string(event.Name),
			"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
			"properties":  string(props),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("log event %s: %w", event.Name, err)
	}
	return nil
}
