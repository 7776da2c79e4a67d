// Package kafkasink publishes analytics as JSON records keyed by install ID.
package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"companion/internal/analytics"
	"companion/pkg/requestcontext"
)

// Producer is the subset of *kgo.Client the sink uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

const (
	kindUserProperty = "user_property"
	kindEvent        = "event"
)

// message is the record value. Kind tells consumers which of the optional
// fields are set.
type message struct {
	Kind       string            `json:"kind"`
	InstallID  string            `json:"install_id"`
	Property   string            `json:"property,omitempty"`
	Value      string            `json:"value,omitempty"`
	Event      string            `json:"event,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	OccurredAt string            `json:"occurred_at"`
}

type Sink struct {
	producer  Producer
	topic     string
	installID string
}

// New builds a sink producing to topic. An empty topic uses the client's
// default produce topic.
func New(producer Producer, topic, installID string) (*Sink, error) {
	if producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	return &Sink{producer: producer, topic: topic, installID: installID}, nil
}

func (s *Sink) SetUserProperty(ctx context.Context, key, value string) error {
	installID := analytics.InstallID(ctx, s.installID)
	return s.produce(ctx, installID, message{
		Kind:       kindUserProperty,
		InstallID:  installID,
		Property:   key,
		Value:      value,
		OccurredAt: requestcontext.Now(ctx).UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s *Sink) Log(ctx context.Context, event analytics.Event) error {
	installID := analytics.InstallID(ctx, s.installID)
	return s.produce(ctx, installID, message{
		Kind:       kindEvent,
		InstallID:  installID,
		Event:      string(event.Name),
		Properties: event.Properties,
		OccurredAt: event.OccurredAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s *Sink) produce(ctx context.Context, key string, m message) error {
	value, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", m.Kind, err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "kind", Value: []byte(m.Kind)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s record: %w", m.Kind, err)
	}
	return nil
}
