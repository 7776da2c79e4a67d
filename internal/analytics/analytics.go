// Package analytics defines the product analytics sink and the events the
// app reports. Sinks are write-only: nothing reads analytics back.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"companion/pkg/requestcontext"
)

// EventName identifies a tracked user action or screen view.
type EventName string

const (
	EventSettingsScreenViewed           EventName = "settings_screen_viewed"
	EventLogOutButtonTapped             EventName = "log_out_button_tapped"
	EventLogOutDetailScreenViewed       EventName = "log_out_detail_screen_viewed"
	EventLogOutConfirmationButtonTapped EventName = "log_out_confirmation_button_tapped"
	EventLogOutCancelButtonTapped       EventName = "log_out_cancel_button_tapped"
	EventContactUsButtonTapped          EventName = "contact_us_button_tapped"
	EventRateAppScreenViewed            EventName = "rate_app_screen_viewed"
	EventRateNowButtonTapped            EventName = "rate_now_button_tapped"
	EventCancelRatingButtonTapped       EventName = "cancel_rating_button_tapped"
)

// Event is one tracked occurrence.
type Event struct {
	Name       EventName         `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent stamps an event with the request-scoped time.
func NewEvent(ctx context.Context, name EventName) Event {
	return Event{Name: name, OccurredAt: requestcontext.Now(ctx)}
}

// Sink receives user properties and events.
type Sink interface {
	SetUserProperty(ctx context.Context, key, value string) error
	Log(ctx context.Context, event Event) error
}

// InstallID picks the installation identifier for ctx: the client's, when the
// request carried one, else fallback.
func InstallID(ctx context.Context, fallback string) string {
	if id := requestcontext.InstallID(ctx); id != "" {
		return id
	}
	return fallback
}

// Fanout delivers to every sink. A failing sink does not stop the others;
// their errors are joined.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) SetUserProperty(ctx context.Context, key, value string) error {
	var errs []error
	for i, s := range f.sinks {
		if err := s.SetUserProperty(ctx, key, value); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) Log(ctx context.Context, event Event) error {
	var errs []error
	for i, s := range f.sinks {
		if err := s.Log(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Len reports how many sinks are attached.
func (f *Fanout) Len() int {
	return len(f.sinks)
}
