// Package ports defines the collaborators the diagnostics aggregator reads
// facts from and the analytics sink it reports them to. Adapters in
// internal/diagnostics/adapters implement them over platform APIs and other
// modules so the aggregator stays free of those dependencies.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import "context"

// DeviceInfoProvider exposes static facts about the running device.
type DeviceInfoProvider interface {
	OperatingSystemDescription() string
	ModelName() string
	AppVersion() string
	LocaleIdentifier() string
	TimeZoneIdentifier() string
}

// ReachabilityProvider describes the current network connection.
// ConnectionDescription must not block.
type ReachabilityProvider interface {
	ConnectionDescription() string
}

// User is the slice of the signed-in profile diagnostics cares about.
type User struct {
	ID string
}

// UserDataRepository resolves the signed-in user and their linked
// authentication sources. Both calls may hit the network.
type UserDataRepository interface {
	GetUser(ctx context.Context) (*User, error)
	AuthenticationSourcesString(ctx context.Context) (string, error)
}

// HealthSource is the connected health data source.
type HealthSource struct {
	DiagnosticsName string
}

// HealthSourcesRepository returns the selected health source, if any.
type HealthSourcesRepository interface {
	HealthSource() (*HealthSource, bool)
}

// AnalyticsPort receives user properties.
type AnalyticsPort interface {
	SetUserProperty(ctx context.Context, key, value string) error
}
