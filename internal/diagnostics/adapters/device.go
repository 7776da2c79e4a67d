// Package adapters implements the diagnostics ports over the host, the
// network, and the profile and health source modules.
package adapters

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"companion/internal/diagnostics/ports"
)

const defaultLocale = "en_US"

var (
	_ ports.DeviceInfoProvider   = (*DeviceInfo)(nil)
	_ ports.ReachabilityProvider = (*ReachabilityMonitor)(nil)
)

// DeviceInfo reports static facts about the host. They are resolved once at
// construction.
type DeviceInfo struct {
	osDescription string
	model         string
	appVersion    string
	locale        string
	timezone      string
}

type deviceConfig struct {
	hostInfo func(ctx context.Context) (*host.InfoStat, error)
	getenv   func(string) string
	now      func() time.Time
}

type DeviceOption func(*deviceConfig)

// WithHostInfo replaces the gopsutil lookup.
func WithHostInfo(fn func(ctx context.Context) (*host.InfoStat, error)) DeviceOption {
	return func(c *deviceConfig) { c.hostInfo = fn }
}

// WithGetenv replaces os.Getenv.
func WithGetenv(fn func(string) string) DeviceOption {
	return func(c *deviceConfig) { c.getenv = fn }
}

// WithClock replaces time.Now for the timezone fallback.
func WithClock(fn func() time.Time) DeviceOption {
	return func(c *deviceConfig) { c.now = fn }
}

// NewDeviceInfo resolves the device facts. A failed host lookup falls back
// to the Go runtime's view of the platform.
func NewDeviceInfo(ctx context.Context, appVersion string, opts ...DeviceOption) *DeviceInfo {
	cfg := deviceConfig{
		hostInfo: host.InfoWithContext,
		getenv:   os.Getenv,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &DeviceInfo{
		osDescription: runtime.GOOS,
		model:         runtime.GOARCH,
		appVersion:    appVersion,
		locale:        localeFromEnv(cfg.getenv),
		timezone:      timezone(cfg.getenv, cfg.now),
	}
	if info, err := cfg.hostInfo(ctx); err == nil && info != nil {
		d.osDescription = describeOS(info)
		d.model = describeModel(info)
	}
	return d
}

func (d *DeviceInfo) OperatingSystemDescription() string { return d.osDescription }
func (d *DeviceInfo) ModelName() string { return d.model }
func (d *DeviceInfo) AppVersion() string { return d.appVersion }
func (d *DeviceInfo) LocaleIdentifier() string { return d.locale }
func (d *DeviceInfo) TimeZoneIdentifier() string { return d.timezone }

func describeOS(info *host.InfoStat) string {
	name := info.Platform
	if name == "" {
		name = info.OS
	}
	if name == "" {
		name = runtime.GOOS
	}
	if info.PlatformVersion == "" {
		return name
	}
	return name + " " + info.PlatformVersion
}

func describeModel(info *host.InfoStat) string {
	arch := info.KernelArch
	if arch == "" {
		arch = runtime.GOARCH
	}
	if info.VirtualizationSystem != "" && info.VirtualizationRole == "guest" {
		return fmt.Sprintf("%s (%s)", arch, info.VirtualizationSystem)
	}
	return arch
}

// localeFromEnv follows POSIX precedence: LC_ALL, then LC_MESSAGES, then
// LANG. "en_US.UTF-8@euro" becomes "en_US"; C and POSIX map to the default.
func localeFromEnv(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "" || v == "C" || v == "POSIX" {
			return defaultLocale
		}
		return v
	}
	return defaultLocale
}

func timezone(getenv func(string) string, now func() time.Time) string {
	if tz := strings.TrimPrefix(getenv("TZ"), ":"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	name, _ := now().Zone()
	return name
}
