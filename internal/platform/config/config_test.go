package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"log"}, cfg.Analytics.Sinks)
	assert.Equal(t, 30*time.Second, cfg.Reachability.Interval)
	assert.Equal(t, 10, cfg.RateLimit.RefreshLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.RefreshWindow)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.App.Version)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
app:
  version: "2.3.1"
reachability:
  probe_addr: "example.com:443"
  interval: 5s
analytics:
  sinks: [log, redis]
redis:
  url: "redis://localhost:6379/0"
rate_limit:
  refresh_limit: 3
  refresh_window: 10s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "2.3.1", cfg.App.Version)
	assert.Equal(t, "example.com:443", cfg.Reachability.ProbeAddr)
	assert.Equal(t, 5*time.Second, cfg.Reachability.Interval)
	assert.Equal(t, []string{"log", "redis"}, cfg.Analytics.Sinks)
	assert.Equal(t, 10, cfg.Redis.PoolSize, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.RateLimit.RefreshLimit)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.RefreshWindow)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("COMPANION_ADDR", ":7070")
	t.Setenv("COMPANION_KAFKA_BROKERS", "b1:9092, b2:9092")
	t.Setenv("COMPANION_ANALYTICS_SINKS", "log,kafka")
	t.Setenv("COMPANION_REFRESH_LIMIT", "0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.RateLimit.RefreshLimit)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"log", "kafka"}, cfg.Analytics.Sinks)
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [unterminated"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("redis sink without url", func(t *testing.T) {
		t.Setenv("COMPANION_ANALYTICS_SINKS", "redis")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis.url")
	})

	t.Run("unknown sink", func(t *testing.T) {
		t.Setenv("COMPANION_ANALYTICS_SINKS", "carrier-pigeon")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown analytics sink")
	})

	t.Run("bad probe interval", func(t *testing.T) {
		t.Setenv("COMPANION_PROBE_INTERVAL", "soon")
		_, err := Load("")
		require.Error(t, err)
	})
}
