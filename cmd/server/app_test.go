package main

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion/internal/platform/config"
	"companion/pkg/testutil"
)

type item struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type itemsBody struct {
	Items []item `json:"items"`
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Default()
	cfg.App.InstallID = "install-1"

	a, err := buildApp(context.Background(), cfg, slog.New(slog.DiscardHandler), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	a.diagnostics.RefreshDeviceAndUserDiagnostics(context.Background())
	return a
}

func itemTypes(t *testing.T, router http.Handler) map[string]string {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/diagnostics"))
	testutil.AssertStatusOK(t, rr)
	out := map[string]string{}
	for _, it := range testutil.UnmarshalResponse[itemsBody](t, rr).Items {
		out[it.Type] = it.Value
	}
	return out
}

func TestSignInAndLogOutDriveDiagnostics(t *testing.T) {
	a := newTestApp(t)

	testutil.Given(t, "a fresh install", func(t *testing.T) {
		items := itemTypes(t, a.router)
		assert.Contains(t, items, "platform")
		assert.Contains(t, items, "app_version")
		assert.NotContains(t, items, "user_id")
	})

	testutil.When(t, "the user signs in", func(t *testing.T) {
		rr := testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost, "/session",
			map[string]string{"email": "ada@example.com", "auth_source": "apple"}))
		testutil.AssertStatusOK(t, rr)

		id, ok := a.profiles.CurrentProfileID()
		require.True(t, ok)
		require.Eventually(t, func() bool {
			items := itemTypes(t, a.router)
			return items["user_id"] == id.String() && items["connected_socials"] == "apple"
		}, time.Second, 10*time.Millisecond)
	})

	testutil.Then(t, "confirming log-out removes user-specific diagnostics", func(t *testing.T) {
		rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodPost, "/settings/logout"))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
		rr = testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPost, "/settings/logout/confirm",
			map[string]bool{"confirmed": true}))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		items := itemTypes(t, a.router)
		assert.NotContains(t, items, "user_id")
		assert.NotContains(t, items, "connected_socials")
		assert.Contains(t, items, "platform")
	})
}

func TestHealthSourceSelectionUpdatesDiagnostics(t *testing.T) {
	a := newTestApp(t)

	rr := testutil.DoRequest(a.router, testutil.NewJSONRequest(t, http.MethodPut, "/health-sources/current", map[string]string{"id": "garmin"}))
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "Garmin", itemTypes(t, a.router)["connected_health_sources"])

	rr = testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodDelete, "/health-sources/current"))
	testutil.AssertStatus(t, rr, http.StatusNoContent)
	assert.Empty(t, itemTypes(t, a.router)["connected_health_sources"])
}

func TestOperationalEndpoints(t *testing.T) {
	a := newTestApp(t)

	rr := testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "status", "ok")

	rr = testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/diagnostics/report"))
	testutil.AssertStatusOK(t, rr)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = testutil.DoRequest(a.router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
	body := string(testutil.ReadBody(t, rr))
	assert.Contains(t, body, "companion_http_requests_total")
	assert.Contains(t, body, "companion_diagnostics_store_updates_total")
}

func TestBuildAppRejectsUnknownSink(t *testing.T) {
	cfg := config.Default()
	cfg.Analytics.Sinks = []string{"log", "carrier-pigeon"}

	_, err := buildApp(context.Background(), cfg, slog.New(slog.DiscardHandler), prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
