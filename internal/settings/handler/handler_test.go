package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"companion/internal/analytics"
	"companion/internal/settings/models"
	"companion/internal/settings/service"
	"companion/internal/settings/service/mocks"
	"companion/pkg/testutil"
)

type countingSink struct {
	events []analytics.EventName
}

func (c *countingSink) SetUserProperty(context.Context, string, string) error { return nil }

func (c *countingSink) Log(_ context.Context, event analytics.Event) error {
	c.events = append(c.events, event.Name)
	return nil
}

type fixture struct {
	router      http.Handler
	sink        *countingSink
	session     *mocks.MockSession
	diagnostics *mocks.MockDiagnostics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{
		sink:        &countingSink{},
		session:     mocks.NewMockSession(ctrl),
		diagnostics: mocks.NewMockDiagnostics(ctrl),
	}
	svc, err := service.New(f.sink, f.session, f.diagnostics)
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	f.router = r
	return f
}

func TestGetSettings(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/settings"))
	testutil.AssertStatusOK(t, rr)

	resp := testutil.UnmarshalResponse[sectionsResponse](t, rr)
	require.Len(t, resp.Sections, 3)
	support := resp.Sections[2]
	assert.Equal(t, "Support", support.Title)
	require.Len(t, support.Rows, 4)
	assert.Equal(t, models.RowTypeAction, support.Rows[1].RowType)
	assert.Equal(t, models.RouteDiagnosticsPage, support.Rows[2].Route)
	assert.False(t, support.Rows[3].ShowSeparator)
	assert.Equal(t, []analytics.EventName{analytics.EventSettingsScreenViewed}, f.sink.events)
}

func TestExecuteItem(t *testing.T) {
	f := newFixture(t)

	t.Run("unknown item", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/settings/items/step_goal"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("navigation row", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/settings/items/help_center"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[service.ActionResult](t, rr)
		assert.Equal(t, service.ActionNavigate, resp.Kind)
		assert.Equal(t, models.RouteHelpCenter, resp.Route)
	})

	t.Run("contact us", func(t *testing.T) {
		f.diagnostics.EXPECT().FormattedHTML().Return("<p>ok</p>")
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/settings/items/contact_us"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "report_html", "<p>ok</p>")
	})
}

func TestRateFlow(t *testing.T) {
	f := newFixture(t)

	testutil.Given(t, "no prompt is open", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/settings/rate", map[string]bool{"accepted": true}))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	testutil.When(t, "the rate row opens the prompt", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/settings/items/rate_app"))
		testutil.AssertJSONContains(t, rr, "kind", "rate_prompt")
	})

	testutil.Then(t, "answering closes it", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/settings/rate", map[string]bool{"accepted": false}))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
		assert.Contains(t, f.sink.events, analytics.EventCancelRatingButtonTapped)
	})
}

func TestLogOutFlow(t *testing.T) {
	f := newFixture(t)

	testutil.Given(t, "log-out was not started", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/settings/logout/confirm", map[string]bool{"confirmed": true}))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	testutil.When(t, "log-out is started and confirmed", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/settings/logout"))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		f.session.EXPECT().SignOut(gomock.Any())
		rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/settings/logout/confirm", map[string]bool{"confirmed": true}))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	testutil.Then(t, "a malformed body is rejected", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequestWithBody(t, http.MethodPost, "/settings/logout/confirm", "{"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}
