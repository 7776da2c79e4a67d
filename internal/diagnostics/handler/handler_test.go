package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"companion/internal/diagnostics/models"
	"companion/internal/diagnostics/ports"
	"companion/internal/diagnostics/ports/mocks"
	"companion/internal/diagnostics/service"
	"companion/internal/diagnostics/store"
	"companion/pkg/testutil"
)

type staticDevice struct{}

func (staticDevice) OperatingSystemDescription() string { return "iOS 17" }
func (staticDevice) ModelName() string { return "iPhone15" }
func (staticDevice) AppVersion() string { return "2.3.1" }
func (staticDevice) LocaleIdentifier() string { return "en_US" }
func (staticDevice) TimeZoneIdentifier() string { return "UTC" }

type staticReachability struct{}

func (staticReachability) ConnectionDescription() string { return "wifi" }

type HandlerSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockUsers  *mocks.MockUserDataRepository
	mockHealth *mocks.MockHealthSourcesRepository
	store      *store.InMemoryStore
	router     http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockUsers = mocks.NewMockUserDataRepository(s.ctrl)
	s.mockHealth = mocks.NewMockHealthSourcesRepository(s.ctrl)
	s.store = store.New()

	svc, err := service.New(s.store, staticDevice{}, staticReachability{}, s.mockUsers, s.mockHealth)
	s.Require().NoError(err)

	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) TestGetItems() {
	s.Run("empty store performs the combined fetch", func() {
		s.mockUsers.EXPECT().GetUser(gomock.Any()).Return(&ports.User{ID: "user-1"}, nil)
		s.mockUsers.EXPECT().AuthenticationSourcesString(gomock.Any()).Return("apple", nil)
		s.mockHealth.EXPECT().HealthSource().Return(&ports.HealthSource{DiagnosticsName: "HealthKit"}, true)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/diagnostics/"))
		testutil.AssertStatusOK(s.T(), rr)

		resp := testutil.UnmarshalResponse[itemsResponse](s.T(), rr)
		s.Require().Len(resp.Items, 9)
		s.Equal("Platform", resp.Items[0].Title)
		s.Equal("iOS 17", resp.Items[0].Value)
		s.Equal("HealthKit", resp.Items[8].Value)
	})

	s.Run("filled store is served without fetching", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/diagnostics/"))
		testutil.AssertStatusOK(s.T(), rr)
		s.Len(testutil.UnmarshalResponse[itemsResponse](s.T(), rr).Items, 9)
	})
}

func (s *HandlerSuite) TestReports() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/diagnostics/report"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Empty(rr.Body.String(), "empty store renders nothing")

	s.store.ReplaceAll([]models.Item{{Type: models.ItemTypeLocale, Value: "en_US"}})

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/diagnostics/report"))
	s.Equal("text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	s.Equal("Locale\nen_US", rr.Body.String())

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/diagnostics/report.html"))
	s.Equal("text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	s.Equal("<div>Locale</br>en_US</div></br>", rr.Body.String())
}

func (s *HandlerSuite) TestUpdateItem() {
	s.Run("known type is upserted", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/diagnostics/items/connectivity",
			map[string]string{"value": "cellular"}))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
		s.Equal(1, s.store.Len())
	})

	s.Run("unknown type is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/diagnostics/items/battery",
			map[string]string{"value": "80%"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed body is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, "/diagnostics/items/locale", "nope"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestRefresh() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/diagnostics/refresh"))
	testutil.AssertStatusOK(s.T(), rr)
	s.Len(testutil.UnmarshalResponse[itemsResponse](s.T(), rr).Items, 6)
}

func (s *HandlerSuite) TestRefreshSocials() {
	s.Run("waits for success", func() {
		s.mockUsers.EXPECT().AuthenticationSourcesString(gomock.Any()).Return("apple, google", nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/diagnostics/socials/refresh?wait=true"))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
		s.Equal(1, s.store.Len())
	})

	s.Run("waits for failure", func() {
		s.mockUsers.EXPECT().AuthenticationSourcesString(gomock.Any()).Return("", errors.New("offline"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/diagnostics/socials/refresh?wait=1"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "unavailable")
	})
}

func (s *HandlerSuite) TestRemoveUserSpecific() {
	s.store.ReplaceAll([]models.Item{
		{Type: models.ItemTypeUserID, Value: "user-1"},
		{Type: models.ItemTypeLocale, Value: "en_US"},
		{Type: models.ItemTypeConnectedSocials, Value: "apple"},
	})

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/diagnostics/user-specific"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	s.Equal(1, s.store.Len())
}

func (s *HandlerSuite) TestRefreshLimiterWrapsOnlyRefreshRoutes() {
	svc, err := service.New(s.store, staticDevice{}, staticReachability{}, s.mockUsers, s.mockHealth)
	s.Require().NoError(err)
	reject := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler), WithRefreshLimiter(reject)).Register(r)

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodPost, "/diagnostics/refresh"))
	testutil.AssertStatus(s.T(), rr, http.StatusTooManyRequests)
	rr = testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodPost, "/diagnostics/socials/refresh"))
	testutil.AssertStatus(s.T(), rr, http.StatusTooManyRequests)

	rr = testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet, "/diagnostics/report"))
	testutil.AssertStatusOK(s.T(), rr)
}
