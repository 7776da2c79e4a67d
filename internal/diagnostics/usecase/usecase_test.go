package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"companion/internal/diagnostics/metrics"
	"companion/internal/diagnostics/models"
	"companion/internal/diagnostics/ports/mocks"
	"companion/internal/diagnostics/service"
	"companion/internal/diagnostics/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type UseCaseSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockAnalytics *mocks.MockAnalyticsPort
	mockDevice    *mocks.MockDeviceInfoProvider
	mockReach     *mocks.MockReachabilityProvider
	mockUsers     *mocks.MockUserDataRepository
	mockHealth    *mocks.MockHealthSourcesRepository
	store         *store.InMemoryStore
	service       *service.Service
	metrics       *metrics.Metrics
}

func TestUseCaseSuite(t *testing.T) {
	suite.Run(t, new(UseCaseSuite))
}

func (s *UseCaseSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAnalytics = mocks.NewMockAnalyticsPort(s.ctrl)
	s.mockDevice = mocks.NewMockDeviceInfoProvider(s.ctrl)
	s.mockReach = mocks.NewMockReachabilityProvider(s.ctrl)
	s.mockUsers = mocks.NewMockUserDataRepository(s.ctrl)
	s.mockHealth = mocks.NewMockHealthSourcesRepository(s.ctrl)
	s.store = store.New()
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())

	s.mockDevice.EXPECT().OperatingSystemDescription().Return("iOS 17").AnyTimes()
	s.mockDevice.EXPECT().ModelName().Return("iPhone15").AnyTimes()
	s.mockDevice.EXPECT().AppVersion().Return("2.3.1").AnyTimes()
	s.mockDevice.EXPECT().LocaleIdentifier().Return("en_US").AnyTimes()
	s.mockDevice.EXPECT().TimeZoneIdentifier().Return("UTC").AnyTimes()
	s.mockReach.EXPECT().ConnectionDescription().Return("wifi").AnyTimes()

	var err error
	s.service, err = service.New(s.store, s.mockDevice, s.mockReach, s.mockUsers, s.mockHealth)
	s.Require().NoError(err)
}

func (s *UseCaseSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *UseCaseSuite) newUseCase() *UseCase {
	u, err := New(s.service, s.mockAnalytics, WithMetrics(s.metrics))
	s.Require().NoError(err)
	return u
}

func (s *UseCaseSuite) TestNew() {
	s.Run("nil repository returns error", func() {
		_, err := New(nil, s.mockAnalytics)
		s.Require().Error(err)
		s.Contains(err.Error(), "diagnostics repository is required")
	})

	s.Run("nil analytics returns error", func() {
		_, err := New(s.service, nil)
		s.Require().Error(err)
		s.Contains(err.Error(), "analytics port is required")
	})

	s.Run("empty store forwards nothing on subscribe", func() {
		u := s.newUseCase()
		defer u.Close()
	})
}

func (s *UseCaseSuite) TestForwardsEveryItemOnEachUpdate() {
	u := s.newUseCase()
	defer u.Close()

	gomock.InOrder(
		s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "platform", "iOS 17").Return(nil),
		s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "device_model", "iPhone15").Return(nil),
		s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "app_version", "2.3.1").Return(nil),
		s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "locale", "en_US").Return(nil),
		s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "timezone", "UTC").Return(nil),
		s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "connectivity", "wifi").Return(nil),
	)
	u.RefreshDeviceAndUserDiagnostics(context.Background())

	// A single upsert re-sends the whole set: six unchanged items plus the new one.
	s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(6)
	s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "user_id", "user-1").Return(nil)
	s.Require().NoError(u.UpdateItem(models.ItemTypeUserID, "user-1"))

	s.Equal(float64(13), testutil.ToFloat64(s.metrics.UserPropertiesForwarded))
	s.Equal(float64(3), testutil.ToFloat64(s.metrics.StoreUpdates), "empty replay is counted once, then two updates")
}

func (s *UseCaseSuite) TestAnalyticsFailureDoesNotStopForwarding() {
	s.store.ReplaceAll([]models.Item{
		{Type: models.ItemTypePlatform, Value: "iOS 17"},
		{Type: models.ItemTypeLocale, Value: "en_US"},
	})

	s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "platform", "iOS 17").Return(errors.New("quota exceeded"))
	s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "locale", "en_US").Return(nil)

	u := s.newUseCase()
	defer u.Close()

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.UserPropertyForwardFails))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.UserPropertiesForwarded))
}

func (s *UseCaseSuite) TestCloseStopsForwarding() {
	u := s.newUseCase()
	u.Close()

	// No SetUserProperty expectation: any call would fail the test.
	u.RefreshDeviceAndUserDiagnostics(context.Background())
	s.Equal(6, s.store.Len())
}

func (s *UseCaseSuite) TestSignOutForwardsRemainingItems() {
	s.store.ReplaceAll([]models.Item{
		{Type: models.ItemTypePlatform, Value: "iOS 17"},
		{Type: models.ItemTypeUserID, Value: "user-1"},
	})
	s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "platform", "iOS 17").Return(nil).Times(2)
	s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), "user_id", "user-1").Return(nil).Times(1)

	u := s.newUseCase()
	defer u.Close()

	u.RemoveUserSpecificProperties()
	s.Equal(1, s.store.Len())
}

func (s *UseCaseSuite) TestPassThroughs() {
	ctx := context.Background()
	s.mockAnalytics.EXPECT().SetUserProperty(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	u := s.newUseCase()
	defer u.Close()

	s.Run("items falls back to device facts when signed out", func() {
		s.mockUsers.EXPECT().GetUser(gomock.Any()).Return(nil, errors.New("signed out"))
		s.mockUsers.EXPECT().AuthenticationSourcesString(gomock.Any()).Return("", nil)

		items, err := u.Items(ctx)
		s.Require().NoError(err)
		s.Len(items, 6)
	})

	s.Run("formatted text reflects the store", func() {
		s.Contains(u.FormattedText(), "Connectivity\nwifi")
		s.Contains(u.FormattedHTML(), "<div>Platform</br>iOS 17</div></br>")
	})

	s.Run("connected socials refresh adds one item", func() {
		s.mockUsers.EXPECT().AuthenticationSourcesString(gomock.Any()).Return("apple", nil)

		s.Require().NoError(<-u.RefreshConnectedSocials(ctx))
		s.Equal(7, s.store.Len())
	})
}
