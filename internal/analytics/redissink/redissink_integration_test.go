//go:build integration

package redissink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"companion/internal/analytics"
	"companion/pkg/requestcontext"
	"companion/pkg/testutil/containers"
)

type RedisSinkSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	sink  *Sink
}

func TestRedisSinkSuite(t *testing.T) {
	suite.Run(t, new(RedisSinkSuite))
}

func (s *RedisSinkSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisSinkSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	var err error
	s.sink, err = New(s.redis.Client, "install-default", WithStream("test:events"), WithMaxLen(10))
	s.Require().NoError(err)
}

func (s *RedisSinkSuite) TestSetUserPropertyWritesHash() {
	ctx := context.Background()

	s.Require().NoError(s.sink.SetUserProperty(ctx, "locale", "en_US"))
	s.Require().NoError(s.sink.SetUserProperty(ctx, "locale", "de_DE"))
	s.Require().NoError(s.sink.SetUserProperty(ctx, "platform", "linux 6.8"))

	got, err := s.redis.Client.HGetAll(ctx, PropertiesKey("install-default")).Result()
	s.Require().NoError(err)
	s.Equal(map[string]string{"locale": "de_DE", "platform": "linux 6.8"}, got)

	ttl, err := s.redis.Client.TTL(ctx, PropertiesKey("install-default")).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisSinkSuite) TestRequestInstallIDSelectsHash() {
	ctx := requestcontext.WithInstallID(context.Background(), "install-client")

	s.Require().NoError(s.sink.SetUserProperty(ctx, "user_id", "user-1"))

	exists, err := s.redis.Client.Exists(ctx, PropertiesKey("install-client")).Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)
}

func (s *RedisSinkSuite) TestLogAppendsToStream() {
	ctx := context.Background()
	event := analytics.Event{
		Name:       analytics.EventLogOutConfirmationButtonTapped,
		Properties: map[string]string{"source": "settings"},
		OccurredAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.sink.Log(ctx, event))

	entries, err := s.redis.Client.XRange(ctx, "test:events", "-", "+").Result()
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("log_out_confirmation_button_tapped", entries[0].Values["event"])
	s.Equal("install-default", entries[0].Values["install_id"])
	s.Equal(`{"source":"settings"}`, entries[0].Values["properties"])
}
