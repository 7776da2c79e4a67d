//go:build integration

package kafkasink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"companion/internal/platform/config"
	"companion/internal/platform/kafka"
	"companion/pkg/testutil/containers"
)

func TestSinkAgainstBroker(t *testing.T) {
	broker := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.KafkaConfig{Brokers: []string{broker.Broker}, Topic: "companion.analytics.it", ClientID: "it"}
	client, err := kafka.New(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, kafka.EnsureTopic(ctx, client, cfg.Topic))
	require.NoError(t, kafka.EnsureTopic(ctx, client, cfg.Topic), "existing topic is not an error")

	sink, err := New(client, cfg.Topic, "install-it")
	require.NoError(t, err)
	require.NoError(t, sink.SetUserProperty(ctx, "locale", "en_US"))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)
	require.Equal(t, "install-it", string(records[0].Key))
}
