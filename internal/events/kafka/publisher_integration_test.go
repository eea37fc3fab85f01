//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"claimbank/internal/events"
	"claimbank/internal/events/kafka"
	"claimbank/pkg/testutil/containers"
)

func TestPublisherRoundTrip(t *testing.T) {
	redpanda := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	publisher, err := kafka.NewPublisher(ctx, redpanda.Brokers, "claim-events-test")
	require.NoError(t, err)
	defer publisher.Close()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	emitted := events.NewTagUpdated("test-registry", 7, "alice", []byte("march"), at)
	require.NoError(t, publisher.Emit(ctx, emitted))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Brokers...),
		kgo.ConsumeTopics("claim-events-test"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, []byte("7"), records[0].Key)

	var got events.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, emitted.ID, got.ID)
	require.Equal(t, events.KindTagUpdated, got.Kind)
	require.Equal(t, int64(7), got.ClaimID)
	require.Equal(t, []byte("march"), got.Tag)
	require.True(t, at.Equal(got.At))
}

func TestNewPublisherToleratesExistingTopic(t *testing.T) {
	redpanda := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	first, err := kafka.NewPublisher(ctx, redpanda.Brokers, "claim-events-test")
	require.NoError(t, err)
	defer first.Close()

	second, err := kafka.NewPublisher(ctx, redpanda.Brokers, "claim-events-test")
	require.NoError(t, err)
	defer second.Close()
}
