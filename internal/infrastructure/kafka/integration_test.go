//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

// startBroker runs a single-node KRaft broker for the duration of the test.
func startBroker(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := tckafka.Run(ctx, "confluentinc/cp-kafka:7.4.0", tckafka.WithClusterID("lookout-it"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	return brokers
}

func TestClientIntegration(t *testing.T) {
	brokers := startBroker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := NewClient(ctx, config.ClusterConfig{
		Name:             "it",
		Brokers:          brokers,
		SecurityProtocol: config.ProtocolPlaintext,
	}, 10*time.Second)
	require.NoError(t, err)
	defer client.Close()

	meta, err := client.Metadata(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, meta.Brokers)

	err = client.CreateTopic(ctx, domain.CreateTopicRequest{
		Name:              "orders",
		NumPartitions:     2,
		ReplicationFactor: 1,
		Configs:           map[string]string{"retention.ms": "3600000"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		m, err := client.Metadata(ctx, "orders")
		if err != nil {
			return false
		}
		topic, ok := m.Topic("orders")
		return ok && len(topic.Partitions) == 2
	}, 30*time.Second, 500*time.Millisecond)

	configs, err := client.DescribeTopicConfigs(ctx, "orders")
	require.NoError(t, err)
	require.Equal(t, "3600000", configs["retention.ms"])

	require.NoError(t, client.UpdateTopicConfig(ctx, "orders", domain.UpdateTopicConfigRequest{
		Configs: map[string]string{"retention.ms": "7200000"},
	}))
	require.NoError(t, client.IncreasePartitions(ctx, "orders", domain.IncreasePartitionsRequest{TotalPartitions: 3}))

	offsets, err := client.ResetConsumerGroupOffsets(ctx, "billing", domain.ResetOffsetsRequest{
		Topic:    "orders",
		Strategy: domain.ResetEarliest,
	})
	require.NoError(t, err)
	require.NotEmpty(t, offsets)

	group, err := client.DescribeConsumerGroup(ctx, "billing")
	require.NoError(t, err)
	require.Equal(t, "billing", group.GroupID)
	require.NotEmpty(t, group.Offsets)

	groups, err := client.ListConsumerGroups(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, groups)

	_, err = client.DescribeConsumerGroup(ctx, "never-existed")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, client.DeleteTopic(ctx, "orders"))
	require.Eventually(t, func() bool {
		m, err := client.Metadata(ctx)
		if err != nil {
			return false
		}
		_, ok := m.Topic("orders")
		return !ok
	}, 30*time.Second, 500*time.Millisecond)
}
