package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestClusterService_ListClustersKeepsOrderAndNeverFails(t *testing.T) {
	f := newFixture(t, time.Second, "", config.ClusterConfig{Name: "prod", ReadOnly: true}, config.ClusterConfig{Name: "dev"})

	prod := f.client("prod")
	prod.Meta.Topics = []domain.TopicMetadata{topicMeta("orders", 1, 1), topicMeta("__consumer_offsets", 1, 1)}
	dev := f.client("dev")
	dev.SetErr(fmt.Errorf("%w: dial tcp dev:9092", domain.ErrConnection))

	summaries := f.clusters.ListClusters(context.Background())
	require.Len(t, summaries, 2)

	require.Equal(t, "prod", summaries[0].Name)
	require.Equal(t, domain.StatusHealthy, summaries[0].Status)
	require.Equal(t, 1, summaries[0].TopicsCount)
	require.Equal(t, 1, summaries[0].BrokersCount)
	require.True(t, summaries[0].ReadOnly)
	require.Equal(t, "PLAINTEXT", summaries[0].AuthType)

	require.Equal(t, "dev", summaries[1].Name)
	require.Equal(t, domain.StatusError, summaries[1].Status)
	require.Contains(t, summaries[1].Error, "dial tcp")
}

func TestClusterService_DefaultResolution(t *testing.T) {
	f := newFixture(t, time.Second, "", config.ClusterConfig{Name: "a"}, config.ClusterConfig{Name: "b"})

	_, err := f.clusters.ListBrokers(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrNoDefaultCluster)

	_, err = f.clusters.ListBrokers(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrUnknownCluster)
	var opErr *domain.OpError
	require.True(t, errors.As(err, &opErr))
	require.Equal(t, "missing", opErr.Cluster)
	require.Equal(t, "list_brokers", opErr.Op)

	require.Zero(t, f.factory.Total())
}

func TestClusterService_EmptyNameUsesDefault(t *testing.T) {
	f := newFixture(t, time.Second, "", config.ClusterConfig{Name: "default"}, config.ClusterConfig{Name: "other"})
	f.client("default").Meta.Brokers = []domain.BrokerInfo{{ID: 3}, {ID: 1}, {ID: 2}}

	brokers, err := f.clusters.ListBrokers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, brokers, 3)
	require.Equal(t, []int32{1, 2, 3}, []int32{brokers[0].ID, brokers[1].ID, brokers[2].ID})
	require.True(t, brokers[0].IsController)
	require.False(t, brokers[1].IsController)
	require.Equal(t, 1, f.factory.Created("default"))
	require.Zero(t, f.factory.Created("other"))
}

func TestClusterService_GetClusterMetadata(t *testing.T) {
	f := newFixture(t, time.Second, "", config.ClusterConfig{
		Name:             "prod",
		SecurityProtocol: config.ProtocolSASLSSL,
		SASL:             &config.SASLConfig{Mechanism: config.MechanismScramSHA512, Username: "u", Password: "p"},
	})
	c := f.client("prod")
	c.Meta.Brokers = append(c.Meta.Brokers, domain.BrokerInfo{ID: 2})
	c.Meta.Topics = []domain.TopicMetadata{topicMeta("orders", 3, 2), topicMeta("payments", 2, 2), topicMeta("__consumer_offsets", 50, 2)}

	ov, err := f.clusters.GetClusterMetadata(context.Background(), "prod")
	require.NoError(t, err)
	require.Equal(t, "prod", ov.ClusterName)
	require.Equal(t, "fake-cluster", ov.ClusterID)
	require.Equal(t, int32(1), ov.ControllerID)
	require.Equal(t, domain.BrokerTotals{Count: 2, IDs: []int32{1, 2}}, ov.Brokers)
	require.Equal(t, domain.TopicTotals{Total: 3, UserTopics: 2, InternalTopics: 1, TotalPartitions: 55}, ov.Topics)
	require.Equal(t, domain.SecuritySummary{Protocol: "SASL_SSL", SASLMechanism: "SCRAM-SHA-512", AuthenticationEnabled: true}, ov.Security)
}

func TestClusterService_ConnectionErrorInvalidatesClient(t *testing.T) {
	f := newFixture(t, time.Second, "", config.ClusterConfig{Name: "dev"})
	c := f.client("dev")
	c.SetErr(fmt.Errorf("%w: broker closed connection", domain.ErrConnection))

	_, err := f.clusters.ListBrokers(context.Background(), "dev")
	require.ErrorIs(t, err, domain.ErrConnection)
	require.True(t, c.Closed())

	fresh := f.client("dev")
	_, err = f.clusters.ListBrokers(context.Background(), "dev")
	require.NoError(t, err)
	require.Equal(t, 2, f.factory.Created("dev"))
	require.False(t, fresh.Closed())
}

func TestClusterService_TimeoutKeepsClient(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond, "", config.ClusterConfig{Name: "dev"})
	c := f.client("dev")
	c.Delay = time.Second

	start := time.Now()
	_, err := f.clusters.ListBrokers(context.Background(), "dev")
	require.ErrorIs(t, err, domain.ErrOperationTimeout)
	require.Less(t, time.Since(start), 900*time.Millisecond)
	require.False(t, c.Closed())
	require.Equal(t, 1, f.factory.Created("dev"))

	c.SetDelay(0)
	brokers, err := f.clusters.ListBrokers(context.Background(), "dev")
	require.NoError(t, err)
	require.Len(t, brokers, 1)
	require.Equal(t, 1, f.factory.Created("dev"))
	require.False(t, c.Closed())
}
