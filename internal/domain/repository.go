package domain

import (
	"context"

	"github.com/OliveiraNt/maned-lookout/internal/config"
)

// ClusterRepository resolves configured clusters and owns their admin clients.
type ClusterRepository interface {
	FindByName(name string) (config.ClusterConfig, bool)
	FindAll() []config.ClusterConfig
	DefaultCluster() string
	GetClient(ctx context.Context, name string) (AdminClient, error)
	Invalidate(name string, client AdminClient)
}

// ClientFactory creates admin clients from configuration.
type ClientFactory interface {
	CreateClient(ctx context.Context, cfg config.ClusterConfig) (AdminClient, error)
}

// AdminClient is the administrative capability of one Kafka cluster.
// Implementations must be safe for concurrent use.
type AdminClient interface {
	// Metadata returns brokers and topics. When topics are named only those
	// are described, and a missing one yields ErrNotFound.
	Metadata(ctx context.Context, topics ...string) (*ClusterMetadata, error)
	DescribeTopicConfigs(ctx context.Context, topic string) (map[string]string, error)
	ListConsumerGroups(ctx context.Context) ([]ConsumerGroupInfo, error)
	DescribeConsumerGroup(ctx context.Context, group string) (*ConsumerGroupDetail, error)
	CreateTopic(ctx context.Context, req CreateTopicRequest) error
	DeleteTopic(ctx context.Context, topic string) error
	UpdateTopicConfig(ctx context.Context, topic string, req UpdateTopicConfigRequest) error
	IncreasePartitions(ctx context.Context, topic string, req IncreasePartitionsRequest) error
	ResetConsumerGroupOffsets(ctx context.Context, group string, req ResetOffsetsRequest) ([]GroupOffset, error)
	Close()
}
