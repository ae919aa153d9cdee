// Package domain defines the entities shared by the lookout service: cluster and
// topic snapshots, consumer group views, and the admin client abstractions the
// repository and services are written against.
package domain

import (
	"sort"

	"github.com/OliveiraNt/maned-lookout/internal/config"
)

// NoLeader is the leader id reported for partitions without an elected leader.
const NoLeader int32 = -1

// BrokerInfo describes one broker from a metadata snapshot.
type BrokerInfo struct {
	ID           int32  `json:"broker_id"`
	Host         string `json:"host"`
	Port         int32  `json:"port"`
	Rack         string `json:"rack,omitempty"`
	IsController bool   `json:"is_controller"`
}

// TopicMetadata is one topic inside a ClusterMetadata snapshot.
type TopicMetadata struct {
	Name       string          `json:"name"`
	Internal   bool            `json:"internal"`
	Partitions []PartitionInfo `json:"partitions"`
	Error      string          `json:"error,omitempty"`
}

// ReplicationFactor returns the replica count of the topic's first partition.
func (t TopicMetadata) ReplicationFactor() int {
	if len(t.Partitions) == 0 {
		return 0
	}
	return len(t.Partitions[0].Replicas)
}

// ClusterMetadata is a point-in-time view of brokers, topics and partitions.
type ClusterMetadata struct {
	ClusterID    string          `json:"cluster_id"`
	ControllerID int32           `json:"controller_id"`
	Brokers      []BrokerInfo    `json:"brokers"`
	Topics       []TopicMetadata `json:"topics"`
}

// Broker looks up a broker by id.
func (m *ClusterMetadata) Broker(id int32) (BrokerInfo, bool) {
	for _, b := range m.Brokers {
		if b.ID == id {
			return b, true
		}
	}
	return BrokerInfo{}, false
}

// Topic looks up a topic by name.
func (m *ClusterMetadata) Topic(name string) (TopicMetadata, bool) {
	for _, t := range m.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return TopicMetadata{}, false
}

// UserTopics returns the non-internal topics sorted by name.
func (m *ClusterMetadata) UserTopics() []TopicMetadata {
	out := make([]TopicMetadata, 0, len(m.Topics))
	for _, t := range m.Topics {
		if !t.Internal {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Partitions flattens partitions of non-internal topics ordered by topic then partition.
func (m *ClusterMetadata) Partitions() []PartitionInfo {
	var out []PartitionInfo
	for _, t := range m.UserTopics() {
		out = append(out, t.Partitions...)
	}
	SortPartitions(out)
	return out
}

// ClusterSummary is one entry of the cluster listing.
type ClusterSummary struct {
	Name             string                  `json:"name"`
	BootstrapServers []string                `json:"bootstrap_servers"`
	SecurityProtocol string                  `json:"security_protocol"`
	AuthType         string                  `json:"auth_type"`
	ReadOnly         bool                    `json:"read_only"`
	Default          bool                    `json:"default"`
	Status           string                  `json:"status"`
	Error            string                  `json:"error,omitempty"`
	TopicsCount      int                     `json:"topics_count"`
	BrokersCount     int                     `json:"brokers_count"`
	Certificate      *config.CertificateInfo `json:"certificate,omitempty"`
}

// Cluster status values used in summaries.
const (
	StatusHealthy = "healthy"
	StatusError   = "error"
)

// ClusterOverview is the aggregated metadata view of a single cluster.
type ClusterOverview struct {
	ClusterName      string          `json:"cluster_name"`
	BootstrapServers []string        `json:"bootstrap_servers"`
	ReadOnly         bool            `json:"read_only"`
	ClusterID        string          `json:"cluster_id"`
	ControllerID     int32           `json:"controller_id"`
	Brokers          BrokerTotals    `json:"brokers"`
	Topics           TopicTotals     `json:"topics"`
	Security         SecuritySummary `json:"security"`
}

// BrokerTotals summarizes brokers of a cluster.
type BrokerTotals struct {
	Count int     `json:"count"`
	IDs   []int32 `json:"ids"`
}

// TopicTotals summarizes topics of a cluster.
type TopicTotals struct {
	Total           int `json:"total"`
	UserTopics      int `json:"user_topics"`
	InternalTopics  int `json:"internal_topics"`
	TotalPartitions int `json:"total_partitions"`
}

// SecuritySummary describes how the service authenticates to a cluster.
type SecuritySummary struct {
	Protocol              string `json:"protocol"`
	SASLMechanism         string `json:"sasl_mechanism,omitempty"`
	AuthenticationEnabled bool   `json:"authentication_enabled"`
}
