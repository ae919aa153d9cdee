package domain

import (
	"sort"
	"strings"
)

// InternalTopicPrefix marks topics owned by Kafka itself.
const InternalTopicPrefix = "__"

// IsInternalTopic reports whether a topic is internal, either flagged by the
// broker or named with the reserved prefix.
func IsInternalTopic(name string, flagged bool) bool {
	return flagged || strings.HasPrefix(name, InternalTopicPrefix)
}

// PartitionInfo is the state of one partition.
type PartitionInfo struct {
	Topic     string  `json:"topic"`
	Partition int32   `json:"partition_id"`
	Leader    int32   `json:"leader"`
	Replicas  []int32 `json:"replicas"`
	ISR       []int32 `json:"in_sync_replicas"`
	Error     string  `json:"error,omitempty"`
}

// Healthy reports whether every replica is in sync and no error is attached.
func (p PartitionInfo) Healthy() bool {
	return p.Error == "" && len(p.ISR) == len(p.Replicas)
}

// InSync reports whether broker id is in the partition ISR.
func (p PartitionInfo) InSync(id int32) bool {
	for _, r := range p.ISR {
		if r == id {
			return true
		}
	}
	return false
}

// SortPartitions orders partitions by topic then partition id.
func SortPartitions(ps []PartitionInfo) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Topic != ps[j].Topic {
			return ps[i].Topic < ps[j].Topic
		}
		return ps[i].Partition < ps[j].Partition
	})
}

// TopicInfo is one entry of a topic listing.
type TopicInfo struct {
	Name              string `json:"name"`
	Partitions        int    `json:"partitions"`
	ReplicationFactor int    `json:"replication_factor"`
	Internal          bool   `json:"internal"`
	Cluster           string `json:"cluster"`
}

// TopicDetail describes a topic with its partitions and configuration.
type TopicDetail struct {
	Cluster           string            `json:"cluster"`
	Name              string            `json:"name"`
	Internal          bool              `json:"internal"`
	PartitionCount    int               `json:"partition_count"`
	ReplicationFactor int               `json:"replication_factor"`
	Partitions        []PartitionInfo   `json:"partitions"`
	Configs           map[string]string `json:"configurations"`
}

// CreateTopicRequest holds the parameters of a topic creation.
type CreateTopicRequest struct {
	Name              string            `json:"name"`
	NumPartitions     int32             `json:"num_partitions"`
	ReplicationFactor int16             `json:"replication_factor"`
	Configs           map[string]string `json:"configs,omitempty"`
}

// UpdateTopicConfigRequest holds topic configuration overrides to set.
type UpdateTopicConfigRequest struct {
	Configs map[string]string `json:"configs"`
}

// IncreasePartitionsRequest holds the desired total partition count.
type IncreasePartitionsRequest struct {
	TotalPartitions int `json:"total_partitions"`
}
