package analytics

import (
	"github.com/OliveiraNt/maned-lookout/internal/domain"
)

// UnderReplicatedPartition is a partition whose ISR is smaller than its replica set.
type UnderReplicatedPartition struct {
	Topic             string  `json:"topic"`
	Partition         int32   `json:"partition_id"`
	Leader            int32   `json:"leader"`
	Replicas          []int32 `json:"replicas"`
	ISR               []int32 `json:"in_sync_replicas"`
	MissingReplicas   int     `json:"missing_replicas"`
	ReplicationFactor int     `json:"replication_factor"`
}

// UnderReplicatedReport lists under-replicated partitions of a cluster.
type UnderReplicatedReport struct {
	Cluster    string                     `json:"cluster"`
	Count      int                        `json:"under_replicated_count"`
	Partitions []UnderReplicatedPartition `json:"partitions"`
}

// UnderReplicated selects partitions with |isr| < |replicas|, ordered by
// topic then partition.
func UnderReplicated(cluster string, partitions []domain.PartitionInfo) UnderReplicatedReport {
	sorted := append([]domain.PartitionInfo(nil), partitions...)
	domain.SortPartitions(sorted)

	out := make([]UnderReplicatedPartition, 0)
	for _, p := range sorted {
		missing := len(p.Replicas) - len(p.ISR)
		if missing <= 0 {
			continue
		}
		out = append(out, UnderReplicatedPartition{
			Topic:             p.Topic,
			Partition:         p.Partition,
			Leader:            p.Leader,
			Replicas:          p.Replicas,
			ISR:               p.ISR,
			MissingReplicas:   missing,
			ReplicationFactor: len(p.Replicas),
		})
	}
	return UnderReplicatedReport{Cluster: cluster, Count: len(out), Partitions: out}
}

// ReplicaDetail is one replica of a partition enriched with broker address.
type ReplicaDetail struct {
	BrokerID int32  `json:"broker_id"`
	Host     string `json:"host,omitempty"`
	Port     int32  `json:"port,omitempty"`
	InSync   bool   `json:"in_sync"`
}

// LeaderDetail is the leader of a partition.
type LeaderDetail struct {
	BrokerID int32  `json:"broker_id"`
	Host     string `json:"host,omitempty"`
	Port     int32  `json:"port,omitempty"`
}

// PartitionDetail describes one partition of a topic.
type PartitionDetail struct {
	Partition          int32           `json:"partition_id"`
	Leader             *LeaderDetail   `json:"leader"`
	Replicas           []ReplicaDetail `json:"replicas"`
	ReplicationFactor  int             `json:"replication_factor"`
	InSyncReplicaCount int             `json:"in_sync_replicas_count"`
	IsHealthy          bool            `json:"is_healthy"`
	Error              string          `json:"error,omitempty"`
}

// TopicHealth summarizes partition health of one topic.
type TopicHealth struct {
	HealthyPartitions   int     `json:"healthy_partitions"`
	UnhealthyPartitions int     `json:"unhealthy_partitions"`
	HealthPercentage    float64 `json:"health_percentage"`
}

// TopicPartitionReport is the per-partition view of a topic.
type TopicPartitionReport struct {
	Cluster        string            `json:"cluster"`
	Topic          string            `json:"topic"`
	PartitionCount int               `json:"partition_count"`
	Partitions     []PartitionDetail `json:"partitions"`
	Health         TopicHealth       `json:"health"`
}

// TopicPartitionDetails enriches a topic's partitions with broker addresses
// and computes its health.
func TopicPartitionDetails(cluster, topic string, partitions []domain.PartitionInfo, brokers []domain.BrokerInfo) TopicPartitionReport {
	byID := indexBrokers(brokers)
	sorted := append([]domain.PartitionInfo(nil), partitions...)
	domain.SortPartitions(sorted)

	details := make([]PartitionDetail, 0, len(sorted))
	for _, p := range sorted {
		d := PartitionDetail{
			Partition:          p.Partition,
			ReplicationFactor:  len(p.Replicas),
			InSyncReplicaCount: len(p.ISR),
			IsHealthy:          p.Healthy(),
			Error:              p.Error,
			Replicas:           make([]ReplicaDetail, 0, len(p.Replicas)),
		}
		if p.Leader != domain.NoLeader {
			b := byID[p.Leader]
			d.Leader = &LeaderDetail{BrokerID: p.Leader, Host: b.Host, Port: b.Port}
		}
		for _, r := range p.Replicas {
			b := byID[r]
			d.Replicas = append(d.Replicas, ReplicaDetail{BrokerID: r, Host: b.Host, Port: b.Port, InSync: p.InSync(r)})
		}
		details = append(details, d)
	}

	healthy, unhealthy := tally(sorted)
	return TopicPartitionReport{
		Cluster:        cluster,
		Topic:          topic,
		PartitionCount: len(details),
		Partitions:     details,
		Health: TopicHealth{
			HealthyPartitions:   healthy,
			UnhealthyPartitions: unhealthy,
			HealthPercentage:    percentage(healthy, len(sorted)),
		},
	}
}

func indexBrokers(brokers []domain.BrokerInfo) map[int32]domain.BrokerInfo {
	m := make(map[int32]domain.BrokerInfo, len(brokers))
	for _, b := range brokers {
		m[b.ID] = b
	}
	return m
}
