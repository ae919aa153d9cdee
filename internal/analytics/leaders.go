package analytics

import (
	"sort"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
)

// BrokerLeadership is the leadership share of one broker.
type BrokerLeadership struct {
	BrokerID       int32          `json:"broker_id"`
	Host           string         `json:"host,omitempty"`
	Port           int32          `json:"port,omitempty"`
	Rack           string         `json:"rack,omitempty"`
	PartitionCount int            `json:"partition_count"`
	ReplicaCount   int            `json:"replica_count"`
	Topics         map[string]int `json:"topics"`
}

// LeaderReport describes how partition leadership is spread across brokers.
type LeaderReport struct {
	Cluster              string             `json:"cluster"`
	TotalPartitions      int                `json:"total_partitions"`
	TotalBrokers         int                `json:"total_brokers"`
	LeaderlessPartitions int                `json:"leaderless_partitions"`
	Distribution         []BrokerLeadership `json:"leader_distribution"`
	BalanceRatio         float64            `json:"balance_ratio"`
}

// LeaderDistribution counts leaders and hosted replicas per broker.
// BalanceRatio is min/max leader count over brokers hosting at least one
// replica: 1 when there are no such brokers, 0 when none of them leads.
func LeaderDistribution(cluster string, partitions []domain.PartitionInfo, brokers []domain.BrokerInfo) LeaderReport {
	byID := indexBrokers(brokers)
	entries := make(map[int32]*BrokerLeadership)
	entry := func(id int32) *BrokerLeadership {
		e, ok := entries[id]
		if !ok {
			b := byID[id]
			e = &BrokerLeadership{BrokerID: id, Host: b.Host, Port: b.Port, Rack: b.Rack, Topics: map[string]int{}}
			entries[id] = e
		}
		return e
	}
	for _, b := range brokers {
		entry(b.ID)
	}

	hosting := make(map[int32]struct{})
	leaderless := 0
	for _, p := range partitions {
		for _, r := range p.Replicas {
			hosting[r] = struct{}{}
			entry(r).ReplicaCount++
		}
		if p.Leader == domain.NoLeader {
			leaderless++
			continue
		}
		e := entry(p.Leader)
		e.PartitionCount++
		e.Topics[p.Topic]++
	}

	dist := make([]BrokerLeadership, 0, len(entries))
	for _, e := range entries {
		dist = append(dist, *e)
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].BrokerID < dist[j].BrokerID })

	return LeaderReport{
		Cluster:              cluster,
		TotalPartitions:      len(partitions),
		TotalBrokers:         len(brokers),
		LeaderlessPartitions: leaderless,
		Distribution:         dist,
		BalanceRatio:         balanceRatio(entries, hosting),
	}
}

func balanceRatio(entries map[int32]*BrokerLeadership, hosting map[int32]struct{}) float64 {
	if len(hosting) == 0 {
		return 1.0
	}
	lo, hi := -1, 0
	for id := range hosting {
		n := entries[id].PartitionCount
		if lo < 0 || n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	if hi == 0 {
		return 0.0
	}
	return float64(lo) / float64(hi)
}

// BrokerLoadEntry is the partition load carried by one broker.
type BrokerLoadEntry struct {
	BrokerID     int32  `json:"broker_id"`
	Host         string `json:"host,omitempty"`
	Port         int32  `json:"port,omitempty"`
	Rack         string `json:"rack,omitempty"`
	LeaderCount  int    `json:"leader_count"`
	ReplicaCount int    `json:"replica_count"`
	TopicCount   int    `json:"topic_count"`
}

// BrokerLoad counts leaders, replicas and distinct topics per broker, ordered by broker id.
func BrokerLoad(partitions []domain.PartitionInfo, brokers []domain.BrokerInfo) []BrokerLoadEntry {
	report := LeaderDistribution("", partitions, brokers)

	topics := make(map[int32]map[string]struct{})
	for _, p := range partitions {
		for _, r := range p.Replicas {
			if topics[r] == nil {
				topics[r] = make(map[string]struct{})
			}
			topics[r][p.Topic] = struct{}{}
		}
	}

	out := make([]BrokerLoadEntry, 0, len(report.Distribution))
	for _, d := range report.Distribution {
		out = append(out, BrokerLoadEntry{
			BrokerID:     d.BrokerID,
			Host:         d.Host,
			Port:         d.Port,
			Rack:         d.Rack,
			LeaderCount:  d.PartitionCount,
			ReplicaCount: d.ReplicaCount,
			TopicCount:   len(topics[d.BrokerID]),
		})
	}
	return out
}
