package analytics

import (
	"testing"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func part(topic string, id, leader int32, replicas, isr []int32) domain.PartitionInfo {
	return domain.PartitionInfo{Topic: topic, Partition: id, Leader: leader, Replicas: replicas, ISR: isr}
}

func TestPartitionHealth(t *testing.T) {
	ps := []domain.PartitionInfo{
		part("orders", 0, 1, []int32{1, 2, 3}, []int32{1, 2, 3}),
		part("orders", 1, 2, []int32{2, 3, 1}, []int32{2, 3}),
		part("payments", 0, 3, []int32{3, 1, 2}, []int32{3, 1, 2}),
	}

	r := PartitionHealth("dev", ps, at)
	require.Equal(t, "dev", r.Cluster)
	require.Equal(t, 3, r.TotalPartitions)
	require.Equal(t, 2, r.HealthyPartitions)
	require.Equal(t, 1, r.UnhealthyPartitions)
	require.Equal(t, 66.67, r.HealthPercentage)
	require.Equal(t, at, r.CapturedAt)
}

func TestPartitionHealth_ErrorMakesUnhealthy(t *testing.T) {
	p := part("orders", 0, 1, []int32{1}, []int32{1})
	p.Error = "LEADER_NOT_AVAILABLE"

	r := PartitionHealth("dev", []domain.PartitionInfo{p}, at)
	require.Equal(t, 0, r.HealthyPartitions)
	require.Equal(t, 1, r.UnhealthyPartitions)
	require.Equal(t, 0.0, r.HealthPercentage)
}

func TestPartitionHealth_Empty(t *testing.T) {
	r := PartitionHealth("dev", nil, at)
	require.Equal(t, 0, r.TotalPartitions)
	require.Equal(t, 100.0, r.HealthPercentage)
}

func TestPartitionHealth_CountsAddUp(t *testing.T) {
	var ps []domain.PartitionInfo
	for i := int32(0); i < 7; i++ {
		isr := []int32{1, 2}
		if i%3 == 0 {
			isr = []int32{1}
		}
		ps = append(ps, part("t", i, 1, []int32{1, 2}, isr))
	}
	r := PartitionHealth("dev", ps, at)
	require.Equal(t, r.TotalPartitions, r.HealthyPartitions+r.UnhealthyPartitions)
	require.GreaterOrEqual(t, r.HealthPercentage, 0.0)
	require.LessOrEqual(t, r.HealthPercentage, 100.0)
}

func TestClusterHealth(t *testing.T) {
	meta := &domain.ClusterMetadata{
		ClusterID:    "abc",
		ControllerID: 1,
		Brokers:      []domain.BrokerInfo{{ID: 1}, {ID: 2}},
		Topics: []domain.TopicMetadata{
			{Name: "orders", Partitions: []domain.PartitionInfo{part("orders", 0, 1, []int32{1, 2}, []int32{1})}},
			{Name: "__consumer_offsets", Internal: true, Partitions: []domain.PartitionInfo{part("__consumer_offsets", 0, 1, []int32{1, 2}, []int32{1, 2})}},
		},
	}

	r := ClusterHealth("dev", meta, at)
	require.Equal(t, HealthStatusDegraded, r.Status)
	require.Equal(t, 1, r.TotalPartitions)
	require.Equal(t, 1, r.TopicCount)
	require.Equal(t, 2, r.BrokerCount)
	require.Equal(t, "abc", r.ClusterID)
	require.Equal(t, int32(1), r.ControllerID)

	meta.Topics[0].Partitions[0].ISR = []int32{1, 2}
	require.Equal(t, HealthStatusHealthy, ClusterHealth("dev", meta, at).Status)
}
