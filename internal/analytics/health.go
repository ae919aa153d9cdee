// Package analytics derives health and diagnostic views from metadata
// snapshots. Every function here is pure: no I/O, no shared state.
package analytics

import (
	"math"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
)

// Cluster health status values.
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// HealthReport counts healthy and unhealthy partitions.
type HealthReport struct {
	Cluster             string    `json:"cluster"`
	TotalPartitions     int       `json:"total_partitions"`
	HealthyPartitions   int       `json:"healthy_partition_count"`
	UnhealthyPartitions int       `json:"unhealthy_partition_count"`
	HealthPercentage    float64   `json:"health_percentage"`
	CapturedAt          time.Time `json:"captured_at"`
}

// ClusterHealthReport is a HealthReport with cluster-wide counts.
type ClusterHealthReport struct {
	HealthReport
	Status       string `json:"health_status"`
	ClusterID    string `json:"cluster_id"`
	ControllerID int32  `json:"controller_id"`
	BrokerCount  int    `json:"broker_count"`
	TopicCount   int    `json:"topic_count"`
}

// PartitionHealth classifies partitions. A partition is healthy when its ISR
// covers every replica and it reports no error. With no partitions the
// report is 100% healthy.
func PartitionHealth(cluster string, partitions []domain.PartitionInfo, capturedAt time.Time) HealthReport {
	healthy, unhealthy := tally(partitions)
	return HealthReport{
		Cluster:             cluster,
		TotalPartitions:     len(partitions),
		HealthyPartitions:   healthy,
		UnhealthyPartitions: unhealthy,
		HealthPercentage:    percentage(healthy, len(partitions)),
		CapturedAt:          capturedAt,
	}
}

// ClusterHealth reports health over the user topics of a metadata snapshot.
func ClusterHealth(cluster string, meta *domain.ClusterMetadata, capturedAt time.Time) ClusterHealthReport {
	report := ClusterHealthReport{
		HealthReport: PartitionHealth(cluster, meta.Partitions(), capturedAt),
		ClusterID:    meta.ClusterID,
		ControllerID: meta.ControllerID,
		BrokerCount:  len(meta.Brokers),
		TopicCount:   len(meta.UserTopics()),
	}
	report.Status = HealthStatusHealthy
	if report.UnhealthyPartitions > 0 {
		report.Status = HealthStatusDegraded
	}
	return report
}

func tally(partitions []domain.PartitionInfo) (healthy, unhealthy int) {
	for _, p := range partitions {
		if p.Healthy() {
			healthy++
		} else {
			unhealthy++
		}
	}
	return healthy, unhealthy
}

// percentage returns part/total*100 rounded to two decimals, 100 when total is 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
