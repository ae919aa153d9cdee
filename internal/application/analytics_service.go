package application

import (
	"context"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/analytics"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService derives health and diagnostic reports from one metadata
// snapshot per call.
type AnalyticsService struct {
	clusterService *ClusterService
	topics         *TopicService
	run            *runner
	now            func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(clusterService *ClusterService) *AnalyticsService {
	return &AnalyticsService{
		clusterService: clusterService,
		topics:         NewTopicService(clusterService),
		run:            clusterService.getRunner(),
		now:            time.Now,
	}
}

func (s *AnalyticsService) snapshot(ctx context.Context, cluster, op string) (string, *domain.ClusterMetadata, error) {
	cfg, err := s.run.resolve(cluster, op)
	if err != nil {
		return "", nil, err
	}
	meta, err := metadata(ctx, s.run, cfg.Name, op)
	if err != nil {
		return "", nil, err
	}
	return cfg.Name, meta, nil
}

// ClusterHealth reports partition health over the user topics of a cluster.
func (s *AnalyticsService) ClusterHealth(ctx context.Context, cluster string) (*analytics.ClusterHealthReport, error) {
	name, meta, err := s.snapshot(ctx, cluster, "cluster_health")
	if err != nil {
		return nil, err
	}
	report := analytics.ClusterHealth(name, meta, s.now().UTC())
	return &report, nil
}

// LeaderDistribution reports partition leadership per broker.
func (s *AnalyticsService) LeaderDistribution(ctx context.Context, cluster string) (*analytics.LeaderReport, error) {
	name, meta, err := s.snapshot(ctx, cluster, "leader_distribution")
	if err != nil {
		return nil, err
	}
	report := analytics.LeaderDistribution(name, meta.Partitions(), meta.Brokers)
	return &report, nil
}

// UnderReplicated lists partitions whose ISR is smaller than their replica set.
func (s *AnalyticsService) UnderReplicated(ctx context.Context, cluster string) (*analytics.UnderReplicatedReport, error) {
	name, meta, err := s.snapshot(ctx, cluster, "under_replicated")
	if err != nil {
		return nil, err
	}
	report := analytics.UnderReplicated(name, meta.Partitions())
	return &report, nil
}

// BrokerLoad reports leader, replica and topic counts per broker.
func (s *AnalyticsService) BrokerLoad(ctx context.Context, cluster string) ([]analytics.BrokerLoadEntry, error) {
	_, meta, err := s.snapshot(ctx, cluster, "broker_load")
	if err != nil {
		return nil, err
	}
	return analytics.BrokerLoad(meta.Partitions(), meta.Brokers), nil
}

// TopicPartitionDetails reports per-partition placement and health of one topic.
func (s *AnalyticsService) TopicPartitionDetails(ctx context.Context, cluster, topic string) (*analytics.TopicPartitionReport, error) {
	if err := validateTopicName(topic); err != nil {
		return nil, invalid(cluster, "topic_partition_details", err)
	}
	cfg, err := s.run.resolve(cluster, "topic_partition_details")
	if err != nil {
		return nil, err
	}
	meta, err := metadata(ctx, s.run, cfg.Name, "topic_partition_details", topic)
	if err != nil {
		return nil, err
	}
	t, ok := meta.Topic(topic)
	if !ok {
		return nil, &domain.OpError{Cluster: cfg.Name, Op: "topic_partition_details", Err: domain.ErrNotFound}
	}
	report := analytics.TopicPartitionDetails(cfg.Name, topic, t.Partitions, meta.Brokers)
	return &report, nil
}

// CompareClusterTopics diffs the user topics of two clusters, fetched concurrently.
func (s *AnalyticsService) CompareClusterTopics(ctx context.Context, source, target string) (*analytics.TopicComparison, error) {
	src, err := s.run.resolve(source, "compare_cluster_topics")
	if err != nil {
		return nil, err
	}
	tgt, err := s.run.resolve(target, "compare_cluster_topics")
	if err != nil {
		return nil, err
	}

	var srcTopics, tgtTopics []domain.TopicInfo
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		srcTopics, err = s.topics.ListTopics(gctx, src.Name, false)
		return err
	})
	g.Go(func() error {
		var err error
		tgtTopics, err = s.topics.ListTopics(gctx, tgt.Name, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := analytics.CompareTopics(src.Name, tgt.Name, srcTopics, tgtTopics)
	return &cmp, nil
}
