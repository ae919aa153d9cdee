package application

import (
	"context"
	"regexp"
	"sort"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
)

const maxTopicNameLength = 249

var legalTopicName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// TopicService handles topic-related business operations.
type TopicService struct {
	clusterService *ClusterService
	run            *runner
}

// NewTopicService creates a new topic service.
func NewTopicService(clusterService *ClusterService) *TopicService {
	return &TopicService{
		clusterService: clusterService,
		run:            clusterService.getRunner(),
	}
}

// ListTopics returns the topics of a cluster sorted by name. Internal topics
// are left out unless includeInternal is set.
func (s *TopicService) ListTopics(ctx context.Context, cluster string, includeInternal bool) ([]domain.TopicInfo, error) {
	cfg, err := s.run.resolve(cluster, "list_topics")
	if err != nil {
		return nil, err
	}
	meta, err := metadata(ctx, s.run, cfg.Name, "list_topics")
	if err != nil {
		return nil, err
	}

	topics := make([]domain.TopicInfo, 0, len(meta.Topics))
	for _, t := range meta.Topics {
		internal := domain.IsInternalTopic(t.Name, t.Internal)
		if internal && !includeInternal {
			continue
		}
		topics = append(topics, domain.TopicInfo{
			Name:              t.Name,
			Partitions:        len(t.Partitions),
			ReplicationFactor: t.ReplicationFactor(),
			Internal:          internal,
			Cluster:           cfg.Name,
		})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}

// DescribeTopic returns partitions and configuration of one topic.
func (s *TopicService) DescribeTopic(ctx context.Context, cluster, topic string) (*domain.TopicDetail, error) {
	if err := validateTopicName(topic); err != nil {
		return nil, invalid(cluster, "describe_topic", err)
	}
	cfg, err := s.run.resolve(cluster, "describe_topic")
	if err != nil {
		return nil, err
	}

	return call(ctx, s.run, cfg.Name, "describe_topic", func(ctx context.Context, c domain.AdminClient) (*domain.TopicDetail, error) {
		meta, err := c.Metadata(ctx, topic)
		if err != nil {
			return nil, err
		}
		t, ok := meta.Topic(topic)
		if !ok {
			return nil, domain.ErrNotFound
		}
		configs, err := c.DescribeTopicConfigs(ctx, topic)
		if err != nil {
			return nil, err
		}
		if configs == nil {
			configs = map[string]string{}
		}
		partitions := append([]domain.PartitionInfo(nil), t.Partitions...)
		domain.SortPartitions(partitions)
		return &domain.TopicDetail{
			Cluster:           cfg.Name,
			Name:              t.Name,
			Internal:          domain.IsInternalTopic(t.Name, t.Internal),
			PartitionCount:    len(partitions),
			ReplicationFactor: t.ReplicationFactor(),
			Partitions:        partitions,
			Configs:           configs,
		}, nil
	})
}

// GetPartitions returns partitions ordered by topic then partition id: those
// of topic when it is set, otherwise those of every non-internal topic. An
// unknown topic yields an empty list.
func (s *TopicService) GetPartitions(ctx context.Context, cluster, topic string) ([]domain.PartitionInfo, error) {
	cfg, err := s.run.resolve(cluster, "get_partitions")
	if err != nil {
		return nil, err
	}
	meta, err := metadata(ctx, s.run, cfg.Name, "get_partitions")
	if err != nil {
		return nil, err
	}

	if topic == "" {
		partitions := meta.Partitions()
		if partitions == nil {
			partitions = []domain.PartitionInfo{}
		}
		return partitions, nil
	}
	t, ok := meta.Topic(topic)
	if !ok {
		return []domain.PartitionInfo{}, nil
	}
	partitions := append([]domain.PartitionInfo{}, t.Partitions...)
	domain.SortPartitions(partitions)
	return partitions, nil
}

// CreateTopic creates a new topic in the cluster.
func (s *TopicService) CreateTopic(ctx context.Context, cluster string, req domain.CreateTopicRequest) error {
	if err := validateTopicName(req.Name); err != nil {
		return invalid(cluster, "create_topic", err)
	}
	if req.NumPartitions <= 0 {
		return invalid(cluster, "create_topic", ErrInvalidPartitionCount)
	}
	if req.ReplicationFactor <= 0 {
		return invalid(cluster, "create_topic", ErrInvalidReplicationFactor)
	}
	cfg, err := s.run.resolve(cluster, "create_topic")
	if err != nil {
		return err
	}
	if err := guard(cfg, "create_topic"); err != nil {
		return err
	}

	_, err = call(ctx, s.run, cfg.Name, "create_topic", func(ctx context.Context, c domain.AdminClient) (struct{}, error) {
		return struct{}{}, c.CreateTopic(ctx, req)
	})
	if err != nil {
		return err
	}
	utils.Logger.Info("topic created", "cluster", cfg.Name, "topic", req.Name, "partitions", req.NumPartitions)
	return nil
}

// DeleteTopic removes a topic from the cluster.
func (s *TopicService) DeleteTopic(ctx context.Context, cluster, topic string) error {
	if err := validateTopicName(topic); err != nil {
		return invalid(cluster, "delete_topic", err)
	}
	cfg, err := s.run.resolve(cluster, "delete_topic")
	if err != nil {
		return err
	}
	if err := guard(cfg, "delete_topic"); err != nil {
		return err
	}

	_, err = call(ctx, s.run, cfg.Name, "delete_topic", func(ctx context.Context, c domain.AdminClient) (struct{}, error) {
		return struct{}{}, c.DeleteTopic(ctx, topic)
	})
	if err != nil {
		return err
	}
	utils.Logger.Info("topic deleted", "cluster", cfg.Name, "topic", topic)
	return nil
}

// UpdateTopicConfig sets configuration overrides on an existing topic.
func (s *TopicService) UpdateTopicConfig(ctx context.Context, cluster, topic string, req domain.UpdateTopicConfigRequest) error {
	if err := validateTopicName(topic); err != nil {
		return invalid(cluster, "update_topic_config", err)
	}
	if len(req.Configs) == 0 {
		return invalid(cluster, "update_topic_config", ErrInvalidTopicConfig)
	}
	for k := range req.Configs {
		if k == "" {
			return invalid(cluster, "update_topic_config", ErrInvalidTopicConfig)
		}
	}
	cfg, err := s.run.resolve(cluster, "update_topic_config")
	if err != nil {
		return err
	}
	if err := guard(cfg, "update_topic_config"); err != nil {
		return err
	}

	_, err = call(ctx, s.run, cfg.Name, "update_topic_config", func(ctx context.Context, c domain.AdminClient) (struct{}, error) {
		return struct{}{}, c.UpdateTopicConfig(ctx, topic, req)
	})
	if err != nil {
		return err
	}
	utils.Logger.Info("topic config updated", "cluster", cfg.Name, "topic", topic)
	return nil
}

// IncreasePartitions grows a topic to req.TotalPartitions partitions.
func (s *TopicService) IncreasePartitions(ctx context.Context, cluster, topic string, req domain.IncreasePartitionsRequest) error {
	if err := validateTopicName(topic); err != nil {
		return invalid(cluster, "increase_partitions", err)
	}
	if req.TotalPartitions <= 0 {
		return invalid(cluster, "increase_partitions", ErrInvalidPartitionCount)
	}
	cfg, err := s.run.resolve(cluster, "increase_partitions")
	if err != nil {
		return err
	}
	if err := guard(cfg, "increase_partitions"); err != nil {
		return err
	}

	_, err = call(ctx, s.run, cfg.Name, "increase_partitions", func(ctx context.Context, c domain.AdminClient) (struct{}, error) {
		return struct{}{}, c.IncreasePartitions(ctx, topic, req)
	})
	if err != nil {
		return err
	}
	utils.Logger.Info("topic partitions increased", "cluster", cfg.Name, "topic", topic, "partitions", req.TotalPartitions)
	return nil
}

func validateTopicName(name string) error {
	if name == "" || name == "." || name == ".." || len(name) > maxTopicNameLength || !legalTopicName.MatchString(name) {
		return ErrInvalidTopicName
	}
	return nil
}
