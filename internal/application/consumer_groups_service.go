package application

import (
	"context"
	"sort"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
)

// ConsumerGroupsService handles consumer group operations.
type ConsumerGroupsService struct {
	clusterService *ClusterService
	run            *runner
}

// NewConsumerGroupsService creates a new consumer groups service.
func NewConsumerGroupsService(clusterService *ClusterService) *ConsumerGroupsService {
	return &ConsumerGroupsService{
		clusterService: clusterService,
		run:            clusterService.getRunner(),
	}
}

// ListConsumerGroups returns the consumer groups of a cluster sorted by id.
func (s *ConsumerGroupsService) ListConsumerGroups(ctx context.Context, cluster string) ([]domain.ConsumerGroupInfo, error) {
	cfg, err := s.run.resolve(cluster, "list_consumer_groups")
	if err != nil {
		return nil, err
	}
	groups, err := call(ctx, s.run, cfg.Name, "list_consumer_groups", func(ctx context.Context, c domain.AdminClient) ([]domain.ConsumerGroupInfo, error) {
		return c.ListConsumerGroups(ctx)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.ConsumerGroupInfo, 0, len(groups))
	for _, g := range groups {
		g.Cluster = cfg.Name
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupID < out[j].GroupID })
	return out, nil
}

// DescribeConsumerGroup returns members, assignments and committed offsets of a group.
func (s *ConsumerGroupsService) DescribeConsumerGroup(ctx context.Context, cluster, group string) (*domain.ConsumerGroupDetail, error) {
	if group == "" {
		return nil, invalid(cluster, "describe_consumer_group", ErrInvalidGroupID)
	}
	cfg, err := s.run.resolve(cluster, "describe_consumer_group")
	if err != nil {
		return nil, err
	}
	detail, err := call(ctx, s.run, cfg.Name, "describe_consumer_group", func(ctx context.Context, c domain.AdminClient) (*domain.ConsumerGroupDetail, error) {
		return c.DescribeConsumerGroup(ctx, group)
	})
	if err != nil {
		return nil, err
	}
	detail.Cluster = cfg.Name
	return detail, nil
}

// ResetOffsets moves the committed offsets of group on one topic and returns
// the offsets now committed.
func (s *ConsumerGroupsService) ResetOffsets(ctx context.Context, cluster, group string, req domain.ResetOffsetsRequest) ([]domain.GroupOffset, error) {
	if group == "" {
		return nil, invalid(cluster, "reset_offsets", ErrInvalidGroupID)
	}
	if err := validateTopicName(req.Topic); err != nil {
		return nil, invalid(cluster, "reset_offsets", err)
	}
	switch req.Strategy {
	case domain.ResetEarliest, domain.ResetLatest:
	case domain.ResetToOffset:
		if req.Offset < 0 {
			return nil, invalid(cluster, "reset_offsets", ErrInvalidOffset)
		}
	default:
		return nil, invalid(cluster, "reset_offsets", ErrInvalidResetStrategy)
	}
	cfg, err := s.run.resolve(cluster, "reset_offsets")
	if err != nil {
		return nil, err
	}
	if err := guard(cfg, "reset_offsets"); err != nil {
		return nil, err
	}

	offsets, err := call(ctx, s.run, cfg.Name, "reset_offsets", func(ctx context.Context, c domain.AdminClient) ([]domain.GroupOffset, error) {
		return c.ResetConsumerGroupOffsets(ctx, group, req)
	})
	if err != nil {
		return nil, err
	}
	if offsets == nil {
		offsets = []domain.GroupOffset{}
	}
	utils.Logger.Info("consumer group offsets reset", "cluster", cfg.Name, "group", group, "topic", req.Topic, "strategy", req.Strategy)
	return offsets, nil
}
