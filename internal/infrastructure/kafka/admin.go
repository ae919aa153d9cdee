package kafka

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/twmb/franz-go/pkg/kadm"
)

// Consumer group states reported by the broker.
const (
	groupStateDead  = "Dead"
	groupStateEmpty = "Empty"
)

// Admin maps kadm responses onto domain snapshots.
type Admin struct {
	client *kadm.Client
}

// NewAdmin creates a new Admin
func NewAdmin(client *kadm.Client) *Admin {
	return &Admin{client: client}
}

// Metadata returns brokers and topics. Named topics that do not exist yield domain.ErrNotFound.
func (a *Admin) Metadata(ctx context.Context, topics ...string) (*domain.ClusterMetadata, error) {
	meta, err := a.client.Metadata(ctx, topics...)
	if err != nil {
		return nil, classify(err)
	}

	out := &domain.ClusterMetadata{
		ClusterID:    meta.Cluster,
		ControllerID: meta.Controller,
		Brokers:      make([]domain.BrokerInfo, 0, len(meta.Brokers)),
		Topics:       make([]domain.TopicMetadata, 0, len(meta.Topics)),
	}

	for _, b := range meta.Brokers {
		rack := ""
		if b.Rack != nil {
			rack = *b.Rack
		}
		out.Brokers = append(out.Brokers, domain.BrokerInfo{
			ID:           b.NodeID,
			Host:         b.Host,
			Port:         b.Port,
			Rack:         rack,
			IsController: b.NodeID == meta.Controller,
		})
	}
	sort.Slice(out.Brokers, func(i, j int) bool { return out.Brokers[i].ID < out.Brokers[j].ID })

	for name, td := range meta.Topics {
		if td.Err != nil && len(topics) > 0 {
			if err := classify(td.Err); isNotFound(err) {
				return nil, fmt.Errorf("topic %q: %w", name, err)
			}
		}
		out.Topics = append(out.Topics, toTopicMetadata(name, td))
	}
	sort.Slice(out.Topics, func(i, j int) bool { return out.Topics[i].Name < out.Topics[j].Name })

	return out, nil
}

func toTopicMetadata(name string, td kadm.TopicDetail) domain.TopicMetadata {
	tm := domain.TopicMetadata{
		Name:       name,
		Internal:   domain.IsInternalTopic(name, td.IsInternal),
		Partitions: make([]domain.PartitionInfo, 0, len(td.Partitions)),
	}
	if td.Err != nil {
		tm.Error = td.Err.Error()
	}
	for _, p := range td.Partitions {
		pi := domain.PartitionInfo{
			Topic:     name,
			Partition: p.Partition,
			Leader:    p.Leader,
			Replicas:  append([]int32(nil), p.Replicas...),
			ISR:       append([]int32(nil), p.ISR...),
		}
		if p.Err != nil {
			pi.Error = p.Err.Error()
		}
		tm.Partitions = append(tm.Partitions, pi)
	}
	sort.Slice(tm.Partitions, func(i, j int) bool { return tm.Partitions[i].Partition < tm.Partitions[j].Partition })
	return tm
}

// DescribeTopicConfigs returns the configuration entries that carry a value.
func (a *Admin) DescribeTopicConfigs(ctx context.Context, topic string) (map[string]string, error) {
	res, err := a.client.DescribeTopicConfigs(ctx, topic)
	if err != nil {
		return nil, classify(err)
	}

	configs := make(map[string]string)
	for _, rc := range res {
		if rc.Err != nil {
			return nil, classify(rc.Err)
		}
		for _, c := range rc.Configs {
			if c.Value != nil {
				configs[c.Key] = *c.Value
			}
		}
	}
	return configs, nil
}

// ListConsumerGroups returns groups sorted by id.
func (a *Admin) ListConsumerGroups(ctx context.Context) ([]domain.ConsumerGroupInfo, error) {
	groups, err := a.client.ListGroups(ctx)
	if err != nil {
		return nil, classify(err)
	}

	result := make([]domain.ConsumerGroupInfo, 0, len(groups))
	for id, g := range groups {
		result = append(result, domain.ConsumerGroupInfo{
			GroupID:      id,
			State:        g.State,
			ProtocolType: g.ProtocolType,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].GroupID < result[j].GroupID })
	return result, nil
}

// DescribeConsumerGroup returns state, members and committed offsets with lag.
func (a *Admin) DescribeConsumerGroup(ctx context.Context, group string) (*domain.ConsumerGroupDetail, error) {
	described, err := a.describeGroup(ctx, group)
	if err != nil {
		return nil, err
	}

	detail := &domain.ConsumerGroupDetail{
		GroupID:      described.Group,
		State:        described.State,
		ProtocolType: described.ProtocolType,
		Protocol:     described.Protocol,
		Coordinator: domain.Coordinator{
			ID:   described.Coordinator.NodeID,
			Host: described.Coordinator.Host,
			Port: described.Coordinator.Port,
		},
		MemberCount: len(described.Members),
		Members:     make([]domain.GroupMember, 0, len(described.Members)),
	}

	for _, m := range described.Members {
		member := domain.GroupMember{
			MemberID:   m.MemberID,
			ClientID:   m.ClientID,
			ClientHost: m.ClientHost,
		}
		if assigned, ok := m.Assigned.AsConsumer(); ok {
			for _, t := range assigned.Topics {
				member.Assignments = append(member.Assignments, domain.TopicAssignment{
					Topic:      t.Topic,
					Partitions: append([]int32(nil), t.Partitions...),
				})
			}
		}
		detail.Members = append(detail.Members, member)
	}
	sort.Slice(detail.Members, func(i, j int) bool { return detail.Members[i].MemberID < detail.Members[j].MemberID })

	offsets, err := a.groupOffsets(ctx, group)
	if err != nil {
		return nil, err
	}
	detail.Offsets = offsets
	for _, o := range offsets {
		detail.TotalLag += o.Lag
	}

	return detail, nil
}

func (a *Admin) describeGroup(ctx context.Context, group string) (kadm.DescribedGroup, error) {
	groups, err := a.client.DescribeGroups(ctx, group)
	if err != nil {
		return kadm.DescribedGroup{}, classify(err)
	}
	described, ok := groups[group]
	if !ok {
		return kadm.DescribedGroup{}, fmt.Errorf("consumer group %q: %w", group, domain.ErrNotFound)
	}
	if described.Err != nil {
		return kadm.DescribedGroup{}, classify(described.Err)
	}
	if described.State == groupStateDead && len(described.Members) == 0 {
		return kadm.DescribedGroup{}, fmt.Errorf("consumer group %q: %w", group, domain.ErrNotFound)
	}
	return described, nil
}

func (a *Admin) groupOffsets(ctx context.Context, group string) ([]domain.GroupOffset, error) {
	committed, err := a.client.FetchOffsets(ctx, group)
	if err != nil {
		return nil, classify(err)
	}

	var topics []string
	for topic := range committed {
		topics = append(topics, topic)
	}
	var ends kadm.ListedOffsets
	if len(topics) > 0 {
		ends, err = a.client.ListEndOffsets(ctx, topics...)
		if err != nil {
			return nil, classify(err)
		}
	}

	var out []domain.GroupOffset
	for topic, partitions := range committed {
		for partition, resp := range partitions {
			if resp.Err != nil {
				continue
			}
			o := domain.GroupOffset{
				Topic:         topic,
				Partition:     partition,
				CurrentOffset: resp.At,
				LogEndOffset:  -1,
				Metadata:      resp.Metadata,
			}
			if end, ok := ends[topic][partition]; ok && end.Err == nil {
				o.LogEndOffset = end.Offset
				if resp.At >= 0 && end.Offset > resp.At {
					o.Lag = end.Offset - resp.At
				}
			}
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Topic != out[j].Topic {
			return out[i].Topic < out[j].Topic
		}
		return out[i].Partition < out[j].Partition
	})
	return out, nil
}

// CreateTopic creates a new topic with the specified configuration
func (a *Admin) CreateTopic(ctx context.Context, req domain.CreateTopicRequest) error {
	var configs map[string]*string
	if len(req.Configs) > 0 {
		configs = make(map[string]*string, len(req.Configs))
		for k, v := range req.Configs {
			v := v
			configs[k] = &v
		}
	}

	resp, err := a.client.CreateTopics(ctx, req.NumPartitions, req.ReplicationFactor, configs, req.Name)
	if err != nil {
		return classify(err)
	}
	for _, r := range resp {
		if r.Err != nil {
			return classify(r.Err)
		}
	}
	return nil
}

// DeleteTopic deletes a topic
func (a *Admin) DeleteTopic(ctx context.Context, topic string) error {
	resp, err := a.client.DeleteTopics(ctx, topic)
	if err != nil {
		return classify(err)
	}
	for _, r := range resp {
		if r.Err != nil {
			return classify(r.Err)
		}
	}
	return nil
}

// UpdateTopicConfig sets the given topic configuration keys
func (a *Admin) UpdateTopicConfig(ctx context.Context, topic string, req domain.UpdateTopicConfigRequest) error {
	configs := make([]kadm.AlterConfig, 0, len(req.Configs))
	for key, value := range req.Configs {
		v := value
		configs = append(configs, kadm.AlterConfig{
			Op:    kadm.SetConfig,
			Name:  key,
			Value: &v,
		})
	}

	resp, err := a.client.AlterTopicConfigs(ctx, configs, topic)
	if err != nil {
		return classify(err)
	}
	for _, r := range resp {
		if r.Err != nil {
			return classify(r.Err)
		}
	}
	return nil
}

// IncreasePartitions increases the number of partitions for a topic
func (a *Admin) IncreasePartitions(ctx context.Context, topic string, req domain.IncreasePartitionsRequest) error {
	resp, err := a.client.UpdatePartitions(ctx, req.TotalPartitions, topic)
	if err != nil {
		return classify(err)
	}
	for _, r := range resp {
		if r.Err != nil {
			return classify(r.Err)
		}
	}
	return nil
}

// ResetConsumerGroupOffsets commits offsets chosen by req.Strategy for one
// topic. The group must have no active members.
func (a *Admin) ResetConsumerGroupOffsets(ctx context.Context, group string, req domain.ResetOffsetsRequest) ([]domain.GroupOffset, error) {
	groups, err := a.client.DescribeGroups(ctx, group)
	if err != nil {
		return nil, classify(err)
	}
	if g, ok := groups[group]; ok && g.Err == nil && len(g.Members) > 0 &&
		g.State != groupStateEmpty && g.State != groupStateDead {
		return nil, fmt.Errorf("%w: %s is %s with %d members", domain.ErrGroupActive, group, g.State, len(g.Members))
	}

	meta, err := a.Metadata(ctx, req.Topic)
	if err != nil {
		return nil, err
	}
	topic, ok := meta.Topic(req.Topic)
	if !ok {
		return nil, fmt.Errorf("topic %q: %w", req.Topic, domain.ErrNotFound)
	}

	partitions, err := selectPartitions(topic, req.Partitions)
	if err != nil {
		return nil, err
	}

	var listed kadm.ListedOffsets
	switch req.Strategy {
	case domain.ResetEarliest:
		listed, err = a.client.ListStartOffsets(ctx, req.Topic)
	case domain.ResetLatest:
		listed, err = a.client.ListEndOffsets(ctx, req.Topic)
	case domain.ResetToOffset:
	default:
		return nil, fmt.Errorf("unknown reset strategy %q", req.Strategy)
	}
	if err != nil {
		return nil, classify(err)
	}

	offsets := kadm.Offsets{req.Topic: make(map[int32]kadm.Offset, len(partitions))}
	for _, p := range partitions {
		at := req.Offset
		if listed != nil {
			lo, ok := listed[req.Topic][p]
			if !ok {
				return nil, fmt.Errorf("no offset listed for %s/%d", req.Topic, p)
			}
			if lo.Err != nil {
				return nil, classify(lo.Err)
			}
			at = lo.Offset
		}
		offsets[req.Topic][p] = kadm.Offset{Topic: req.Topic, Partition: p, At: at, LeaderEpoch: -1}
	}

	resps, err := a.client.CommitOffsets(ctx, group, offsets)
	if err != nil {
		return nil, classify(err)
	}

	out := make([]domain.GroupOffset, 0, len(partitions))
	for _, p := range partitions {
		if r, ok := resps[req.Topic][p]; ok && r.Err != nil {
			return nil, classify(r.Err)
		}
		out = append(out, domain.GroupOffset{
			Topic:         req.Topic,
			Partition:     p,
			CurrentOffset: offsets[req.Topic][p].At,
		})
	}
	return out, nil
}

func selectPartitions(topic domain.TopicMetadata, requested []int32) ([]int32, error) {
	existing := make(map[int32]struct{}, len(topic.Partitions))
	all := make([]int32, 0, len(topic.Partitions))
	for _, p := range topic.Partitions {
		existing[p.Partition] = struct{}{}
		all = append(all, p.Partition)
	}
	if len(requested) == 0 {
		return all, nil
	}

	out := make([]int32, 0, len(requested))
	for _, p := range requested {
		if _, ok := existing[p]; !ok {
			return nil, fmt.Errorf("partition %d of topic %q: %w", p, topic.Name, domain.ErrNotFound)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
