// Package testutil provides in-memory doubles for the admin client and
// client factory abstractions.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
)

// FakeAdminClient is a test double implementing domain.AdminClient with configurable responses.
type FakeAdminClient struct {
	mu           sync.Mutex
	Meta         *domain.ClusterMetadata
	Configs      map[string]map[string]string
	Groups       []domain.ConsumerGroupInfo
	GroupDetails map[string]*domain.ConsumerGroupDetail
	ResetResult  []domain.GroupOffset
	Err          error
	// Delay makes every call block for the duration or until ctx is done.
	Delay time.Duration

	calls     atomic.Int64
	closed    atomic.Bool
	mutations []string
}

// NewFakeAdminClient returns a client reporting a single broker and no topics.
func NewFakeAdminClient() *FakeAdminClient {
	return &FakeAdminClient{
		Meta: &domain.ClusterMetadata{
			ClusterID:    "fake-cluster",
			ControllerID: 1,
			Brokers:      []domain.BrokerInfo{{ID: 1, Host: "localhost", Port: 9092, IsController: true}},
		},
		Configs:      map[string]map[string]string{},
		GroupDetails: map[string]*domain.ConsumerGroupDetail{},
	}
}

// Calls returns how many admin calls reached the client.
func (f *FakeAdminClient) Calls() int64 { return f.calls.Load() }

// Closed reports whether Close was called.
func (f *FakeAdminClient) Closed() bool { return f.closed.Load() }

// Mutations returns the recorded mutating calls, e.g. "delete_topic:orders".
func (f *FakeAdminClient) Mutations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.mutations...)
}

// SetErr changes the error returned by later calls.
func (f *FakeAdminClient) SetErr(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

// SetDelay changes the delay of later calls.
func (f *FakeAdminClient) SetDelay(d time.Duration) {
	f.mu.Lock()
	f.Delay = d
	f.mu.Unlock()
}

func (f *FakeAdminClient) enter(ctx context.Context) error {
	f.calls.Add(1)
	f.mu.Lock()
	delay, err := f.Delay, f.Err
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *FakeAdminClient) record(m string) {
	f.mu.Lock()
	f.mutations = append(f.mutations, m)
	f.mu.Unlock()
}

func (f *FakeAdminClient) Metadata(ctx context.Context, topics ...string) (*domain.ClusterMetadata, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	if f.Meta == nil {
		return &domain.ClusterMetadata{}, nil
	}
	out := *f.Meta
	if len(topics) == 0 {
		return &out, nil
	}
	out.Topics = nil
	for _, name := range topics {
		t, ok := f.Meta.Topic(name)
		if !ok {
			return nil, fmt.Errorf("topic %q: %w", name, domain.ErrNotFound)
		}
		out.Topics = append(out.Topics, t)
	}
	return &out, nil
}

func (f *FakeAdminClient) DescribeTopicConfigs(ctx context.Context, topic string) (map[string]string, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	return f.Configs[topic], nil
}

func (f *FakeAdminClient) ListConsumerGroups(ctx context.Context) ([]domain.ConsumerGroupInfo, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	return append([]domain.ConsumerGroupInfo(nil), f.Groups...), nil
}

func (f *FakeAdminClient) DescribeConsumerGroup(ctx context.Context, group string) (*domain.ConsumerGroupDetail, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	d, ok := f.GroupDetails[group]
	if !ok {
		return nil, fmt.Errorf("consumer group %q: %w", group, domain.ErrNotFound)
	}
	out := *d
	return &out, nil
}

func (f *FakeAdminClient) CreateTopic(ctx context.Context, req domain.CreateTopicRequest) error {
	if err := f.enter(ctx); err != nil {
		return err
	}
	f.record("create_topic:" + req.Name)
	return nil
}

func (f *FakeAdminClient) DeleteTopic(ctx context.Context, topic string) error {
	if err := f.enter(ctx); err != nil {
		return err
	}
	f.record("delete_topic:" + topic)
	return nil
}

func (f *FakeAdminClient) UpdateTopicConfig(ctx context.Context, topic string, _ domain.UpdateTopicConfigRequest) error {
	if err := f.enter(ctx); err != nil {
		return err
	}
	f.record("update_topic_config:" + topic)
	return nil
}

func (f *FakeAdminClient) IncreasePartitions(ctx context.Context, topic string, _ domain.IncreasePartitionsRequest) error {
	if err := f.enter(ctx); err != nil {
		return err
	}
	f.record("increase_partitions:" + topic)
	return nil
}

func (f *FakeAdminClient) ResetConsumerGroupOffsets(ctx context.Context, group string, req domain.ResetOffsetsRequest) ([]domain.GroupOffset, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	f.record("reset_offsets:" + group + ":" + req.Topic)
	return f.ResetResult, nil
}

func (f *FakeAdminClient) Close() { f.closed.Store(true) }

// FakeFactory hands out fake clients and counts constructions per cluster.
type FakeFactory struct {
	mu sync.Mutex
	// Clients maps cluster name to the client to return. Missing names get a
	// fresh FakeAdminClient on every construction.
	Clients map[string]*FakeAdminClient
	Err     error
	// Delay slows construction down, bounded by ctx.
	Delay time.Duration

	created map[string]int
	total   atomic.Int64
}

// NewFakeFactory returns an empty factory.
func NewFakeFactory() *FakeFactory {
	return &FakeFactory{Clients: map[string]*FakeAdminClient{}, created: map[string]int{}}
}

// Created returns how many clients were constructed for name.
func (f *FakeFactory) Created(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[name]
}

// Total returns how many constructions were attempted.
func (f *FakeFactory) Total() int64 { return f.total.Load() }

// SetClient registers the client returned for name.
func (f *FakeFactory) SetClient(name string, c *FakeAdminClient) {
	f.mu.Lock()
	f.Clients[name] = c
	f.mu.Unlock()
}

func (f *FakeFactory) CreateClient(ctx context.Context, cfg config.ClusterConfig) (domain.AdminClient, error) {
	f.total.Add(1)
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrConnection, ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.created[cfg.Name]++
	if c, ok := f.Clients[cfg.Name]; ok {
		return c, nil
	}
	return NewFakeAdminClient(), nil
}

// Clusters builds a validated cluster set for tests; it panics on invalid input.
func Clusters(defaultName string, list ...config.ClusterConfig) *config.Clusters {
	for i := range list {
		if len(list[i].Brokers) == 0 {
			list[i].Brokers = []string{list[i].Name + ":9092"}
		}
	}
	c, err := config.NewClusters(list, defaultName)
	if err != nil {
		panic(err)
	}
	return c
}
