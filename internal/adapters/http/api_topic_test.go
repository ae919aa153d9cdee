package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kerr"
)

func topicsClient() *testutil.FakeAdminClient {
	c := testutil.NewFakeAdminClient()
	c.Meta.Topics = []domain.TopicMetadata{
		{Name: "orders", Partitions: []domain.PartitionInfo{
			{Topic: "orders", Partition: 1, Leader: 1, Replicas: []int32{1}, ISR: []int32{1}},
			{Topic: "orders", Partition: 0, Leader: 1, Replicas: []int32{1}, ISR: []int32{1}},
		}},
		{Name: "__consumer_offsets", Internal: true, Partitions: []domain.PartitionInfo{
			{Topic: "__consumer_offsets", Leader: 1, Replicas: []int32{1}, ISR: []int32{1}},
		}},
	}
	c.Configs["orders"] = map[string]string{"cleanup.policy": "delete"}
	return c
}

func TestAPIListTopics(t *testing.T) {
	factory := testutil.NewFakeFactory()
	factory.SetClient("dev", topicsClient())
	s := buildServer(t, factory, config.ClusterConfig{Name: "dev"})

	rec := do(t, s, http.MethodGet, "/api/topics?cluster=dev", "")
	require.Equal(t, http.StatusOK, rec.Code)
	topics := decode[[]domain.TopicInfo](t, rec)
	require.Len(t, topics, 1)
	require.Equal(t, "orders", topics[0].Name)
	require.Equal(t, 2, topics[0].Partitions)

	rec = do(t, s, http.MethodGet, "/api/topics?cluster=dev&include_internal=true", "")
	require.Len(t, decode[[]domain.TopicInfo](t, rec), 2)
}

func TestAPIDescribeTopic(t *testing.T) {
	factory := testutil.NewFakeFactory()
	factory.SetClient("dev", topicsClient())
	s := buildServer(t, factory, config.ClusterConfig{Name: "dev"})

	rec := do(t, s, http.MethodGet, "/api/topics/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[domain.TopicDetail](t, rec)
	require.Equal(t, 2, detail.PartitionCount)
	require.Equal(t, int32(0), detail.Partitions[0].Partition)
	require.Equal(t, "delete", detail.Configs["cleanup.policy"])

	rec = do(t, s, http.MethodGet, "/api/topics/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIDescribeTopicHandlerDirect(t *testing.T) {
	factory := testutil.NewFakeFactory()
	factory.SetClient("dev", topicsClient())
	s := buildServer(t, factory, config.ClusterConfig{Name: "dev"})

	req := httptest.NewRequest(http.MethodGet, "/api/topics/orders?cluster=dev", nil)
	rec := httptest.NewRecorder()
	s.apiDescribeTopic(rec, req.WithContext(chiCtxWithParams(map[string]string{"topicName": "orders"}, req)))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIPartitions(t *testing.T) {
	factory := testutil.NewFakeFactory()
	factory.SetClient("dev", topicsClient())
	s := buildServer(t, factory, config.ClusterConfig{Name: "dev"})

	rec := do(t, s, http.MethodGet, "/api/partitions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]domain.PartitionInfo](t, rec), 2)

	rec = do(t, s, http.MethodGet, "/api/partitions?topic=ghost", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestAPITopicMutations(t *testing.T) {
	factory := testutil.NewFakeFactory()
	c := topicsClient()
	factory.SetClient("dev", c)
	s := buildServer(t, factory, config.ClusterConfig{Name: "dev"})

	rec := do(t, s, http.MethodPost, "/api/topics", `{"name":"payments","num_partitions":3,"replication_factor":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/topics/payments/config", `{"configs":{"retention.ms":"1000"}}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/topics/payments/partitions", `{"total_partitions":6}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/topics/payments", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Equal(t, []string{
		"create_topic:payments",
		"update_topic_config:payments",
		"increase_partitions:payments",
		"delete_topic:payments",
	}, c.Mutations())
}

func TestAPITopicBadRequests(t *testing.T) {
	s := buildServer(t, testutil.NewFakeFactory(), config.ClusterConfig{Name: "dev"})

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"malformed json", http.MethodPost, "/api/topics", `{`},
		{"unknown field", http.MethodPost, "/api/topics", `{"name":"t","partitions":1}`},
		{"invalid name", http.MethodPost, "/api/topics", `{"name":"a b","num_partitions":1,"replication_factor":1}`},
		{"empty config", http.MethodPut, "/api/topics/t/config", `{"configs":{}}`},
		{"zero partitions", http.MethodPost, "/api/topics/t/partitions", `{"total_partitions":0}`},
		{"compare without target", http.MethodGet, "/api/compare?source=dev", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, tc.target, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestAPIReadOnlyCluster(t *testing.T) {
	factory := testutil.NewFakeFactory()
	c := topicsClient()
	factory.SetClient("prod", c)
	s := buildServer(t, factory, config.ClusterConfig{Name: "prod", ReadOnly: true})

	rec := do(t, s, http.MethodDelete, "/api/topics/orders?cluster=prod", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "read-only")
	require.Zero(t, c.Calls())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&domain.OpError{Cluster: "c", Op: "x", Err: domain.ErrUnknownCluster}, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrNoDefaultCluster, http.StatusBadRequest},
		{domain.ErrReadOnly, http.StatusForbidden},
		{domain.ErrGroupActive, http.StatusConflict},
		{kerr.TopicAlreadyExists, http.StatusConflict},
		{kerr.InvalidReplicationFactor, http.StatusBadRequest},
		{fmt.Errorf("%w: list_topics exceeded %s", domain.ErrOperationTimeout, time.Second), http.StatusGatewayTimeout},
		{domain.ErrConnection, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
