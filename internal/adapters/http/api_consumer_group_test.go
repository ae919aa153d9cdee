package httpserver

import (
	"net/http"
	"testing"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestAPIConsumerGroups(t *testing.T) {
	factory := testutil.NewFakeFactory()
	c := testutil.NewFakeAdminClient()
	c.Groups = []domain.ConsumerGroupInfo{{GroupID: "b"}, {GroupID: "a"}}
	c.GroupDetails["a"] = &domain.ConsumerGroupDetail{GroupID: "a", State: "Empty"}
	c.ResetResult = []domain.GroupOffset{{Topic: "orders", Partition: 0, CurrentOffset: 42}}
	factory.SetClient("dev", c)
	s := buildServer(t, factory, config.ClusterConfig{Name: "dev"})

	rec := do(t, s, http.MethodGet, "/api/consumer-groups", "")
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[[]domain.ConsumerGroupInfo](t, rec)
	require.Equal(t, "a", groups[0].GroupID)

	rec = do(t, s, http.MethodGet, "/api/consumer-groups/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Empty", decode[domain.ConsumerGroupDetail](t, rec).State)

	rec = do(t, s, http.MethodGet, "/api/consumer-groups/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/consumer-groups/a/reset-offsets", `{"topic":"orders","strategy":"offset","offset":42}`)
	require.Equal(t, http.StatusOK, rec.Code)
	offsets := decode[[]domain.GroupOffset](t, rec)
	require.Equal(t, int64(42), offsets[0].CurrentOffset)

	rec = do(t, s, http.MethodPost, "/api/consumer-groups/a/reset-offsets", `{"topic":"orders","strategy":"sideways"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIResetOffsetsActiveGroup(t *testing.T) {
	factory := testutil.NewFakeFactory()
	c := testutil.NewFakeAdminClient()
	c.SetErr(domain.ErrGroupActive)
	factory.SetClient("dev", c)
	s := buildServer(t, factory, config.ClusterConfig{Name: "dev"})

	rec := do(t, s, http.MethodPost, "/api/consumer-groups/a/reset-offsets", `{"topic":"orders","strategy":"latest"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}
