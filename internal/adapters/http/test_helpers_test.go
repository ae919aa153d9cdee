package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/application"
	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/dispatch"
	"github.com/OliveiraNt/maned-lookout/internal/infrastructure/repository"
	"github.com/OliveiraNt/maned-lookout/internal/testutil"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// buildServer wires a Server over fake admin clients for the given clusters.
func buildServer(t *testing.T, factory *testutil.FakeFactory, cfgs ...config.ClusterConfig) *Server {
	t.Helper()
	repo := repository.NewClusterRepository(testutil.Clusters("", cfgs...), factory)
	exec := dispatch.New(4, 16)
	t.Cleanup(func() {
		exec.Close()
		repo.Close()
	})
	cs := application.NewClusterService(repo, exec, time.Second)
	return New(cs, application.NewTopicService(cs), application.NewConsumerGroupsService(cs), application.NewAnalyticsService(cs))
}

// do sends a request through the full router.
func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// chiCtxWithParams adds URL params to request context for handler funcs using chi.URLParam
func chiCtxWithParams(params map[string]string, req *http.Request) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
}
