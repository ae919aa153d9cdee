// Package httpserver exposes the cluster manager operations as a JSON API.
package httpserver

import (
	"net/http"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/application"
	"github.com/OliveiraNt/maned-lookout/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server provides the HTTP API endpoints for Maned Lookout.
type Server struct {
	clusterService   *application.ClusterService
	topicService     *application.TopicService
	groupService     *application.ConsumerGroupsService
	analyticsService *application.AnalyticsService
}

// New creates a new HTTP server instance.
func New(
	clusterService *application.ClusterService,
	topicService *application.TopicService,
	groupService *application.ConsumerGroupsService,
	analyticsService *application.AnalyticsService,
) *Server {
	return &Server{
		clusterService:   clusterService,
		topicService:     topicService,
		groupService:     groupService,
		analyticsService: analyticsService,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/clusters", s.apiListClusters)
		r.Get("/metadata", s.apiClusterMetadata)
		r.Get("/brokers", s.apiListBrokers)

		r.Get("/topics", s.apiListTopics)
		r.Post("/topics", s.apiCreateTopic)
		r.Get("/topics/{topicName}", s.apiDescribeTopic)
		r.Delete("/topics/{topicName}", s.apiDeleteTopic)
		r.Put("/topics/{topicName}/config", s.apiUpdateTopicConfig)
		r.Get("/topics/{topicName}/partitions", s.apiTopicPartitionDetails)
		r.Post("/topics/{topicName}/partitions", s.apiIncreasePartitions)
		r.Get("/partitions", s.apiListPartitions)

		r.Get("/consumer-groups", s.apiListConsumerGroups)
		r.Get("/consumer-groups/{groupID}", s.apiDescribeConsumerGroup)
		r.Post("/consumer-groups/{groupID}/reset-offsets", s.apiResetOffsets)

		r.Get("/health", s.apiClusterHealth)
		r.Get("/leaders", s.apiLeaderDistribution)
		r.Get("/under-replicated", s.apiUnderReplicated)
		r.Get("/broker-load", s.apiBrokerLoad)
		r.Get("/compare", s.apiCompareClusters)
	})
	return r
}

// NewHTTPServer wraps the router in an http.Server listening on addr.
// writeTimeout should exceed the admin operation timeout.
func (s *Server) NewHTTPServer(addr string, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		utils.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
