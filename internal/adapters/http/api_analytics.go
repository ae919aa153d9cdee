package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) apiClusterHealth(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyticsService.ClusterHealth(r.Context(), clusterParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) apiLeaderDistribution(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyticsService.LeaderDistribution(r.Context(), clusterParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) apiUnderReplicated(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyticsService.UnderReplicated(r.Context(), clusterParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) apiBrokerLoad(w http.ResponseWriter, r *http.Request) {
	load, err := s.analyticsService.BrokerLoad(r.Context(), clusterParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, load)
}

func (s *Server) apiTopicPartitionDetails(w http.ResponseWriter, r *http.Request) {
	report, err := s.analyticsService.TopicPartitionDetails(r.Context(), clusterParam(r), chi.URLParam(r, "topicName"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) apiCompareClusters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, target := q.Get("source"), q.Get("target")
	if source == "" || target == "" {
		writeError(w, r, fmt.Errorf("%w: source and target are required", errBadRequest))
		return
	}
	cmp, err := s.analyticsService.CompareClusterTopics(r.Context(), source, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}
