package httpserver

import (
	"net/http"
	"strconv"

	"github.com/OliveiraNt/maned-lookout/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (s *Server) apiListTopics(w http.ResponseWriter, r *http.Request) {
	includeInternal, _ := strconv.ParseBool(r.URL.Query().Get("include_internal"))
	topics, err := s.topicService.ListTopics(r.Context(), clusterParam(r), includeInternal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) apiDescribeTopic(w http.ResponseWriter, r *http.Request) {
	detail, err := s.topicService.DescribeTopic(r.Context(), clusterParam(r), chi.URLParam(r, "topicName"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) apiListPartitions(w http.ResponseWriter, r *http.Request) {
	partitions, err := s.topicService.GetPartitions(r.Context(), clusterParam(r), r.URL.Query().Get("topic"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, partitions)
}

func (s *Server) apiCreateTopic(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.topicService.CreateTopic(r.Context(), clusterParam(r), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created", "topic": req.Name})
}

func (s *Server) apiDeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := s.topicService.DeleteTopic(r.Context(), clusterParam(r), chi.URLParam(r, "topicName")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiUpdateTopicConfig(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateTopicConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.topicService.UpdateTopicConfig(r.Context(), clusterParam(r), chi.URLParam(r, "topicName"), req); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiIncreasePartitions(w http.ResponseWriter, r *http.Request) {
	var req domain.IncreasePartitionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.topicService.IncreasePartitions(r.Context(), clusterParam(r), chi.URLParam(r, "topicName"), req); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
