package httpserver

import (
	"net/http"

	"github.com/OliveiraNt/maned-lookout/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (s *Server) apiListConsumerGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groupService.ListConsumerGroups(r.Context(), clusterParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) apiDescribeConsumerGroup(w http.ResponseWriter, r *http.Request) {
	detail, err := s.groupService.DescribeConsumerGroup(r.Context(), clusterParam(r), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) apiResetOffsets(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetOffsetsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	offsets, err := s.groupService.ResetOffsets(r.Context(), clusterParam(r), chi.URLParam(r, "groupID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offsets)
}
