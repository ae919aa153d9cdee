package httpserver

import (
	"net/http"

	"github.com/OliveiraNt/maned-lookout/internal/utils"
)

func (s *Server) apiListClusters(w http.ResponseWriter, r *http.Request) {
	clusters := s.clusterService.ListClusters(r.Context())
	utils.Logger.Debug("api list clusters", "count", len(clusters))
	writeJSON(w, http.StatusOK, clusters)
}

func (s *Server) apiClusterMetadata(w http.ResponseWriter, r *http.Request) {
	overview, err := s.clusterService.GetClusterMetadata(r.Context(), clusterParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) apiListBrokers(w http.ResponseWriter, r *http.Request) {
	brokers, err := s.clusterService.ListBrokers(r.Context(), clusterParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brokers)
}
