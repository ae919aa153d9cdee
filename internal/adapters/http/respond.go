package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/OliveiraNt/maned-lookout/internal/application"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
	"github.com/twmb/franz-go/pkg/kerr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Logger.Error("encode response failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		utils.Logger.Error("api request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		utils.Logger.Debug("api request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownCluster), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoDefaultCluster), application.IsInvalidRequest(err), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGroupActive), errors.Is(err, kerr.TopicAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, kerr.InvalidPartitions), errors.Is(err, kerr.InvalidReplicationFactor), errors.Is(err, kerr.InvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOperationTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrConnection):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// clusterParam returns the optional ?cluster= selector; empty selects the default cluster.
func clusterParam(r *http.Request) string {
	return r.URL.Query().Get("cluster")
}
