package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/itinera/console/internal/itinera"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstreamError surfaces an upstream failure: client-level statuses
// pass through with their message, anything else becomes a 502. The
// operation is never retried.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *itinera.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status > 499 {
			status = http.StatusBadGateway
		}
		writeError(w, status, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "upstream unavailable")
}
