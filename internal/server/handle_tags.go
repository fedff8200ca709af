package server

import "net/http"

// handleTags serves the tag taxonomy, through the redis cache when one is
// wired.
func handleTags(tags TagLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := tags.List(r.Context(), tokenFrom(r))
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
