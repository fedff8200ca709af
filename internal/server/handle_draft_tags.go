package server

import (
	"net/http"

	"github.com/itinera/console/internal/draft"
)

// handleDraftTags replaces the tag and companion selections together; the
// tag screen owns both.
func handleDraftTags(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	type request struct {
		TagIDs     []int    `json:"tagIds"`
		Companions []string `json:"companions"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			if err := e.Draft.SetCompanions(req.Companions); err != nil {
				return err
			}
			e.Draft.SetTags(req.TagIDs)
			return nil
		})
	}
}
