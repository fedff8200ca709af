package server

import (
	"net/http"

	"github.com/itinera/console/internal/draft"
)

// handleDraftDetails replaces the details slice of the draft. Values are
// stored as entered; completeness is only judged when the flow is asked to
// advance. An unknown unit is the one write rejected outright, since the
// unit picker is a closed set.
func handleDraftDetails(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	type request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Price       string `json:"price"`
		Unit        string `json:"unit"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Unit != "" && !draft.ValidUnit(req.Unit) {
			writeError(w, http.StatusUnprocessableEntity, "unknown unit: "+req.Unit)
			return
		}

		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			e.Draft.Title = req.Title
			e.Draft.Description = req.Description
			e.Draft.Price = req.Price
			e.Draft.Unit = req.Unit
			return nil
		})
	}
}
