package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itinera/console/internal/draft"
)

// handleDraftAddTimeRange fans one start/end pair out to every selected
// day. A pair with end not after start never reaches the draft; the 422
// carries the message the form shows inline.
func handleDraftAddTimeRange(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	type request struct {
		Days      []string `json:"days"`
		StartTime string   `json:"startTime"`
		EndTime   string   `json:"endTime"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			return e.Draft.AddTimeRange(req.Days, req.StartTime, req.EndTime)
		})
	}
}

// handleDraftRemoveTimeSlot removes one slot from one day; the day itself
// goes with its last slot.
func handleDraftRemoveTimeSlot(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := chi.URLParam(r, "day")
		slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "slot index must be a number")
			return
		}

		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			return e.Draft.RemoveTimeSlot(day, slot)
		})
	}
}
