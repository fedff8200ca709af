package server

import (
	"log/slog"
	"net/http"

	"github.com/itinera/console/internal/draft"
	"github.com/itinera/console/internal/itinera"
)

// handleDraftDestination replaces the destination slice: either a reference
// to an existing destination or a fully inline record, never both.
func handleDraftDestination(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	type request struct {
		UseExisting   bool                `json:"useExisting"`
		DestinationID int                 `json:"destinationId"`
		Destination   itinera.Destination `json:"destination"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			e.Draft.UseExistingDestination = req.UseExisting
			if req.UseExisting {
				e.Draft.DestinationID = req.DestinationID
				e.Draft.Destination = itinera.Destination{}
				return nil
			}
			e.Draft.DestinationID = 0
			e.Draft.Destination = req.Destination
			return nil
		})
	}
}

// handleDraftLocate records a picked map point and tries a reverse geocode
// to prefill the name and city. The lookup is best-effort: a failure is
// logged and reported in the response, and fields the user already filled
// are never overwritten.
func handleDraftLocate(logger *slog.Logger, drafts *draft.Registry, upstream Upstream, geocoder Geocoder) http.HandlerFunc {
	type request struct {
		Latitude  float64 `json:"latitude" validate:"required,latitude"`
		Longitude float64 `json:"longitude" validate:"required,longitude"`
	}
	type response struct {
		Located bool       `json:"located"`
		State   DraftState `json:"state"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "latitude and longitude are required")
			return
		}

		place, gerr := geocoder.Reverse(r.Context(), req.Latitude, req.Longitude)
		if gerr != nil {
			logger.Warn("reverse geocode failed", "lat", req.Latitude, "lon", req.Longitude, "error", gerr)
		}

		sess := sessionFrom(r)
		var state DraftState
		err := drafts.WithEntry(draftID(r), sess.UserID, func(e *draft.Entry) error {
			d := e.Draft
			d.UseExistingDestination = false
			d.DestinationID = 0
			d.Destination.Latitude = req.Latitude
			d.Destination.Longitude = req.Longitude
			if gerr == nil {
				if d.Destination.Name == "" {
					d.Destination.Name = place.Name
				}
				if d.Destination.City == "" {
					d.Destination.City = place.City
				}
			}
			state = draftState(e, upstream)
			return nil
		})
		if err != nil {
			writeDraftError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, response{Located: gerr == nil, State: state})
	}
}
