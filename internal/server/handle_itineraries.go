package server

import (
	"net/http"

	"github.com/itinera/console/internal/itinera"
)

// ItineraryView decorates an itinerary with its commission split.
type ItineraryView struct {
	itinera.Itinerary
	Commission CommissionSummary `json:"commission"`
}

func itineraryViews(its []itinera.Itinerary, rate float64) []ItineraryView {
	views := make([]ItineraryView, 0, len(its))
	for _, it := range its {
		views = append(views, ItineraryView{
			Itinerary:  it,
			Commission: summarizeCommission(it.Total, rate),
		})
	}
	return views
}

// handleCreatorItineraries lists itineraries touching the session user's
// experiences, with the creator-facing commission rate.
func handleCreatorItineraries(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		its, err := upstream.CreatorItineraries(r.Context(), tokenFrom(r))
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, itineraryViews(its, creatorCommissionRate))
	}
}

// handleAdminItineraries lists every itinerary, with the admin-facing
// commission rate.
func handleAdminItineraries(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		its, err := upstream.AdminItineraries(r.Context(), tokenFrom(r))
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, itineraryViews(its, adminCommissionRate))
	}
}
