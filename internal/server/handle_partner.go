package server

import (
	"net/http"

	"github.com/itinera/console/internal/itinera"
)

// handlePartner serves the partner dashboard: the rollup summary plus the
// partner's experience list in one response, since the screen always shows
// both together.
func handlePartner(upstream Upstream) http.HandlerFunc {
	type response struct {
		Summary     itinera.PartnerSummary `json:"summary"`
		Experiences []ExperienceView       `json:"experiences"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFrom(r)

		summary, err := upstream.PartnerSummary(r.Context(), token)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		exps, err := upstream.PartnerExperiences(r.Context(), token)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, response{
			Summary:     summary,
			Experiences: experienceViews(upstream, exps),
		})
	}
}
