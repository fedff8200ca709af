package server

import (
	"net/http"

	"github.com/itinera/console/internal/itinera"
)

// ExperienceView adds ready-to-render absolute image URLs to the upstream
// record.
type ExperienceView struct {
	itinera.Experience
	ImageURLs []string `json:"imageUrls"`
}

func experienceViews(upstream Upstream, exps []itinera.Experience) []ExperienceView {
	views := make([]ExperienceView, 0, len(exps))
	for _, exp := range exps {
		v := ExperienceView{Experience: exp, ImageURLs: []string{}}
		for _, img := range exp.Images {
			v.ImageURLs = append(v.ImageURLs, upstream.FileURL(img.Path))
		}
		views = append(views, v)
	}
	return views
}

// handleMyExperiences lists the session user's own experiences, drafts
// included.
func handleMyExperiences(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exps, err := upstream.MyExperiences(r.Context(), tokenFrom(r))
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, experienceViews(upstream, exps))
	}
}
