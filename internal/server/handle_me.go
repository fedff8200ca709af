package server

import (
	"net/http"
	"time"

	"github.com/itinera/console/internal/itinera"
	"github.com/itinera/console/internal/session"
)

// handleMe returns the stored profile for the current session, the same
// record written at login. Nothing is refetched from the upstream.
func handleMe(sessions *session.Manager, upstream Upstream) http.HandlerFunc {
	type response struct {
		User        itinera.User `json:"user"`
		DisplayName string       `json:"displayName"`
		AvatarURL   string       `json:"avatarUrl,omitempty"`
		ExpiresAt   time.Time    `json:"expiresAt"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		user, err := sessions.Profile(r.Context(), sess.ID)
		if err != nil {
			clearSessionCookie(w)
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		resp := response{
			User:        user,
			DisplayName: sess.DisplayName,
			ExpiresAt:   sess.ExpiresAt,
		}
		if user.AvatarPath != "" {
			resp.AvatarURL = upstream.FileURL(user.AvatarPath)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
