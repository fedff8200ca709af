package server

import (
	"net/http"

	"github.com/itinera/console/internal/session"
)

// handleLogout destroys the session unconditionally: storage is cleared and
// the cookie dropped even if nothing else about the request is in order.
func handleLogout(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		sessions.Destroy(r.Context(), sess.ID, sess.UserID)
		clearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
