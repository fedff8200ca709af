package server

import (
	"net/http"
	"time"

	"github.com/itinera/console/internal/session"
)

const sessionCookieName = "console_session"

func setSessionCookie(w http.ResponseWriter, sessionID string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionFromRequest resolves the console session cookie. Absent, expired,
// or unreadable sessions all collapse to session.ErrNoSession.
func sessionFromRequest(r *http.Request, sessions *session.Manager) (session.Session, string, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return session.Session{}, "", session.ErrNoSession
	}
	return sessions.Lookup(r.Context(), cookie.Value)
}
