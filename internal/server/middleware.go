package server

import (
	"context"
	"net/http"

	"github.com/itinera/console/internal/session"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyToken
)

// sessionMiddleware guards every authenticated route: a missing or invalid
// session is the only fatal path, and it always resolves to 401 plus a
// cleared cookie so the client falls back to the login screen.
func sessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, token, err := sessionFromRequest(r, sessions)
			if err != nil {
				clearSessionCookie(w)
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			ctx = context.WithValue(ctx, ctxKeyToken, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole gates a route subtree on the session's role.
func requireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[sessionFrom(r).Role]; !ok {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFrom(r *http.Request) session.Session {
	return r.Context().Value(ctxKeySession).(session.Session)
}

func tokenFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyToken).(string)
}
