package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/itinera/console/internal/itinera"
	"github.com/itinera/console/internal/session"
)

// handleLogin exchanges credentials for an upstream token and opens a
// console session around it. The token never reaches the client; only the
// session cookie does.
func handleLogin(logger *slog.Logger, upstream Upstream, sessions *session.Manager) http.HandlerFunc {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		User        itinera.User `json:"user"`
		DisplayName string       `json:"displayName"`
		ExpiresAt   time.Time    `json:"expiresAt"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "a valid email and a password are required")
			return
		}

		resp, err := upstream.Login(r.Context(), itinera.LoginRequest{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeUpstreamError(w, err)
			return
		}

		sess, err := sessions.Start(r.Context(), resp.Token, resp.User)
		if err != nil {
			logger.Error("starting session", "email", req.Email, "error", err)
			writeError(w, http.StatusUnauthorized, "login returned an unusable token")
			return
		}

		setSessionCookie(w, sess.ID, sess.ExpiresAt)
		writeJSON(w, http.StatusOK, response{
			User:        resp.User,
			DisplayName: sess.DisplayName,
			ExpiresAt:   sess.ExpiresAt,
		})
	}
}
