package server

import (
	"net/http"

	"github.com/itinera/console/internal/itinera"
)

// handleRegister creates an account upstream. The client logs in afterwards;
// registration never opens a session by itself.
func handleRegister(upstream Upstream) http.HandlerFunc {
	type request struct {
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
		Role      string `json:"role" validate:"required,oneof=creator partner"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "all fields are required; password must be at least 8 characters")
			return
		}

		user, err := upstream.Register(r.Context(), itinera.RegisterRequest{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      req.Role,
		})
		if err != nil {
			writeUpstreamError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}
