package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleMyBookings lists bookings against the session user's experiences.
func handleMyBookings(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := upstream.MyBookings(r.Context(), tokenFrom(r))
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bookings)
	}
}

// handleBooking shows one booking. Access control is upstream's call: a
// booking outside the user's experiences comes back as its 403/404.
func handleBooking(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "bookingID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "booking id must be a number")
			return
		}
		booking, err := upstream.Booking(r.Context(), tokenFrom(r), id)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	}
}
