package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Itinera Console API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB, deps.Redis))

	r.Post("/api/login", handleLogin(logger, deps.Upstream, deps.Sessions))
	r.Post("/api/register", handleRegister(deps.Upstream))

	// Everything else requires a console session.
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Sessions))

		r.Post("/api/logout", handleLogout(deps.Sessions))
		r.Get("/api/me", handleMe(deps.Sessions, deps.Upstream))
		r.Get("/api/tags", handleTags(deps.Tags))

		r.Get("/api/experiences", handleMyExperiences(deps.Upstream))
		r.Get("/api/bookings", handleMyBookings(deps.Upstream))
		r.Get("/api/bookings/{bookingID}", handleBooking(deps.Upstream))
		r.Get("/api/itineraries", handleCreatorItineraries(deps.Upstream))

		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", handleNotifications(deps.Upstream))
			r.Post("/{notificationID}/read", handleMarkNotificationRead(logger, deps.Upstream, deps.Broker))
			r.Get("/events", handleNotificationEvents(deps.Broker))
		})

		// The creation wizard. One draft per flow; every mutation answers
		// with the full state.
		r.Route("/api/drafts", func(r chi.Router) {
			r.Post("/", handleDraftCreate(deps.Drafts, deps.Upstream))
			r.Route("/{draftID}", func(r chi.Router) {
				r.Get("/", handleDraftGet(deps.Drafts, deps.Upstream))
				r.Delete("/", handleDraftDiscard(deps.Drafts))
				r.Post("/advance", handleDraftAdvance(deps.Drafts, deps.Upstream))
				r.Post("/retreat", handleDraftRetreat(deps.Drafts, deps.Upstream))

				r.Put("/details", handleDraftDetails(deps.Drafts, deps.Upstream))
				r.Post("/availability", handleDraftAddTimeRange(deps.Drafts, deps.Upstream))
				r.Delete("/availability/{day}/{slot}", handleDraftRemoveTimeSlot(deps.Drafts, deps.Upstream))
				r.Put("/tags", handleDraftTags(deps.Drafts, deps.Upstream))
				r.Put("/destination", handleDraftDestination(deps.Drafts, deps.Upstream))
				r.Post("/destination/locate", handleDraftLocate(logger, deps.Drafts, deps.Upstream, deps.Geocoder))
				r.Post("/images", handleDraftStageImages(deps.Drafts, deps.Upstream))
				r.Delete("/images/staged/{imageID}", handleDraftRemoveStagedImage(deps.Drafts, deps.Upstream))
				r.Delete("/images/existing/{imageID}", handleDraftRemoveExistingImage(deps.Drafts, deps.Upstream))

				r.Post("/submit", handleDraftSubmit(logger, deps.Drafts, deps.Upstream, deps.Broker))
			})
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(requireRole("admin"))
			r.Get("/payments/{paymentID}", handlePayment(deps.Upstream))
			r.Put("/payments/{paymentID}/approve", handleApprovePayment(deps.Upstream))
			r.Put("/payments/{paymentID}/decline", handleDeclinePayment(deps.Upstream))
			r.Get("/itineraries", handleAdminItineraries(deps.Upstream))
		})

		r.Route("/api/partner", func(r chi.Router) {
			r.Use(requireRole("partner", "admin"))
			r.Get("/", handlePartner(deps.Upstream))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
