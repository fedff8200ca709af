package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/itinera/console/internal/itinera"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Itinera Console API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Backend-for-frontend for the Itinera creator and admin console.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Exchanges credentials for a console session. Sets the session cookie.")
	postLogin.AddReqStructure(itinera.LoginRequest{})
	postLogin.AddRespStructure(itinera.User{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates an account upstream. Log in afterwards.")
	postRegister.AddReqStructure(itinera.RegisterRequest{})
	postRegister.AddRespStructure(itinera.User{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRegister)

	// POST /api/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Destroys the session and clears stored credentials unconditionally.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(postLogout)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the stored profile for the session. Requires the session cookie.")
	getMe.AddRespStructure(itinera.User{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/tags
	getTags, _ := r.NewOperationContext(http.MethodGet, "/api/tags")
	getTags.SetSummary("Tag taxonomy")
	getTags.AddRespStructure([]itinera.Tag{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getTags)

	// GET /api/experiences
	getExperiences, _ := r.NewOperationContext(http.MethodGet, "/api/experiences")
	getExperiences.SetSummary("My experiences")
	getExperiences.AddRespStructure([]ExperienceView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getExperiences)

	// GET /api/bookings
	getBookings, _ := r.NewOperationContext(http.MethodGet, "/api/bookings")
	getBookings.SetSummary("My bookings")
	getBookings.AddRespStructure([]itinera.Booking{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getBookings)

	// GET /api/bookings/{bookingID}
	getBooking, _ := r.NewOperationContext(http.MethodGet, "/api/bookings/{bookingID}")
	getBooking.SetSummary("Booking detail")
	getBooking.AddRespStructure(itinera.Booking{}, openapi.WithHTTPStatus(http.StatusOK))
	getBooking.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getBooking)

	// GET /api/itineraries
	getItineraries, _ := r.NewOperationContext(http.MethodGet, "/api/itineraries")
	getItineraries.SetSummary("Creator itineraries")
	getItineraries.SetDescription("Itineraries touching the user's experiences, with commission split.")
	getItineraries.AddRespStructure([]ItineraryView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getItineraries)

	// GET /api/notifications
	getNotifications, _ := r.NewOperationContext(http.MethodGet, "/api/notifications")
	getNotifications.SetSummary("Notifications")
	getNotifications.AddRespStructure([]NotificationView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getNotifications)

	// POST /api/notifications/{notificationID}/read
	markRead, _ := r.NewOperationContext(http.MethodPost, "/api/notifications/{notificationID}/read")
	markRead.SetSummary("Mark notification read")
	markRead.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(markRead)

	// GET /api/notifications/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/notifications/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream for the live notification badge.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/drafts
	createDraft, _ := r.NewOperationContext(http.MethodPost, "/api/drafts")
	createDraft.SetSummary("Open a draft")
	createDraft.SetDescription("Opens a create-mode draft, or an edit-mode one when experienceId is set.")
	createDraft.AddRespStructure(DraftState{}, openapi.WithHTTPStatus(http.StatusCreated))
	createDraft.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(createDraft)

	// GET /api/drafts/{draftID}
	getDraft, _ := r.NewOperationContext(http.MethodGet, "/api/drafts/{draftID}")
	getDraft.SetSummary("Draft state")
	getDraft.AddRespStructure(DraftState{}, openapi.WithHTTPStatus(http.StatusOK))
	getDraft.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getDraft)

	// DELETE /api/drafts/{draftID}
	discardDraft, _ := r.NewOperationContext(http.MethodDelete, "/api/drafts/{draftID}")
	discardDraft.SetSummary("Discard a draft")
	discardDraft.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(discardDraft)

	// POST /api/drafts/{draftID}/advance
	advance, _ := r.NewOperationContext(http.MethodPost, "/api/drafts/{draftID}/advance")
	advance.SetSummary("Advance the wizard")
	advance.SetDescription("Moves one step forward when the active step is complete.")
	advance.AddRespStructure(DraftState{}, openapi.WithHTTPStatus(http.StatusOK))
	advance.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(advance)

	// POST /api/drafts/{draftID}/retreat
	retreat, _ := r.NewOperationContext(http.MethodPost, "/api/drafts/{draftID}/retreat")
	retreat.SetSummary("Step back")
	retreat.SetDescription("Moves one step back. Backward navigation is never blocked.")
	retreat.AddRespStructure(DraftState{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(retreat)

	// POST /api/drafts/{draftID}/availability
	addRange, _ := r.NewOperationContext(http.MethodPost, "/api/drafts/{draftID}/availability")
	addRange.SetSummary("Add a time range")
	addRange.SetDescription("Fans one start/end pair out to every selected day of week.")
	addRange.AddRespStructure(DraftState{}, openapi.WithHTTPStatus(http.StatusOK))
	addRange.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(addRange)

	// POST /api/drafts/{draftID}/submit
	submit, _ := r.NewOperationContext(http.MethodPost, "/api/drafts/{draftID}/submit")
	submit.SetSummary("Submit a draft")
	submit.SetDescription("Sends the assembled experience upstream as a draft or a publication.")
	submit.AddRespStructure(itinera.Experience{}, openapi.WithHTTPStatus(http.StatusOK))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(submit)

	// GET /api/admin/payments/{paymentID}
	getPayment, _ := r.NewOperationContext(http.MethodGet, "/api/admin/payments/{paymentID}")
	getPayment.SetSummary("Payment for review")
	getPayment.AddRespStructure(PaymentView{}, openapi.WithHTTPStatus(http.StatusOK))
	getPayment.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(getPayment)

	// PUT /api/admin/payments/{paymentID}/approve
	approve, _ := r.NewOperationContext(http.MethodPut, "/api/admin/payments/{paymentID}/approve")
	approve.SetSummary("Approve payment")
	approve.AddRespStructure(PaymentView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(approve)

	// PUT /api/admin/payments/{paymentID}/decline
	decline, _ := r.NewOperationContext(http.MethodPut, "/api/admin/payments/{paymentID}/decline")
	decline.SetSummary("Decline payment")
	decline.AddRespStructure(PaymentView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(decline)

	// GET /api/admin/itineraries
	adminItineraries, _ := r.NewOperationContext(http.MethodGet, "/api/admin/itineraries")
	adminItineraries.SetSummary("All itineraries")
	adminItineraries.AddRespStructure([]ItineraryView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(adminItineraries)

	// GET /api/partner
	getPartner, _ := r.NewOperationContext(http.MethodGet, "/api/partner")
	getPartner.SetSummary("Partner dashboard")
	getPartner.AddRespStructure(itinera.PartnerSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getPartner)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
