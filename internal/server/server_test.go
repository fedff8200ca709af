package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/itinera/console/internal/database"
	"github.com/itinera/console/internal/draft"
	"github.com/itinera/console/internal/geocode"
	"github.com/itinera/console/internal/itinera"
	"github.com/itinera/console/internal/migrations"
	"github.com/itinera/console/internal/session"
)

// fakeUpstream is an in-memory stand-in for the Itinera API. It records the
// last experience submission so tests can assert on the assembled form.
type fakeUpstream struct {
	mu sync.Mutex

	user     itinera.User
	loginErr error

	experiences  map[int]itinera.Experience
	availability map[int][]itinera.DaySchedule

	lastForm      *itinera.ExperienceForm
	lastFormFiles map[string]string
	lastSaveID    int
	submitErr     error

	notifications []itinera.Notification
	markedRead    []int

	payments   map[int]itinera.Payment
	creatorIts []itinera.Itinerary
	adminIts   []itinera.Itinerary
	bookings   []itinera.Booking
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		user: itinera.User{
			ID: "u1", Email: "ana@example.com", Role: "creator",
			FirstName: "Ana", LastName: "Quispe",
		},
		experiences:  map[int]itinera.Experience{},
		availability: map[int][]itinera.DaySchedule{},
		payments:     map[int]itinera.Payment{},
	}
}

func (f *fakeUpstream) Login(ctx context.Context, req itinera.LoginRequest) (itinera.LoginResponse, error) {
	if f.loginErr != nil {
		return itinera.LoginResponse{}, f.loginErr
	}
	return itinera.LoginResponse{Token: testToken(time.Hour), User: f.user}, nil
}

func (f *fakeUpstream) Register(ctx context.Context, req itinera.RegisterRequest) (itinera.User, error) {
	return itinera.User{ID: "u2", Email: req.Email, Role: req.Role, FirstName: req.FirstName, LastName: req.LastName}, nil
}

func (f *fakeUpstream) Tags(ctx context.Context, token string) ([]itinera.Tag, error) {
	return []itinera.Tag{{ID: 1, Name: "Food"}, {ID: 2, Name: "Adventure"}}, nil
}

func (f *fakeUpstream) Experience(ctx context.Context, token string, id int) (itinera.Experience, error) {
	exp, ok := f.experiences[id]
	if !ok {
		return itinera.Experience{}, &itinera.APIError{StatusCode: http.StatusNotFound, Message: "experience not found"}
	}
	return exp, nil
}

func (f *fakeUpstream) ExperienceAvailability(ctx context.Context, token string, id int) ([]itinera.DaySchedule, error) {
	if _, ok := f.experiences[id]; !ok {
		return nil, &itinera.APIError{StatusCode: http.StatusNotFound, Message: "experience not found"}
	}
	return f.availability[id], nil
}

func (f *fakeUpstream) MyExperiences(ctx context.Context, token string) ([]itinera.Experience, error) {
	var exps []itinera.Experience
	for _, exp := range f.experiences {
		exps = append(exps, exp)
	}
	return exps, nil
}

func (f *fakeUpstream) recordForm(form *itinera.ExperienceForm) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastForm = form
	f.lastFormFiles = map[string]string{}
	for _, img := range form.NewImages {
		data, _ := io.ReadAll(img.Content)
		f.lastFormFiles[img.Filename] = string(data)
	}
}

func (f *fakeUpstream) CreateExperience(ctx context.Context, token string, form *itinera.ExperienceForm) (itinera.Experience, error) {
	if f.submitErr != nil {
		return itinera.Experience{}, f.submitErr
	}
	f.recordForm(form)
	f.lastSaveID = 0
	return itinera.Experience{ID: 99, Title: form.Title, Status: form.Status}, nil
}

func (f *fakeUpstream) UpdateExperience(ctx context.Context, token string, id int, form *itinera.ExperienceForm) (itinera.Experience, error) {
	if f.submitErr != nil {
		return itinera.Experience{}, f.submitErr
	}
	f.recordForm(form)
	f.lastSaveID = id
	return itinera.Experience{ID: id, Title: form.Title, Status: form.Status}, nil
}

func (f *fakeUpstream) Payment(ctx context.Context, token string, id int) (itinera.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return itinera.Payment{}, &itinera.APIError{StatusCode: http.StatusNotFound, Message: "payment not found"}
	}
	return p, nil
}

func (f *fakeUpstream) ApprovePayment(ctx context.Context, token string, id int) (itinera.Payment, error) {
	p, err := f.Payment(ctx, token, id)
	if err != nil {
		return itinera.Payment{}, err
	}
	p.Status = "approved"
	f.payments[id] = p
	return p, nil
}

func (f *fakeUpstream) DeclinePayment(ctx context.Context, token string, id int) (itinera.Payment, error) {
	p, err := f.Payment(ctx, token, id)
	if err != nil {
		return itinera.Payment{}, err
	}
	p.Status = "declined"
	f.payments[id] = p
	return p, nil
}

func (f *fakeUpstream) AdminItineraries(ctx context.Context, token string) ([]itinera.Itinerary, error) {
	return f.adminIts, nil
}

func (f *fakeUpstream) CreatorItineraries(ctx context.Context, token string) ([]itinera.Itinerary, error) {
	return f.creatorIts, nil
}

func (f *fakeUpstream) MyBookings(ctx context.Context, token string) ([]itinera.Booking, error) {
	return f.bookings, nil
}

func (f *fakeUpstream) Booking(ctx context.Context, token string, id int) (itinera.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return itinera.Booking{}, &itinera.APIError{StatusCode: http.StatusNotFound, Message: "booking not found"}
}

func (f *fakeUpstream) PartnerSummary(ctx context.Context, token string) (itinera.PartnerSummary, error) {
	return itinera.PartnerSummary{Name: "Andes Tours", Experiences: 3, Bookings: 12, GrossRevenue: "1500.00"}, nil
}

func (f *fakeUpstream) PartnerExperiences(ctx context.Context, token string) ([]itinera.Experience, error) {
	return nil, nil
}

func (f *fakeUpstream) Notifications(ctx context.Context, token string) ([]itinera.Notification, error) {
	return f.notifications, nil
}

func (f *fakeUpstream) MarkNotificationRead(ctx context.Context, token string, id int) error {
	f.markedRead = append(f.markedRead, id)
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].Read = true
		}
	}
	return nil
}

func (f *fakeUpstream) FileURL(path string) string {
	if path == "" {
		return ""
	}
	return "http://files.test/" + path
}

type fakeGeocoder struct {
	place geocode.Place
	err   error
}

func (g *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) (geocode.Place, error) {
	return g.place, g.err
}

type stubTags struct{}

func (stubTags) List(ctx context.Context, token string) ([]itinera.Tag, error) {
	return []itinera.Tag{{ID: 1, Name: "Food"}, {ID: 2, Name: "Adventure"}}, nil
}

func testToken(ttl time.Duration) string {
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}).SignedString([]byte("test-secret"))
	return tok
}

type testEnv struct {
	r        *chi.Mux
	upstream *fakeUpstream
	geo      *fakeGeocoder
	sessions *session.Manager
	drafts   *draft.Registry
	broker   *Broker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	sessions := session.NewManager(db, session.DeriveSealKey("test-secret"))
	t.Cleanup(sessions.Close)

	drafts, err := draft.NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("draft registry: %v", err)
	}

	env := &testEnv{
		upstream: newFakeUpstream(),
		geo:      &fakeGeocoder{place: geocode.Place{Name: "Plaza Mayor", City: "Cusco"}},
		sessions: sessions,
		drafts:   drafts,
		broker:   NewBroker(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, Deps{
		Upstream: env.upstream,
		Geocoder: env.geo,
		Sessions: sessions,
		Drafts:   drafts,
		Tags:     stubTags{},
		Broker:   env.broker,
		DB:       db,
		Redis:    redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
	})
	env.r = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, cookies []*http.Cookie, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.r.ServeHTTP(w, req)
	return w
}

func (env *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/login", nil, map[string]string{
		"email": "ana@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/login", nil, map[string]string{
		"email": "ana@example.com", "password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User        itinera.User `json:"user"`
		DisplayName string       `json:"displayName"`
	}
	decodeBody(t, w, &resp)
	if resp.User.ID != "u1" {
		t.Errorf("expected user u1, got %q", resp.User.ID)
	}
	if resp.DisplayName != "Ana Quispe" {
		t.Errorf("expected display name Ana Quispe, got %q", resp.DisplayName)
	}

	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestLoginBadCredentialsPassesThrough(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.loginErr = &itinera.APIError{StatusCode: http.StatusUnauthorized, Message: "invalid credentials"}

	w := env.do(t, http.MethodPost, "/api/login", nil, map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Error != "invalid credentials" {
		t.Errorf("expected upstream message, got %q", resp.Error)
	}
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/login", nil, map[string]string{"email": "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAuthenticatedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/me", "/api/tags", "/api/experiences", "/api/drafts/x"} {
		w := env.do(t, http.MethodGet, path, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without session, got %d", path, w.Code)
		}
	}
}

func TestMeReturnsStoredProfile(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.user.AvatarPath = "avatars/u1.jpg"
	cookies := env.login(t)

	w := env.do(t, http.MethodGet, "/api/me", cookies, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User      itinera.User `json:"user"`
		AvatarURL string       `json:"avatarUrl"`
	}
	decodeBody(t, w, &resp)
	if resp.User.Email != "ana@example.com" {
		t.Errorf("expected stored email, got %q", resp.User.Email)
	}
	if resp.AvatarURL != "http://files.test/avatars/u1.jpg" {
		t.Errorf("expected absolute avatar url, got %q", resp.AvatarURL)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	w := env.do(t, http.MethodPost, "/api/logout", cookies, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/me", cookies, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestLogoutDiscardsDrafts(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.OnLogout = func(sessionID, userID string) {
		env.drafts.DiscardAllForOwner(userID)
	}
	cookies := env.login(t)

	w := env.do(t, http.MethodPost, "/api/drafts", cookies, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("creating draft: expected 201, got %d", w.Code)
	}
	var state DraftState
	decodeBody(t, w, &state)

	env.do(t, http.MethodPost, "/api/logout", cookies, nil)

	if _, err := env.drafts.Get(state.ID, "u1"); err == nil {
		t.Error("expected draft to be discarded on logout")
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t) // role creator

	w := env.do(t, http.MethodGet, "/api/admin/itineraries", cookies, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for creator, got %d", w.Code)
	}
}

func TestExpiredSessionCookieIsRejected(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "bogus"})
	w := httptest.NewRecorder()
	env.r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	// Cookie must be cleared on the way out.
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}

func TestHealthzReportsFailingRedis(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with unreachable redis, got %d", w.Code)
	}

	var resp HealthResponse
	decodeBody(t, w, &resp)
	if resp["sqlite"].Status != "ok" {
		t.Errorf("expected sqlite ok, got %q", resp["sqlite"].Status)
	}
	if resp["redis"].Status != "error" {
		t.Errorf("expected redis error, got %q", resp["redis"].Status)
	}
}

func TestOpenAPISpecIsServed(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/openapi.json", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var spec struct {
		OpenAPI string `json:"openapi"`
		Paths   map[string]json.RawMessage
	}
	decodeBody(t, w, &spec)
	if spec.OpenAPI == "" {
		t.Error("expected an openapi version field")
	}
	for _, p := range []string{"/api/login", "/api/drafts/{draftID}/submit", "/healthz"} {
		if _, ok := spec.Paths[p]; !ok {
			t.Errorf("expected path %s in spec", p)
		}
	}
}
