package server

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/itinera/console/internal/draft"
	"github.com/itinera/console/internal/geocode"
	"github.com/itinera/console/internal/itinera"
	"github.com/itinera/console/internal/session"
)

// Upstream is the slice of the Itinera API the console handlers consume.
// *itinera.Client satisfies it; tests substitute fakes.
type Upstream interface {
	Login(ctx context.Context, req itinera.LoginRequest) (itinera.LoginResponse, error)
	Register(ctx context.Context, req itinera.RegisterRequest) (itinera.User, error)

	Tags(ctx context.Context, token string) ([]itinera.Tag, error)
	Experience(ctx context.Context, token string, id int) (itinera.Experience, error)
	ExperienceAvailability(ctx context.Context, token string, id int) ([]itinera.DaySchedule, error)
	MyExperiences(ctx context.Context, token string) ([]itinera.Experience, error)
	CreateExperience(ctx context.Context, token string, form *itinera.ExperienceForm) (itinera.Experience, error)
	UpdateExperience(ctx context.Context, token string, id int, form *itinera.ExperienceForm) (itinera.Experience, error)

	Payment(ctx context.Context, token string, id int) (itinera.Payment, error)
	ApprovePayment(ctx context.Context, token string, id int) (itinera.Payment, error)
	DeclinePayment(ctx context.Context, token string, id int) (itinera.Payment, error)
	AdminItineraries(ctx context.Context, token string) ([]itinera.Itinerary, error)
	CreatorItineraries(ctx context.Context, token string) ([]itinera.Itinerary, error)

	MyBookings(ctx context.Context, token string) ([]itinera.Booking, error)
	Booking(ctx context.Context, token string, id int) (itinera.Booking, error)
	PartnerSummary(ctx context.Context, token string) (itinera.PartnerSummary, error)
	PartnerExperiences(ctx context.Context, token string) ([]itinera.Experience, error)

	Notifications(ctx context.Context, token string) ([]itinera.Notification, error)
	MarkNotificationRead(ctx context.Context, token string, id int) error

	FileURL(path string) string
}

// Geocoder resolves coordinates to a place for destination prefill.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (geocode.Place, error)
}

// TagLister serves the tag taxonomy, normally through the redis cache.
type TagLister interface {
	List(ctx context.Context, token string) ([]itinera.Tag, error)
}

// Deps carries everything addRoutes wires into handlers.
type Deps struct {
	Upstream Upstream
	Geocoder Geocoder
	Sessions *session.Manager
	Drafts   *draft.Registry
	Tags     TagLister
	Broker   *Broker

	DB     *sql.DB
	Redis  *redis.Client
	SPADir string
}
