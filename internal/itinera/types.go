// Package itinera is the HTTP client for the Itinera REST API, the external
// system of record behind every console screen. The console never persists
// marketplace data itself; it assembles requests here and renders responses.
package itinera

import "fmt"

// User is the authenticated account as returned by the upstream login call.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	AvatarPath  string `json:"avatarPath"`
	PartnerName string `json:"partnerName,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Tag is one entry of the server-defined taxonomy fetched at tag-step mount.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TimeSlot is a single start/end range attached to one day of week.
// Times are HH:MM:SS.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DaySchedule holds all slots for one day of week. The upstream guarantees
// (and the wizard enforces) that a day never appears twice.
type DaySchedule struct {
	DayOfWeek string     `json:"day_of_week"`
	TimeSlots []TimeSlot `json:"time_slots"`
}

type Destination struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Image is a server-stored experience image. Path is server-relative and
// must be prefixed with the configured base URL for rendering.
type Image struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

type Experience struct {
	ID            int           `json:"id"`
	CreatorID     string        `json:"creatorId"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Price         string        `json:"price"`
	Unit          string        `json:"unit"`
	Status        string        `json:"status"`
	Availability  []DaySchedule `json:"availability"`
	TagIDs        []int         `json:"tagIds"`
	Companions    []string      `json:"companions"`
	DestinationID int           `json:"destinationId"`
	Destination   *Destination  `json:"destination,omitempty"`
	Images        []Image       `json:"images"`
}

type Booking struct {
	ID           int    `json:"id"`
	ExperienceID int    `json:"experienceId"`
	Experience   string `json:"experience"`
	TravelerName string `json:"travelerName"`
	Date         string `json:"date"`
	Guests       int    `json:"guests"`
	Status       string `json:"status"`
	Total        string `json:"total"`
}

// Payment is a traveler payment pending admin review. ProofPath references
// the uploaded payment proof in the upstream file store.
type Payment struct {
	ID          int    `json:"id"`
	ItineraryID int    `json:"itineraryId"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	ProofPath   string `json:"proofPath"`
	SubmittedAt string `json:"submittedAt"`
}

// Itinerary is a traveler's booked collection of activities with its
// payment record, managed upstream.
type Itinerary struct {
	ID           int      `json:"id"`
	TravelerName string   `json:"travelerName"`
	Activities   []string `json:"activities"`
	Total        string   `json:"total"`
	Payment      *Payment `json:"payment,omitempty"`
}

type Notification struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

type PartnerSummary struct {
	Name         string `json:"name"`
	Experiences  int    `json:"experiences"`
	Bookings     int    `json:"bookings"`
	GrossRevenue string `json:"grossRevenue"`
}

// APIError is any non-2xx upstream response. The console surfaces it to the
// user verbatim and never retries.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}
