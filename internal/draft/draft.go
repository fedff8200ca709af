// Package draft holds the in-progress experience-creation form state and the
// step machine that gates progression through the wizard. A draft lives in
// memory only: it is discarded on abandon and becomes durable solely through
// one explicit submission against the upstream API.
package draft

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itinera/console/internal/itinera"
)

var (
	ErrEndNotAfterStart = errors.New("end time must be after start time")
	ErrInvalidDay       = errors.New("unknown day of week")
	ErrInvalidTime      = errors.New("time must be HH:MM or HH:MM:SS")
	ErrInvalidCompanion = errors.New("unknown companion")
	ErrStepIncomplete   = errors.New("please fill out all required fields")
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Units an experience can be priced by.
const (
	UnitEntry   = "Entry"
	UnitHour    = "Hour"
	UnitDay     = "Day"
	UnitPackage = "Package"
)

func ValidUnit(u string) bool {
	switch u {
	case UnitEntry, UnitHour, UnitDay, UnitPackage:
		return true
	}
	return false
}

// Companions describe the intended audience grouping.
const (
	CompanionSolo    = "Solo"
	CompanionPartner = "Partner"
	CompanionFamily  = "Family"
	CompanionFriends = "Friends"
	CompanionGroup   = "Group"
	CompanionAny     = "Any"
)

func ValidCompanion(c string) bool {
	switch c {
	case CompanionSolo, CompanionPartner, CompanionFamily, CompanionFriends, CompanionGroup, CompanionAny:
		return true
	}
	return false
}

// weekdayOrder fixes the display and storage order of day schedules.
var weekdayOrder = map[string]int{
	"Mon": 0, "Tue": 1, "Wed": 2, "Thu": 3, "Fri": 4, "Sat": 5, "Sun": 6,
}

func ValidWeekday(d string) bool {
	_, ok := weekdayOrder[d]
	return ok
}

// ExistingImage is a server-stored image carried into an edit-mode draft.
// It is never re-uploaded; removal is recorded in DeletedImageIDs instead.
type ExistingImage struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

// Draft is the single mutable record collected across wizard steps. Each
// step reads and writes a disjoint slice of it; the registry serializes
// access so only the currently active step ever mutates it.
type Draft struct {
	ID           string
	OwnerID      string
	Mode         Mode
	ExperienceID int // set in edit mode

	Title       string
	Description string
	Price       string // decimal string, validated numeric
	Unit        string

	// Availability is ordered by weekday; a day appears at most once and
	// never with an empty slot list.
	Availability []itinera.DaySchedule

	TagIDs     []int
	Companions []string

	UseExistingDestination bool
	DestinationID          int
	Destination            itinera.Destination

	ExistingImages  []ExistingImage
	StagedImages    []*StagedImage
	DeletedImageIDs []int
}

// New returns an empty create-mode draft.
func New(id, ownerID string) *Draft {
	return &Draft{ID: id, OwnerID: ownerID, Mode: ModeCreate}
}

// NewFromExperience hydrates an edit-mode draft once from a fetched record.
func NewFromExperience(id, ownerID string, exp itinera.Experience) *Draft {
	d := &Draft{
		ID:           id,
		OwnerID:      ownerID,
		Mode:         ModeEdit,
		ExperienceID: exp.ID,
		Title:        exp.Title,
		Description:  exp.Description,
		Price:        exp.Price,
		Unit:         exp.Unit,
		Availability: exp.Availability,
		TagIDs:       exp.TagIDs,
		Companions:   exp.Companions,
	}
	if exp.Destination != nil {
		d.UseExistingDestination = true
		d.DestinationID = exp.Destination.ID
	} else if exp.DestinationID != 0 {
		d.UseExistingDestination = true
		d.DestinationID = exp.DestinationID
	}
	for _, img := range exp.Images {
		d.ExistingImages = append(d.ExistingImages, ExistingImage{
			ID:       img.ID,
			Path:     img.Path,
			Position: img.Position,
		})
	}
	return d
}

// DetailsValid reports whether the details slice is complete: title and
// description present, price numeric and positive, unit in the allowed set.
func (d *Draft) DetailsValid() bool {
	if d.Title == "" || d.Description == "" {
		return false
	}
	price, err := strconv.ParseFloat(d.Price, 64)
	if err != nil || price <= 0 {
		return false
	}
	return ValidUnit(d.Unit)
}

// AvailabilityValid requires at least one day with at least one slot. Days
// with empty slot lists are unrepresentable, so presence suffices.
func (d *Draft) AvailabilityValid() bool {
	return len(d.Availability) > 0
}

// TagsValid requires at least one tag and at least one valid companion.
func (d *Draft) TagsValid() bool {
	if len(d.TagIDs) == 0 || len(d.Companions) == 0 {
		return false
	}
	for _, c := range d.Companions {
		if !ValidCompanion(c) {
			return false
		}
	}
	return true
}

// CompanionsValid reports the companion slice alone, used by the edit
// flow's merged schedule step.
func (d *Draft) CompanionsValid() bool {
	if len(d.Companions) == 0 {
		return false
	}
	for _, c := range d.Companions {
		if !ValidCompanion(c) {
			return false
		}
	}
	return true
}

// DestinationValid requires exactly one populated representation: an
// existing destination reference, or a fully specified inline record.
func (d *Draft) DestinationValid() bool {
	if d.UseExistingDestination {
		return d.DestinationID > 0
	}
	dst := d.Destination
	return dst.Name != "" && dst.City != "" && dst.Description != "" &&
		dst.Latitude != 0 && dst.Longitude != 0
}

// ImagesValid: the image step imposes no minimum; ordering metadata is
// maintained by the handlers.
func (d *Draft) ImagesValid() bool {
	return true
}

// SetTags replaces the tag selection (whole-field replacement, like every
// step write).
func (d *Draft) SetTags(ids []int) {
	d.TagIDs = ids
}

// SetCompanions replaces the companion selection, rejecting unknown values.
func (d *Draft) SetCompanions(values []string) error {
	for _, c := range values {
		if !ValidCompanion(c) {
			return fmt.Errorf("%w: %q", ErrInvalidCompanion, c)
		}
	}
	d.Companions = values
	return nil
}

// MarkImageDeleted records an existing image for deletion (edit mode). The
// image stays out of the draft's visible list but is only removed upstream
// at save time.
func (d *Draft) MarkImageDeleted(imageID int) bool {
	for i, img := range d.ExistingImages {
		if img.ID == imageID {
			d.ExistingImages = append(d.ExistingImages[:i], d.ExistingImages[i+1:]...)
			d.DeletedImageIDs = append(d.DeletedImageIDs, imageID)
			return true
		}
	}
	return false
}
