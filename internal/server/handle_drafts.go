package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itinera/console/internal/draft"
	"github.com/itinera/console/internal/itinera"
)

// StepState is the flow position rendered alongside every draft response so
// the client can draw the stepper and the next/back affordances.
type StepState struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Name    string `json:"name"`
	Valid   bool   `json:"valid"`
	AtStart bool   `json:"atStart"`
	AtEnd   bool   `json:"atEnd"`
}

type ExistingImageView struct {
	ID       int    `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// DraftState is the full wizard view: the form record plus the flow
// position. Every draft mutation responds with it, so the client never has
// to merge partial updates.
type DraftState struct {
	ID   string     `json:"id"`
	Mode draft.Mode `json:"mode"`
	Step StepState  `json:"step"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Unit        string `json:"unit"`

	Availability []itinera.DaySchedule `json:"availability"`
	TagIDs       []int                 `json:"tagIds"`
	Companions   []string              `json:"companions"`

	UseExistingDestination bool                `json:"useExistingDestination"`
	DestinationID          int                 `json:"destinationId"`
	Destination            itinera.Destination `json:"destination"`

	ExistingImages []ExistingImageView  `json:"existingImages"`
	StagedImages   []*draft.StagedImage `json:"stagedImages"`
}

func draftState(e *draft.Entry, upstream Upstream) DraftState {
	d := e.Draft
	existing := make([]ExistingImageView, 0, len(d.ExistingImages))
	for _, img := range d.ExistingImages {
		existing = append(existing, ExistingImageView{
			ID:       img.ID,
			URL:      upstream.FileURL(img.Path),
			Position: img.Position,
		})
	}
	return DraftState{
		ID:   d.ID,
		Mode: d.Mode,
		Step: StepState{
			Index:   e.Flow.Current(),
			Total:   e.Flow.Total(),
			Name:    e.Flow.Name(),
			Valid:   e.Flow.StepValid(d),
			AtStart: e.Flow.AtStart(),
			AtEnd:   e.Flow.AtEnd(),
		},
		Title:                  d.Title,
		Description:            d.Description,
		Price:                  d.Price,
		Unit:                   d.Unit,
		Availability:           d.Availability,
		TagIDs:                 d.TagIDs,
		Companions:             d.Companions,
		UseExistingDestination: d.UseExistingDestination,
		DestinationID:          d.DestinationID,
		Destination:            d.Destination,
		ExistingImages:         existing,
		StagedImages:           d.StagedImages,
	}
}

func writeDraftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, draft.ErrNotFound):
		writeError(w, http.StatusNotFound, "draft not found")
	case errors.Is(err, errImageNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, draft.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, draft.ErrStepIncomplete),
		errors.Is(err, draft.ErrEndNotAfterStart),
		errors.Is(err, draft.ErrInvalidDay),
		errors.Is(err, draft.ErrInvalidTime),
		errors.Is(err, draft.ErrInvalidCompanion):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func draftID(r *http.Request) string {
	return chi.URLParam(r, "draftID")
}

// withDraft runs a step mutation and responds with the updated state.
func withDraft(w http.ResponseWriter, r *http.Request, drafts *draft.Registry, upstream Upstream, fn func(*draft.Entry) error) {
	sess := sessionFrom(r)
	var state DraftState
	err := drafts.WithEntry(draftID(r), sess.UserID, func(e *draft.Entry) error {
		if err := fn(e); err != nil {
			return err
		}
		state = draftState(e, upstream)
		return nil
	})
	if err != nil {
		writeDraftError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleDraftCreate opens a fresh create-mode draft, or an edit-mode draft
// hydrated once from the upstream record. Editing somebody else's
// experience is refused before a draft exists.
func handleDraftCreate(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	type request struct {
		ExperienceID int `json:"experienceId"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if r.ContentLength > 0 {
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		sess := sessionFrom(r)
		if req.ExperienceID == 0 {
			e := drafts.Create(sess.UserID)
			writeJSON(w, http.StatusCreated, draftState(e, upstream))
			return
		}

		exp, err := upstream.Experience(r.Context(), tokenFrom(r), req.ExperienceID)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		if exp.CreatorID != sess.UserID {
			writeError(w, http.StatusForbidden, "not your experience")
			return
		}

		// Older upstream records serve availability only on the dedicated
		// endpoint instead of embedding it.
		if len(exp.Availability) == 0 {
			sched, err := upstream.ExperienceAvailability(r.Context(), tokenFrom(r), req.ExperienceID)
			if err != nil {
				writeUpstreamError(w, err)
				return
			}
			exp.Availability = sched
		}

		e := drafts.CreateFromExperience(sess.UserID, exp)
		writeJSON(w, http.StatusCreated, draftState(e, upstream))
	}
}

func handleDraftGet(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDraft(w, r, drafts, upstream, func(*draft.Entry) error { return nil })
	}
}

func handleDraftDiscard(drafts *draft.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := drafts.Discard(draftID(r), sess.UserID); err != nil {
			writeDraftError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDraftAdvance(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			return e.Flow.Advance(e.Draft)
		})
	}
}

func handleDraftRetreat(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			e.Flow.Retreat()
			return nil
		})
	}
}
