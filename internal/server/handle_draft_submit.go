package server

import (
	"log/slog"
	"net/http"

	"github.com/itinera/console/internal/draft"
	"github.com/itinera/console/internal/itinera"
)

// handleDraftSubmit assembles the multipart payload and sends it upstream
// as a create or an update, depending on the draft's mode. The only
// difference between "save as draft" and "publish" is the status field.
// While a submission is in flight a second one is refused, and the creator
// is whoever owns the session; the client cannot speak for anyone else.
func handleDraftSubmit(logger *slog.Logger, drafts *draft.Registry, upstream Upstream, broker *Broker) http.HandlerFunc {
	type request struct {
		Status string `json:"status" validate:"required,oneof=draft published"`
	}
	type response struct {
		Experience itinera.Experience `json:"experience"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, `status must be "draft" or "published"`)
			return
		}

		sess := sessionFrom(r)
		id := draftID(r)

		var (
			form    *itinera.ExperienceForm
			cleanup func()
			mode    draft.Mode
			expID   int
		)
		err := drafts.WithEntry(id, sess.UserID, func(e *draft.Entry) error {
			if err := e.Flow.Complete(e.Draft); err != nil {
				return err
			}
			if err := e.BeginSubmit(); err != nil {
				return err
			}
			var ferr error
			form, cleanup, ferr = e.Draft.Form(req.Status)
			if ferr != nil {
				e.EndSubmit()
				return ferr
			}
			mode = e.Draft.Mode
			expID = e.Draft.ExperienceID
			return nil
		})
		if err != nil {
			writeDraftError(w, err)
			return
		}
		defer cleanup()

		var exp itinera.Experience
		if mode == draft.ModeEdit {
			exp, err = upstream.UpdateExperience(r.Context(), tokenFrom(r), expID, form)
		} else {
			exp, err = upstream.CreateExperience(r.Context(), tokenFrom(r), form)
		}
		if err != nil {
			drafts.WithEntry(id, sess.UserID, func(e *draft.Entry) error {
				e.EndSubmit()
				return nil
			})
			writeUpstreamError(w, err)
			return
		}

		// The draft's job is done; staged files go with it.
		drafts.Discard(id, sess.UserID)

		logger.Info("experience saved",
			"experience_id", exp.ID,
			"mode", mode,
			"status", req.Status,
		)
		broker.Publish(sess.UserID, NotificationEvent{
			Type:    "experience_saved",
			Message: exp.Title,
		})

		writeJSON(w, http.StatusOK, response{Experience: exp})
	}
}
