package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itinera/console/internal/draft"
)

const maxUploadBytes = 32 << 20

var errImageNotFound = errors.New("image not found")

// handleDraftStageImages copies uploaded files into the draft's staging
// area. Nothing reaches the upstream until submission.
func handleDraftStageImages(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		defer r.MultipartForm.RemoveAll()

		files := r.MultipartForm.File["images"]
		if len(files) == 0 {
			writeError(w, http.StatusBadRequest, "no images in request")
			return
		}

		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			for _, fh := range files {
				f, err := fh.Open()
				if err != nil {
					return err
				}
				_, err = e.Draft.StageImage(drafts.StagingDir(), fh.Filename, f)
				f.Close()
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// handleDraftRemoveStagedImage drops a staged upload and its backing file.
func handleDraftRemoveStagedImage(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "imageID")
		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			if !e.Draft.RemoveStagedImage(id) {
				return errImageNotFound
			}
			return nil
		})
	}
}

// handleDraftRemoveExistingImage marks a server-stored image for deletion
// (edit mode). The upstream record only changes at save time.
func handleDraftRemoveExistingImage(drafts *draft.Registry, upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "imageID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "image id must be a number")
			return
		}
		withDraft(w, r, drafts, upstream, func(e *draft.Entry) error {
			if !e.Draft.MarkImageDeleted(id) {
				return errImageNotFound
			}
			return nil
		})
	}
}
