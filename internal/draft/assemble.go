package draft

import (
	"fmt"
	"io"

	"github.com/itinera/console/internal/itinera"
)

// Form assembles the submission payload for the given target status
// ("draft" or "published" — the only difference between the two submit
// intents). It opens the staged image files; the returned cleanup func
// closes them and must be called after the request is sent.
func (d *Draft) Form(status string) (*itinera.ExperienceForm, func(), error) {
	form := &itinera.ExperienceForm{
		Status:       status,
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		Unit:         d.Unit,
		Availability: d.Availability,
		TagIDs:       d.TagIDs,
		Companions:   d.Companions,

		UseExistingDestination: d.UseExistingDestination,
		DeletedImageIDs:        d.DeletedImageIDs,
	}
	if d.UseExistingDestination {
		form.DestinationID = d.DestinationID
	} else {
		dst := d.Destination
		form.Destination = &dst
	}

	var opened []io.ReadCloser
	cleanup := func() {
		for _, rc := range opened {
			rc.Close()
		}
	}

	for _, img := range d.StagedImages {
		rc, err := img.open()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("opening staged image %s: %w", img.Filename, err)
		}
		opened = append(opened, rc)
		form.NewImages = append(form.NewImages, itinera.ImageUpload{
			Filename: img.Filename,
			Content:  rc,
		})
	}

	return form, cleanup, nil
}
