package itinera

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// ImageUpload is a newly selected image to include as a binary file part.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ExperienceForm is the assembled submission payload for a create or edit
// save. The upstream expects JSON-encoded sub-structures inside multipart
// fields (not nested multipart), with new images as raw file parts.
type ExperienceForm struct {
	Status      string
	Title       string
	Description string
	Price       string
	Unit        string

	Availability []DaySchedule
	TagIDs       []int
	Companions   []string

	UseExistingDestination bool
	DestinationID          int
	Destination            *Destination

	NewImages       []ImageUpload
	DeletedImageIDs []int
}

// Encode produces the multipart body and its Content-Type. Field layout:
//
//	title, description, price, unit, status  plain fields
//	availability, tags, companions           JSON-encoded text fields
//	destination_id OR destination            existing reference or inline JSON
//	deleted_image_ids                        JSON list (edit mode)
//	images                                   one file part per new upload
func (f *ExperienceForm) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       f.Title,
		"description": f.Description,
		"price":       f.Price,
		"unit":        f.Unit,
		"status":      f.Status,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	if err := writeJSONField(w, "availability", f.Availability); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "tags", f.TagIDs); err != nil {
		return nil, "", err
	}
	if err := writeJSONField(w, "companions", f.Companions); err != nil {
		return nil, "", err
	}

	if f.UseExistingDestination {
		if err := w.WriteField("destination_id", strconv.Itoa(f.DestinationID)); err != nil {
			return nil, "", fmt.Errorf("writing field destination_id: %w", err)
		}
	} else if f.Destination != nil {
		if err := writeJSONField(w, "destination", f.Destination); err != nil {
			return nil, "", err
		}
	}

	if len(f.DeletedImageIDs) > 0 {
		if err := writeJSONField(w, "deleted_image_ids", f.DeletedImageIDs); err != nil {
			return nil, "", err
		}
	}

	for _, img := range f.NewImages {
		part, err := w.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part %s: %w", img.Filename, err)
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return nil, "", fmt.Errorf("copying image %s: %w", img.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeJSONField(w *multipart.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding field %s: %w", name, err)
	}
	if err := w.WriteField(name, string(data)); err != nil {
		return fmt.Errorf("writing field %s: %w", name, err)
	}
	return nil
}
