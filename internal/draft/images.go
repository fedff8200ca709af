package draft

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StagedImage is a newly selected upload held outside the draft's durable
// lifecycle: the bytes sit in a temp file that must be released when the
// image is removed, replaced, or the draft is discarded.
type StagedImage struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`

	path string
}

// StageImage copies an upload into the staging directory and appends it to
// the draft's image list.
func (d *Draft) StageImage(stagingDir, filename string, content io.Reader) (*StagedImage, error) {
	id := uuid.NewString()
	path := filepath.Join(stagingDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("staging image: %w", err)
	}
	size, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("staging image: %w", err)
	}

	img := &StagedImage{
		ID:       id,
		Filename: filename,
		Size:     size,
		path:     path,
	}
	d.StagedImages = append(d.StagedImages, img)
	return img, nil
}

// RemoveStagedImage drops a staged upload and releases its backing file.
func (d *Draft) RemoveStagedImage(id string) bool {
	for i, img := range d.StagedImages {
		if img.ID == id {
			d.StagedImages = append(d.StagedImages[:i], d.StagedImages[i+1:]...)
			img.release()
			return true
		}
	}
	return false
}

// ReleaseImages frees every staged file. Called when the draft is discarded
// or after a successful submission.
func (d *Draft) ReleaseImages() {
	for _, img := range d.StagedImages {
		img.release()
	}
	d.StagedImages = nil
}

func (img *StagedImage) release() {
	if img.path != "" {
		os.Remove(img.path)
		img.path = ""
	}
}

func (img *StagedImage) open() (io.ReadCloser, error) {
	return os.Open(img.path)
}
