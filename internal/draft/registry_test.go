package draft

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itinera/console/internal/itinera"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	return r
}

func TestRegistryOwnership(t *testing.T) {
	r := newTestRegistry(t)
	e := r.Create("u1")

	got, err := r.Get(e.Draft.ID, "u1")
	require.NoError(t, err)
	assert.Same(t, e, got)

	_, err = r.Get(e.Draft.ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Get("missing", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryDiscardReleasesStagedFiles(t *testing.T) {
	r := newTestRegistry(t)
	e := r.Create("u1")

	img, err := e.Draft.StageImage(r.StagingDir(), "photo.jpg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)

	path := filepath.Join(r.StagingDir(), img.ID)
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, r.Discard(e.Draft.ID, "u1"))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	_, err = r.Get(e.Draft.ID, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryDiscardForeignOwner(t *testing.T) {
	r := newTestRegistry(t)
	e := r.Create("u1")

	assert.ErrorIs(t, r.Discard(e.Draft.ID, "u2"), ErrNotFound)

	// Still there for the real owner.
	_, err := r.Get(e.Draft.ID, "u1")
	require.NoError(t, err)
}

func TestBeginSubmitRefusesSecondSubmission(t *testing.T) {
	r := newTestRegistry(t)
	e := r.Create("u1")

	require.NoError(t, e.BeginSubmit())
	assert.ErrorIs(t, e.BeginSubmit(), ErrSubmitInFlight)

	e.EndSubmit()
	require.NoError(t, e.BeginSubmit())
}

func TestDiscardAllForOwner(t *testing.T) {
	r := newTestRegistry(t)
	a := r.Create("u1")
	b := r.Create("u1")
	c := r.Create("u2")

	r.DiscardAllForOwner("u1")

	_, err := r.Get(a.Draft.ID, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(b.Draft.ID, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(c.Draft.ID, "u2")
	require.NoError(t, err)
}

func TestCreateFromExperienceUsesEditFlow(t *testing.T) {
	r := newTestRegistry(t)
	e := r.CreateFromExperience("u1", itinera.Experience{ID: 5, CreatorID: "u1"})

	assert.Equal(t, ModeEdit, e.Draft.Mode)
	assert.Equal(t, 4, e.Flow.Total())
}
