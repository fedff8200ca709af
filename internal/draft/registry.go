package draft

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/itinera/console/internal/itinera"
)

var (
	ErrNotFound       = errors.New("draft not found")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// Entry pairs a draft with its flow. Mutations go through WithEntry so the
// active step is the only writer, matching the one-step-at-a-time contract.
type Entry struct {
	Draft *Draft
	Flow  *Flow

	mu         sync.Mutex
	submitting bool
}

// BeginSubmit marks the entry's submission in flight; a second submit while
// one is running is refused, mirroring the disabled submit control.
func (e *Entry) BeginSubmit() error {
	if e.submitting {
		return ErrSubmitInFlight
	}
	e.submitting = true
	return nil
}

func (e *Entry) EndSubmit() {
	e.submitting = false
}

// Registry holds all live drafts in memory, keyed by draft ID and owned by
// the user that created them. Abandoned drafts are simply discarded.
type Registry struct {
	stagingDir string

	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewRegistry(stagingDir string) (*Registry, error) {
	if stagingDir == "" {
		dir, err := os.MkdirTemp("", "itinera-drafts-*")
		if err != nil {
			return nil, fmt.Errorf("creating staging dir: %w", err)
		}
		stagingDir = dir
	} else if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	return &Registry{
		stagingDir: stagingDir,
		entries:    make(map[string]*Entry),
	}, nil
}

func (r *Registry) StagingDir() string { return r.stagingDir }

// Create starts an empty create-mode draft for ownerID.
func (r *Registry) Create(ownerID string) *Entry {
	id := uuid.NewString()
	e := &Entry{Draft: New(id, ownerID), Flow: CreateFlow()}

	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()
	return e
}

// CreateFromExperience hydrates an edit-mode draft once from a fetched
// record; subsequent mutations come only from step writes.
func (r *Registry) CreateFromExperience(ownerID string, exp itinera.Experience) *Entry {
	id := uuid.NewString()
	e := &Entry{Draft: NewFromExperience(id, ownerID, exp), Flow: EditFlow()}

	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()
	return e
}

// Get returns the entry if it exists and belongs to ownerID. A foreign
// owner sees ErrNotFound rather than a distinct error, to avoid leaking
// draft existence.
func (r *Registry) Get(id, ownerID string) (*Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok || e.Draft.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return e, nil
}

// WithEntry runs fn with the entry locked, serializing step mutations.
func (r *Registry) WithEntry(id, ownerID string, fn func(*Entry) error) error {
	e, err := r.Get(id, ownerID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

// Discard drops the draft and releases its staged image files.
func (r *Registry) Discard(id, ownerID string) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok && e.Draft.OwnerID == ownerID {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if !ok || e.Draft.OwnerID != ownerID {
		return ErrNotFound
	}

	e.mu.Lock()
	e.Draft.ReleaseImages()
	e.mu.Unlock()
	return nil
}

// DiscardAllForOwner releases every draft belonging to ownerID, used when a
// session ends.
func (r *Registry) DiscardAllForOwner(ownerID string) {
	r.mu.Lock()
	var doomed []*Entry
	for id, e := range r.entries {
		if e.Draft.OwnerID == ownerID {
			doomed = append(doomed, e)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, e := range doomed {
		e.mu.Lock()
		e.Draft.ReleaseImages()
		e.mu.Unlock()
	}
}
