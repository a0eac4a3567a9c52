package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Memory keeps notes in memory, for running without a database. Notes are
// lost when the process exits.
type Memory struct {
	sync.RWMutex
	notes map[string]*schema.Note
}

var _ notes.NoteStore = (*Memory)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewMemory() *Memory {
	return &Memory{notes: make(map[string]*schema.Note)}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Probe always succeeds
func (m *Memory) Probe(context.Context) error {
	return nil
}

func (m *Memory) CreateNote(_ context.Context, meta schema.NoteMeta) (*schema.Note, error) {
	if err := validate(meta); err != nil {
		return nil, err
	}
	m.Lock()
	defer m.Unlock()

	now := time.Now().UTC()
	note := &schema.Note{
		ID:       uuid.NewString(),
		NoteMeta: schema.NoteMeta{Title: strings.TrimSpace(meta.Title), Body: meta.Body},
		Created:  now,
		Modified: now,
	}
	m.notes[note.ID] = note
	return clone(note), nil
}

func (m *Memory) UpdateNote(_ context.Context, id string, meta schema.NoteMeta) (*schema.Note, error) {
	if err := validateId(id); err != nil {
		return nil, err
	} else if err := validate(meta); err != nil {
		return nil, err
	}
	m.Lock()
	defer m.Unlock()

	note, exists := m.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	note.NoteMeta = schema.NoteMeta{Title: strings.TrimSpace(meta.Title), Body: meta.Body}
	note.Modified = time.Now().UTC()
	return clone(note), nil
}

func (m *Memory) GetNote(_ context.Context, id string) (*schema.Note, error) {
	if err := validateId(id); err != nil {
		return nil, err
	}
	m.RLock()
	defer m.RUnlock()

	note, exists := m.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	return clone(note), nil
}

func (m *Memory) DeleteNote(_ context.Context, id string) (*schema.Note, error) {
	if err := validateId(id); err != nil {
		return nil, err
	}
	m.Lock()
	defer m.Unlock()

	note, exists := m.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	delete(m.notes, id)
	return note, nil
}

// AddAttachment records an uploaded file against a note. Recording the same
// path twice has no effect.
func (m *Memory) AddAttachment(_ context.Context, id string, attachment schema.Attachment) error {
	if err := validateId(id); err != nil {
		return err
	} else if attachment.Path == "" || attachment.Name == "" {
		return httpresponse.ErrBadRequest.With("attachment name and path are required")
	}
	m.Lock()
	defer m.Unlock()

	note, exists := m.notes[id]
	if !exists {
		return httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	if slices.ContainsFunc(note.Attachments, func(a schema.Attachment) bool { return a.Path == attachment.Path }) {
		return nil
	}
	if attachment.Created.IsZero() {
		attachment.Created = time.Now().UTC()
	}
	note.Attachments = append(note.Attachments, attachment)
	return nil
}

// ListAttachments returns the attachments of a note, oldest first
func (m *Memory) ListAttachments(ctx context.Context, id string) ([]schema.Attachment, error) {
	note, err := m.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return note.Attachments, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func clone(note *schema.Note) *schema.Note {
	result := *note
	result.Attachments = slices.Clone(note.Attachments)
	return &result
}
