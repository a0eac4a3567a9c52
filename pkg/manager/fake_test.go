package manager_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	notes "github.com/mutablelogic/go-notes"
	backend "github.com/mutablelogic/go-notes/pkg/backend"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	require "github.com/stretchr/testify/require"
)

////////////////////////////////////////////////////////////////////////////////
// NOTE STORE

// fakeStore is an in-memory note store
type fakeStore struct {
	sync.Mutex
	notes       map[string]schema.Note
	createErr   error
	updateErr   error
	attachErr   error
	attachCalls int
}

var _ notes.NoteStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{notes: make(map[string]schema.Note)}
}

func (s *fakeStore) Probe(context.Context) error {
	return nil
}

func (s *fakeStore) CreateNote(_ context.Context, meta schema.NoteMeta) (*schema.Note, error) {
	s.Lock()
	defer s.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	now := time.Now()
	note := schema.Note{ID: uuid.NewString(), NoteMeta: meta, Created: now, Modified: now}
	s.notes[note.ID] = note
	return &note, nil
}

func (s *fakeStore) UpdateNote(_ context.Context, id string, meta schema.NoteMeta) (*schema.Note, error) {
	s.Lock()
	defer s.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	note, exists := s.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	note.NoteMeta = meta
	note.Modified = time.Now()
	s.notes[id] = note
	return &note, nil
}

func (s *fakeStore) GetNote(_ context.Context, id string) (*schema.Note, error) {
	s.Lock()
	defer s.Unlock()
	note, exists := s.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	return &note, nil
}

func (s *fakeStore) DeleteNote(_ context.Context, id string) (*schema.Note, error) {
	s.Lock()
	defer s.Unlock()
	note, exists := s.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	delete(s.notes, id)
	return &note, nil
}

func (s *fakeStore) AddAttachment(_ context.Context, id string, attachment schema.Attachment) error {
	s.Lock()
	defer s.Unlock()
	s.attachCalls++
	if s.attachErr != nil {
		return s.attachErr
	}
	note, exists := s.notes[id]
	if !exists {
		return httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	note.Attachments = append(note.Attachments, attachment)
	s.notes[id] = note
	return nil
}

func (s *fakeStore) ListAttachments(_ context.Context, id string) ([]schema.Attachment, error) {
	s.Lock()
	defer s.Unlock()
	note, exists := s.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	return note.Attachments, nil
}

////////////////////////////////////////////////////////////////////////////////
// STORAGE

// removeFailing is storage which cannot remove objects
type removeFailing struct {
	notes.Storage
}

func (removeFailing) Remove(context.Context, ...string) error {
	return errors.New("remove denied")
}

// removeFirst is storage which only removes the first of the paths
type removeFirst struct {
	notes.Storage
}

func (s removeFirst) Remove(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	return s.Storage.Remove(ctx, paths[0])
}

func newStorage(t *testing.T, opts ...backend.Opt) backend.Backend {
	t.Helper()
	storage, err := backend.NewBlobBackend(context.TODO(), "mem://"+schema.DefaultBucket, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func listAll(t *testing.T, storage notes.Storage) []string {
	t.Helper()
	resp, err := storage.ListObjects(context.TODO(), schema.ListObjectsRequest{Path: "/", Recursive: true})
	require.NoError(t, err)
	var result []string
	for _, object := range resp.Body {
		result = append(result, object.Path)
	}
	return result
}

func file(name, contentType string, data string) schema.StagedFile {
	return schema.StagedFile{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Data:        []byte(data),
	}
}
