package httphandler_test

import (
	"bufio"
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	backend "github.com/mutablelogic/go-notes/pkg/backend"
	httphandler "github.com/mutablelogic/go-notes/pkg/httphandler"
	manager "github.com/mutablelogic/go-notes/pkg/manager"
	provision "github.com/mutablelogic/go-notes/pkg/provision"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
)

///////////////////////////////////////////////////////////////////////////////
// ROUTERS

type mockRouter struct {
	paths  []string
	retErr error
}

func (m *mockRouter) RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error {
	m.paths = append(m.paths, path)
	return m.retErr
}

type muxRouter struct {
	*http.ServeMux
}

func (m muxRouter) RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error {
	m.HandleFunc(path, handler)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// NOTE STORE

type fakeStore struct {
	sync.Mutex
	notes map[string]schema.Note
}

func (s *fakeStore) Probe(context.Context) error {
	return nil
}

func (s *fakeStore) CreateNote(_ context.Context, meta schema.NoteMeta) (*schema.Note, error) {
	s.Lock()
	defer s.Unlock()
	if strings.TrimSpace(meta.Title) == "" {
		return nil, httpresponse.ErrBadRequest.With("note title is required")
	}
	note := schema.Note{ID: uuid.NewString(), NoteMeta: meta, Created: time.Now()}
	s.notes[note.ID] = note
	return &note, nil
}

func (s *fakeStore) UpdateNote(_ context.Context, id string, meta schema.NoteMeta) (*schema.Note, error) {
	s.Lock()
	defer s.Unlock()
	note, exists := s.notes[id]
	if !exists {
		return nil, httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	note.NoteMeta = meta
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

func (s *fakeStore) DeleteNote(ctx context.Context, id string) (*schema.Note, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()
	delete(s.notes, id)
	return note, nil
}

func (s *fakeStore) AddAttachment(_ context.Context, id string, attachment schema.Attachment) error {
	s.Lock()
	defer s.Unlock()
	note, exists := s.notes[id]
	if !exists {
		return httpresponse.ErrNotFound.Withf("note %q not found", id)
	}
	note.Attachments = append(note.Attachments, attachment)
	s.notes[id] = note
	return nil
}

func (s *fakeStore) ListAttachments(ctx context.Context, id string) ([]schema.Attachment, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return note.Attachments, nil
}

///////////////////////////////////////////////////////////////////////////////
// BUCKET ADMIN

type fakeAdmin struct {
	sync.Mutex
	buckets []schema.Bucket
}

func (a *fakeAdmin) CreateBucket(_ context.Context, config schema.BucketConfig) (*schema.Bucket, error) {
	a.Lock()
	defer a.Unlock()
	for _, bucket := range a.buckets {
		if bucket.ID == config.ID {
			return nil, httpresponse.ErrConflict.Withf("bucket %q already exists", config.ID)
		}
	}
	a.buckets = append(a.buckets, schema.Bucket{ID: config.ID})
	return &schema.Bucket{ID: config.ID}, nil
}

func (a *fakeAdmin) UpdateBucket(_ context.Context, config schema.BucketConfig) (*schema.Bucket, error) {
	return &schema.Bucket{ID: config.ID}, nil
}

func (a *fakeAdmin) ListBuckets(context.Context) ([]schema.Bucket, error) {
	a.Lock()
	defer a.Unlock()
	return append([]schema.Bucket(nil), a.buckets...), nil
}

///////////////////////////////////////////////////////////////////////////////
// HELPERS

type fixture struct {
	mux   *http.ServeMux
	store *fakeStore
	admin *fakeAdmin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage, err := backend.NewBlobBackend(context.TODO(), "mem://"+schema.DefaultBucket)
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	f := &fixture{
		mux:   http.NewServeMux(),
		store: &fakeStore{notes: make(map[string]schema.Note)},
		admin: new(fakeAdmin),
	}
	mgr, err := manager.New(f.store, storage)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	prov, err := provision.New(f.store, f.admin, storage)
	if err != nil {
		t.Fatalf("new provisioner: %v", err)
	}
	if err := httphandler.RegisterHandlers(mgr, prov, muxRouter{f.mux}); err != nil {
		t.Fatalf("RegisterHandlers: %v", err)
	}
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	f.mux.ServeHTTP(rw, req)
	return rw
}

// newNoteRequest builds a POST request with title and body fields, and one
// "file" form field for each entry of (filename, content).
func newNoteRequest(t *testing.T, title, body string, files [][2]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", title); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := mw.WriteField("body", body); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("file", f[0])
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write([]byte(f[1])); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/note", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// sseEvent holds one parsed Server-Sent Event.
type sseEvent struct {
	Name string
	Data string
}

// parseSSEEvents parses a text/event-stream body into a slice of sseEvents.
func parseSSEEvents(body string) []sseEvent {
	var events []sseEvent
	var name, data string

	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if name != "" {
				events = append(events, sseEvent{Name: name, Data: data})
			}
			name, data = "", ""
		}
	}
	if name != "" {
		events = append(events, sseEvent{Name: name, Data: data})
	}
	return events
}

// sseEventsByName filters a slice keeping only events with the given name.
func sseEventsByName(events []sseEvent, name string) []sseEvent {
	var out []sseEvent
	for _, e := range events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
