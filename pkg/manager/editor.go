package manager

import (
	"context"
	"sync"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	attachment "github.com/mutablelogic/go-notes/pkg/attachment"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Editor is one note editing session. It owns the staging buffer for the
// files attached to the note before it is saved.
type Editor struct {
	sync.Mutex
	manager  *Manager
	id       string
	session  *attachment.Session
	stager   *attachment.Stager
	uploader *attachment.Uploader
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewEditor returns an editor for a new note, which keeps the attachment
// list in the view in step with the staged files
func (manager *Manager) NewEditor(view attachment.View) (*Editor, error) {
	session := attachment.NewSession()
	stager, err := attachment.NewStager(session, view, manager.attachmentOpts()...)
	if err != nil {
		return nil, err
	}
	uploader, err := attachment.NewUploader(session, manager.storage, manager.attachmentOpts()...)
	if err != nil {
		return nil, err
	}
	return &Editor{
		manager:  manager,
		session:  session,
		stager:   stager,
		uploader: uploader,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ID returns the note identifier, or an empty string before the first save
func (editor *Editor) ID() string {
	editor.Lock()
	defer editor.Unlock()
	return editor.id
}

// Stage attaches a file to the note
func (editor *Editor) Stage(ctx context.Context, file schema.StagedFile) error {
	editor.Lock()
	defer editor.Unlock()
	return editor.stager.Stage(ctx, file)
}

// Unstage removes every staged file with the name, and returns false when
// there was none
func (editor *Editor) Unstage(ctx context.Context, name string) bool {
	editor.Lock()
	defer editor.Unlock()
	return editor.stager.Unstage(ctx, name)
}

// Pending returns the staged files, without their payloads
func (editor *Editor) Pending() []schema.StagedFile {
	editor.Lock()
	defer editor.Unlock()
	return editor.session.Files()
}

// Save creates the note, or updates it after the first save, then uploads
// the staged files against the note identifier. If the note cannot be saved
// an error is returned and the staged files are kept. Otherwise the staging
// buffer is empty on return and individual upload failures are reported in
// the response.
func (editor *Editor) Save(ctx context.Context, meta schema.NoteMeta, opts ...attachment.UploadOpt) (_ *schema.NoteResponse, err error) {
	editor.Lock()
	defer editor.Unlock()

	manager := editor.manager
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("Save"))
	defer func() { endFunc(err) }()

	// Persist the note to obtain an identifier
	var note *schema.Note
	if editor.id == "" {
		note, err = manager.store.CreateNote(child, meta)
	} else {
		note, err = manager.store.UpdateNote(child, editor.id, meta)
	}
	if err != nil {
		return nil, err
	}
	editor.id = note.ID
	trace.SpanFromContext(child).SetAttributes(attribute.String("note", note.ID))

	// Upload the staged files and record the ones which succeeded
	files := editor.session.Files()
	summary := manager.record(child, note.ID, files, editor.uploader.UploadPending(child, note.ID, opts...))

	// Refresh the attachments
	if summary.Succeeded > 0 {
		if attachments, err := manager.store.ListAttachments(child, note.ID); err != nil {
			manager.log.Warn(child, "unable to list attachments", "note", note.ID, "error", err)
		} else {
			note.Attachments = attachments
		}
	}

	// Return success
	return &schema.NoteResponse{
		Note:    *note,
		Uploads: summary,
	}, nil
}
