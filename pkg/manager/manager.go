package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Manager struct {
	opts
	store   notes.NoteStore
	storage notes.Storage
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new notes manager over a note store and attachment storage.
func New(store notes.NoteStore, storage notes.Storage, opts ...Opt) (*Manager, error) {
	self := new(Manager)
	if store == nil || storage == nil {
		return nil, fmt.Errorf("%w: store and storage are required", notes.ErrBadParameter)
	}
	self.store = store
	self.storage = storage

	// Apply options
	if opt, err := applyOpts(opts); err != nil {
		return nil, err
	} else {
		self.opts = opt
	}

	// Return success
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetNote returns a note with its recorded attachments
func (manager *Manager) GetNote(ctx context.Context, id string) (_ *schema.Note, err error) {
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("GetNote"))
	defer func() { endFunc(err) }()
	trace.SpanFromContext(child).SetAttributes(attribute.String("note", id))

	return manager.store.GetNote(child, id)
}

// ReadAttachment opens an attachment recorded against a note, by the base
// name of its path. The caller must close the returned reader.
func (manager *Manager) ReadAttachment(ctx context.Context, id, name string) (_ io.ReadCloser, _ *schema.Object, err error) {
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("ReadAttachment"))
	defer func() { endFunc(err) }()
	trace.SpanFromContext(child).SetAttributes(attribute.String("note", id), attribute.String("name", name))

	note, err := manager.store.GetNote(child, id)
	if err != nil {
		return nil, nil, err
	}
	for _, attachment := range note.Attachments {
		if path.Base(attachment.Path) == name {
			return manager.storage.ReadObject(child, schema.ReadObjectRequest{
				GetObjectRequest: schema.GetObjectRequest{Path: attachment.Path},
			})
		}
	}
	return nil, nil, httpresponse.ErrNotFound.Withf("attachment %q not found in note %q", name, id)
}

// DeleteNote removes every object stored under the note, then the note
// itself. When the objects cannot be removed the note is kept.
func (manager *Manager) DeleteNote(ctx context.Context, id string) (_ *schema.Note, err error) {
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("DeleteNote"))
	defer func() { endFunc(err) }()
	trace.SpanFromContext(child).SetAttributes(attribute.String("note", id))

	// Check the note exists before touching storage
	if _, err = manager.store.GetNote(child, id); err != nil {
		return nil, err
	}

	// Remove the objects under the note
	paths, err := manager.listNote(child, id)
	if err != nil {
		return nil, err
	}
	if err = manager.storage.Remove(child, paths...); err != nil {
		return nil, err
	}

	// Keep the note if anything is left under it
	if remaining, err := manager.storage.ListObjects(child, schema.ListObjectsRequest{Path: id, Recursive: true, Limit: 1}); err != nil {
		return nil, err
	} else if remaining.Count > 0 {
		return nil, httpresponse.ErrConflict.Withf("note %q still has %d objects in storage", id, remaining.Count)
	}

	// Delete the note
	note, err := manager.store.DeleteNote(child, id)
	if err != nil {
		return nil, err
	}
	manager.log.Info(child, "deleted note", "note", id, "objects", len(paths))
	return note, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// listNote returns the paths of every object under a note, a page at a time
func (manager *Manager) listNote(ctx context.Context, id string) ([]string, error) {
	var paths []string
	for {
		objects, err := manager.storage.ListObjects(ctx, schema.ListObjectsRequest{
			Path:      id,
			Recursive: true,
			Offset:    len(paths),
			Limit:     manager.limit,
		})
		if err != nil {
			return nil, err
		}
		for _, object := range objects.Body {
			paths = append(paths, object.Path)
		}
		if len(objects.Body) == 0 || len(paths) >= objects.Count {
			return paths, nil
		}
	}
}

// record stores the successful uploads of a pass against the note. files
// are the staged files in the order the pass uploaded them. An upload which
// cannot be recorded is removed from storage and reported as failed.
func (manager *Manager) record(ctx context.Context, id string, files []schema.StagedFile, summary schema.UploadSummary) schema.UploadSummary {
	result := schema.UploadSummary{Note: summary.Note}
	for i, upload := range summary.Results {
		if upload.Success {
			var contentType string
			if i < len(files) {
				contentType = files[i].ContentType
			}
			if err := manager.store.AddAttachment(ctx, id, schema.Attachment{
				Name:        upload.Name,
				Path:        upload.Path,
				Size:        upload.Size,
				ContentType: contentType,
			}); err != nil {
				manager.log.Error(ctx, "attachment uploaded but not recorded", "note", id, "name", upload.Name, "error", err)
				if err := manager.storage.Remove(ctx, upload.Path); err != nil {
					manager.log.Warn(ctx, "unable to remove unrecorded attachment", "path", upload.Path, "error", err)
				}
				upload.Success = false
				upload.Error = errors.Join(notes.ErrUploadFailure, err).Error()
				upload.Path = ""
			}
		}
		result.Append(upload)
	}
	return result
}

func spanManagerName(op string) string {
	return schema.SchemaName + ".manager." + op
}
