package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Upload writes a staged file under the note identifier. Files rejected by
// the bucket constraints, and storage failures, are reported through the
// response rather than as an error. An error is returned only when the
// arguments are invalid.
func (b *blobbackend) Upload(ctx context.Context, note string, file schema.StagedFile) (*schema.UploadResponse, error) {
	note = strings.TrimSpace(note)
	if note == "" || strings.ContainsAny(note, "/\\") {
		return nil, fmt.Errorf("%w: invalid note identifier %q", notes.ErrBadParameter, note)
	}
	name := sanitizeName(file.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing file name", notes.ErrBadParameter)
	}

	// Check the bucket constraints
	contentType := detectContentType(file)
	if b.config != nil {
		if !b.config.AllowsSize(int64(len(file.Data))) {
			return &schema.UploadResponse{
				Error: fmt.Sprintf("%q exceeds the maximum file size of %d bytes", name, b.config.MaxFileSize),
			}, nil
		}
		if !b.config.AllowsType(contentType) {
			return &schema.UploadResponse{
				Error: fmt.Sprintf("%q has a content type %q which is not allowed", name, contentType),
			}, nil
		}
	}

	// Write the object. Every upload gets its own key, so files which share
	// a name are all kept.
	now := time.Now()
	objPath := types.JoinPath(note, uuid.NewString()+"_"+name)
	obj, err := b.CreateObject(ctx, schema.CreateObjectRequest{
		Path:        objPath,
		Body:        bytes.NewReader(file.Data),
		ContentType: contentType,
		ModTime:     now,
		IfNotExists: true,
		Meta: schema.ObjectMeta{
			schema.AttrName: name,
			schema.AttrNote: note,
		},
	})
	if err != nil {
		return &schema.UploadResponse{Error: err.Error()}, nil
	}

	// Return success
	return &schema.UploadResponse{
		Success: true,
		Path:    obj.Path,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// sanitizeName strips any directory components from a file name
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	switch name {
	case ".", "/", "..":
		return ""
	}
	return name
}

// detectContentType returns the declared content type, or guesses it from
// the file extension and then the payload
func detectContentType(file schema.StagedFile) string {
	if file.ContentType != "" {
		return file.ContentType
	}
	if t := mime.TypeByExtension(path.Ext(file.Name)); t != "" {
		return t
	}
	return http.DetectContentType(file.Data)
}
