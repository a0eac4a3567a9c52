package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateNote creates a note and uploads the files as its attachments in a
// single multipart POST. Files which fail to upload are reported in the
// response, not as an error.
func (c *Client) CreateNote(ctx context.Context, meta schema.NoteMeta, files ...schema.StagedFile) (*schema.NoteResponse, error) {
	parts := make([]types.File, 0, len(files))
	for _, file := range files {
		parts = append(parts, types.File{
			Path:        file.Name,
			Body:        io.NopCloser(bytes.NewReader(file.Data)),
			ContentType: file.ContentType,
		})
	}

	// The encoder writes each field as a form value and each types.File as
	// a separate multipart "file" part
	form := struct {
		Title string       `json:"title"`
		Body  string       `json:"body,omitempty"`
		Files []types.File `json:"file,omitempty"`
	}{Title: meta.Title, Body: meta.Body, Files: parts}
	payload, err := client.NewStreamingMultipartRequest(&form, types.ContentTypeJSON)
	if err != nil {
		return nil, err
	}

	var response schema.NoteResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("note"), client.OptNoTimeout()); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetNote returns a note and its attachments
func (c *Client) GetNote(ctx context.Context, id string) (*schema.Note, error) {
	var response schema.Note
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("note", id)); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteNote deletes a note and its attachments, returning the deleted note
func (c *Client) DeleteNote(ctx context.Context, id string) (*schema.Note, error) {
	var response schema.Note
	if err := c.DoWithContext(ctx, client.NewRequestEx(http.MethodDelete, types.ContentTypeJSON), &response, client.OptPath("note", id)); err != nil {
		return nil, err
	}
	return &response, nil
}
