package httphandler

import (
	"fmt"
	"io"
	"net/http"

	// Packages
	attachment "github.com/mutablelogic/go-notes/pkg/attachment"
	manager "github.com/mutablelogic/go-notes/pkg/manager"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	view "github.com/mutablelogic/go-notes/pkg/view"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// noteForm is the multipart form for creating a note. The "file" field is
// repeatable.
type noteForm struct {
	Title string       `json:"title"`
	Body  string       `json:"body"`
	Files []types.File `json:"file"`
}

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /note
// POST creates a note from multipart/form-data (fields "title", "body" and
// "file", repeatable) and uploads the files as attachments. With
// Accept: text/event-stream the upload results are streamed.
func NoteListHandler(mgr *manager.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/note", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				_ = noteCreate(w, r, mgr)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Post: &openapi.Operation{
				Description: "Create a note with attachments using multipart/form-data (fields \"title\", \"body\", \"file\", repeatable)",
			},
		})
}

// Path: /note/{id}
// GET returns a note with its attachments, DELETE removes the note and its
// attachments.
func NoteHandler(mgr *manager.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/note/{id}", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_ = noteGet(w, r, mgr)
			case http.MethodDelete:
				_ = noteDelete(w, r, mgr)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Get a note and its attachments",
			},
			Delete: &openapi.Operation{
				Description: "Delete a note and its attachments",
			},
		})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func noteGet(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	note, err := mgr.GetNote(r.Context(), r.PathValue("id"))
	if err != nil {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), note)
}

func noteDelete(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	note, err := mgr.DeleteNote(r.Context(), r.PathValue("id"))
	if err != nil {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), note)
}

func noteCreate(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	var form noteForm
	if err := httprequest.Read(r, &form); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	}
	for _, f := range form.Files {
		defer f.Body.Close() //nolint:gocritic // deferred close is intentional per-file
	}
	if form.Title == "" {
		form.Title = r.FormValue("title")
	}
	if form.Body == "" {
		form.Body = r.FormValue("body")
	}
	meta := schema.NoteMeta{Title: form.Title, Body: form.Body}

	// Stage the files against a fresh editor
	editor, err := mgr.NewEditor(view.New())
	if err != nil {
		return httpresponse.Error(w, err)
	}
	for _, f := range form.Files {
		file, err := stagedFile(f)
		if err != nil {
			return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
		}
		if err := editor.Stage(r.Context(), file); err != nil {
			return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
		}
	}

	// Branch to SSE streaming path if the client accepts text/event-stream.
	if accept, _ := types.AcceptContentType(r); accept == types.ContentTypeTextStream {
		return noteCreateSSE(w, r, editor, meta)
	}

	// Save the note and upload the staged files
	response, err := editor.Save(r.Context(), meta)
	if err != nil {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, http.StatusCreated, httprequest.Indent(r), response)
}

// noteCreateSSE saves the note and streams the upload pass to the client as
// Server-Sent Events.
//
// Event sequence:
//
//	start : once, before the note is stored; payload: schema.UploadStart
//	result: after each staged file is processed; payload: schema.UploadResult
//	error : the note could not be stored; payload: schema.UploadError
//	done  : after the upload pass; payload: schema.NoteResponse
func noteCreateSSE(w http.ResponseWriter, r *http.Request, editor *manager.Editor, meta schema.NoteMeta) error {
	// Open the SSE stream, this commits 200 OK
	stream := httpresponse.NewTextStream(w)

	var bytes int64
	pending := editor.Pending()
	for _, file := range pending {
		bytes += file.Size
	}
	stream.Write(schema.UploadStartEvent, schema.UploadStart{Files: len(pending), Bytes: bytes})

	response, err := editor.Save(r.Context(), meta, attachment.WithProgress(func(result schema.UploadResult) {
		stream.Write(schema.UploadResultEvent, result)
	}))
	if err != nil {
		stream.Write(schema.UploadErrorEvent, schema.UploadError{Message: err.Error()})
		return stream.Close()
	}

	stream.Write(schema.UploadDoneEvent, response)
	return stream.Close()
}

// stagedFile reads a multipart file part into memory. A generic binary
// content type is dropped so that storage can detect a better one.
func stagedFile(f types.File) (schema.StagedFile, error) {
	data, err := io.ReadAll(f.Body)
	if err != nil {
		return schema.StagedFile{}, fmt.Errorf("%q: %w", f.Path, err)
	}
	contentType := f.ContentType
	if contentType == types.ContentTypeBinary {
		contentType = ""
	}
	return schema.StagedFile{
		Name:        f.Path,
		Size:        int64(len(data)),
		ContentType: contentType,
		Data:        data,
	}, nil
}
