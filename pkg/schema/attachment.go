package schema

import (
	"context"
	"time"

	// Packages
	pg "github.com/mutablelogic/go-pg"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// AttachmentListLimit caps the attachments returned with a note
const AttachmentListLimit = 1000

////////////////////////////////////////////////////////////////////////////////
// TYPES

// StagedFile is a file chosen by the user which has not been uploaded yet.
// The payload is owned by the staging buffer until the file is removed or
// drained by an upload pass.
type StagedFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"type,omitempty"`
	Data        []byte `json:"-"`
}

// UploadResponse is returned by the remote storage upload operation. A
// response without an error can still report failure through Success.
type UploadResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UploadResult is the outcome of uploading a single staged file
type UploadResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Size    int64  `json:"size"`
	Error   string `json:"error,omitempty"`
}

// UploadSummary collects the results of one upload pass, in buffer order
type UploadSummary struct {
	Note      string         `json:"note,omitempty"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []UploadResult `json:"results,omitempty"`
}

// Attachment is an uploaded file recorded against a note
type Attachment struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"type,omitempty"`
	Created     time.Time `json:"created,omitzero"`
}

// NoteAttachment records an attachment against a note
type NoteAttachment struct {
	Note NoteId
	Attachment
}

// AttachmentListRequest selects the attachments of a note, oldest first
type AttachmentListRequest struct {
	Note NoteId
	pg.OffsetLimit
}

type AttachmentList struct {
	Count uint64       `json:"count"`
	Body  []Attachment `json:"body,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Append records a result and updates the counters
func (s *UploadSummary) Append(result UploadResult) {
	s.Results = append(s.Results, result)
	if result.Success {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Failures returns the failed results
func (s UploadSummary) Failures() []UploadResult {
	var result []UploadResult
	for _, r := range s.Results {
		if !r.Success {
			result = append(result, r)
		}
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (f StagedFile) String() string {
	return types.Stringify(f)
}

func (r UploadResult) String() string {
	return types.Stringify(r)
}

func (s UploadSummary) String() string {
	return types.Stringify(s)
}

func (a Attachment) String() string {
	return types.Stringify(a)
}

////////////////////////////////////////////////////////////////////////////////
// SELECTOR

func (r AttachmentListRequest) Select(bind *pg.Bind, op pg.Op) (string, error) {
	if err := r.Note.Validate(); err != nil {
		return "", err
	} else {
		bind.Set("note", string(r.Note))
	}

	// Orderby
	bind.Set("orderby", `ORDER BY "created", "path"`)

	// Bind offset and limit
	r.OffsetLimit.Bind(bind, AttachmentListLimit)

	switch op {
	case pg.List:
		return attachmentList, nil
	default:
		return "", httpresponse.ErrNotImplemented.Withf("AttachmentListRequest operation: %q", op)
	}
}

////////////////////////////////////////////////////////////////////////////////
// READER

func (a *Attachment) Scan(row pg.Row) error {
	return row.Scan(&a.Name, &a.Path, &a.Size, &a.ContentType, &a.Created)
}

func (a *AttachmentList) Scan(row pg.Row) error {
	var attachment Attachment
	if err := attachment.Scan(row); err != nil {
		return err
	}
	a.Body = append(a.Body, attachment)
	return nil
}

func (a *AttachmentList) ScanCount(row pg.Row) error {
	return row.Scan(&a.Count)
}

////////////////////////////////////////////////////////////////////////////////
// WRITER

// Insert records the attachment. Recording the same path against the same
// note again has no effect.
func (a NoteAttachment) Insert(bind *pg.Bind) (string, error) {
	if err := a.Note.Validate(); err != nil {
		return "", err
	} else if a.Path == "" || a.Name == "" {
		return "", httpresponse.ErrBadRequest.With("attachment name and path are required")
	}
	bind.Set("note", string(a.Note))
	bind.Set("path", a.Path)
	bind.Set("name", a.Name)
	bind.Set("size", a.Size)
	bind.Set("type", a.ContentType)
	return attachmentInsert, nil
}

func (a NoteAttachment) Update(bind *pg.Bind) error {
	return httpresponse.ErrNotImplemented.With("NoteAttachment.Update")
}

////////////////////////////////////////////////////////////////////////////////
// SQL

func bootstrapAttachment(ctx context.Context, conn pg.Conn) error {
	q := []string{
		attachmentCreateTable,
	}
	for _, query := range q {
		if err := conn.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

const (
	attachmentCreateTable = `
		CREATE TABLE IF NOT EXISTS ${"schema"}."attachment" (
			"note"    TEXT NOT NULL REFERENCES ${"schema"}."note" ("id") ON DELETE CASCADE, -- Owning note
			"path"    TEXT NOT NULL,                                  -- Object path in the bucket
			"name"    TEXT NOT NULL,                                  -- Name as staged
			"size"    BIGINT NOT NULL DEFAULT 0,                      -- Size in bytes
			"type"    TEXT NOT NULL DEFAULT '',                       -- Content type
			"created" TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP, -- Recorded timestamp
			PRIMARY KEY ("note", "path")
		)
	`
	attachmentColumns = `"name", "path", "size", "type", "created"`
	attachmentInsert  = `
		INSERT INTO ${"schema"}."attachment"
			("note", "path", "name", "size", "type")
		VALUES
			(@note, @path, @name, @size, @type)
		ON CONFLICT ("note", "path") DO UPDATE SET
			"name" = ${"schema"}."attachment"."name"
		RETURNING
			` + attachmentColumns
	attachmentSelect = `SELECT ` + attachmentColumns + ` FROM ${"schema"}."attachment"`
	attachmentList   = attachmentSelect + ` WHERE "note" = @note ${orderby}`
)
