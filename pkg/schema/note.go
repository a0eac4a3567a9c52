package schema

import (
	"context"
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	pg "github.com/mutablelogic/go-pg"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type NoteMeta struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// NoteId selects a single note
type NoteId string

// NoteProbe selects any one note, to check the table can be read
type NoteProbe struct{}

type Note struct {
	ID string `json:"id"`
	NoteMeta
	Created     time.Time    `json:"created,omitzero"`
	Modified    time.Time    `json:"modified,omitzero"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// NoteResponse is returned when a note is saved together with its staged
// attachments
type NoteResponse struct {
	Note    Note          `json:"note"`
	Uploads UploadSummary `json:"uploads"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (n NoteMeta) String() string {
	return types.Stringify(n)
}

func (n Note) String() string {
	return types.Stringify(n)
}

func (r NoteResponse) String() string {
	return types.Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// VALIDATE

// Validate returns an error if the note has no title
func (n NoteMeta) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return httpresponse.ErrBadRequest.With("note title is required")
	}
	return nil
}

// Validate returns an error if the identifier is not a UUID
func (n NoteId) Validate() error {
	if _, err := uuid.Parse(string(n)); err != nil {
		return httpresponse.ErrBadRequest.Withf("invalid note id %q", string(n))
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// SELECTOR

func (n NoteId) Select(bind *pg.Bind, op pg.Op) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	} else {
		bind.Set("id", string(n))
	}

	switch op {
	case pg.Get:
		return noteGet, nil
	case pg.Update:
		return noteUpdate, nil
	case pg.Delete:
		return noteDelete, nil
	default:
		return "", httpresponse.ErrNotImplemented.Withf("NoteId operation: %q", op)
	}
}

func (NoteProbe) Select(bind *pg.Bind, op pg.Op) (string, error) {
	switch op {
	case pg.Get:
		return noteProbe, nil
	default:
		return "", httpresponse.ErrNotImplemented.Withf("NoteProbe operation: %q", op)
	}
}

////////////////////////////////////////////////////////////////////////////////
// READER

func (n *Note) Scan(row pg.Row) error {
	return row.Scan(&n.ID, &n.Title, &n.Body, &n.Created, &n.Modified)
}

////////////////////////////////////////////////////////////////////////////////
// WRITER

// Insert a note. The identifier is bound by the caller.
func (n NoteMeta) Insert(bind *pg.Bind) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	} else if !bind.Has("id") {
		return "", httpresponse.ErrBadRequest.With("note id is required")
	}
	return noteInsert, n.bind(bind)
}

func (n NoteMeta) Update(bind *pg.Bind) error {
	return n.bind(bind)
}

func (n NoteMeta) bind(bind *pg.Bind) error {
	if err := n.Validate(); err != nil {
		return err
	}
	bind.Set("title", strings.TrimSpace(n.Title))
	bind.Set("body", n.Body)
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// SQL

func bootstrapNote(ctx context.Context, conn pg.Conn) error {
	q := []string{
		noteCreateTable,
	}
	for _, query := range q {
		if err := conn.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

const (
	noteCreateTable = `
		CREATE TABLE IF NOT EXISTS ${"schema"}."note" (
			"id"       TEXT PRIMARY KEY,                               -- UUID, assigned on insert
			"title"    TEXT NOT NULL,                                  -- Title
			"body"     TEXT NOT NULL DEFAULT '',                       -- Body
			"created"  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP, -- Created timestamp
			"modified" TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP  -- Last updated timestamp
		)
	`
	noteColumns = `"id", "title", "body", "created", "modified"`
	noteInsert  = `
		INSERT INTO ${"schema"}."note"
			("id", "title", "body")
		VALUES
			(@id, @title, @body)
		RETURNING
			` + noteColumns
	noteUpdate = `
		UPDATE ${"schema"}."note" SET
			"title" = @title, "body" = @body, "modified" = CURRENT_TIMESTAMP
		WHERE
			"id" = @id
		RETURNING
			` + noteColumns
	noteSelect = `SELECT ` + noteColumns + ` FROM ${"schema"}."note"`
	noteGet    = noteSelect + ` WHERE "id" = @id`
	noteDelete = `DELETE FROM ${"schema"}."note" WHERE "id" = @id RETURNING ` + noteColumns
	noteProbe  = noteSelect + ` LIMIT 1`
)
