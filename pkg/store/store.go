package store

import (
	"context"
	"errors"
	"fmt"

	// Packages
	uuid "github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgconn "github.com/jackc/pgx/v5/pgconn"
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	pg "github.com/mutablelogic/go-pg"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Store persists notes in PostgreSQL
type Store struct {
	conn pg.PoolConn
	pool pg.PoolConn
}

var _ notes.NoteStore = (*Store)(nil)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	pgForeignKeyViolation = "23503"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a store over an existing connection, creating the schema
// and tables when they do not exist
func New(ctx context.Context, conn pg.PoolConn) (*Store, error) {
	self := new(Store)
	if conn == nil {
		return nil, fmt.Errorf("%w: connection is nil", notes.ErrBadParameter)
	} else {
		self.conn = conn.With("schema", schema.SchemaName).(pg.PoolConn)
	}

	// Create the schema
	if exists, err := pg.SchemaExists(ctx, self.conn, schema.SchemaName); err != nil {
		return nil, fmt.Errorf("%w: %v", notes.ErrConnection, err)
	} else if !exists {
		if err := pg.SchemaCreate(ctx, self.conn, schema.SchemaName); err != nil {
			return nil, err
		}
	}

	// Bootstrap the tables
	if err := self.conn.Tx(ctx, func(conn pg.Conn) error {
		return schema.Bootstrap(ctx, conn)
	}); err != nil {
		return nil, err
	}

	// Return success
	return self, nil
}

// Open connects to the database at url and bootstraps the schema
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pg.NewPool(ctx, pg.WithURL(url))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", notes.ErrConnection, err)
	}
	self, err := New(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	self.pool = pool
	return self, nil
}

// Close the connection pool, if the store opened it
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Probe reads a single note. An empty table is reachable, not an error.
func (s *Store) Probe(ctx context.Context) error {
	var note schema.Note
	return probeErr(s.conn.Get(ctx, &note, schema.NoteProbe{}))
}

func (s *Store) CreateNote(ctx context.Context, meta schema.NoteMeta) (*schema.Note, error) {
	var note schema.Note
	if err := s.conn.With("id", uuid.NewString()).Insert(ctx, &note, meta); err != nil {
		return nil, httperr(err)
	}

	// Return success
	return &note, nil
}

func (s *Store) UpdateNote(ctx context.Context, id string, meta schema.NoteMeta) (*schema.Note, error) {
	var note schema.Note
	if err := s.conn.Tx(ctx, func(conn pg.Conn) error {
		if err := conn.Update(ctx, &note, schema.NoteId(id), meta); err != nil {
			return err
		}
		attachments, err := listAttachments(ctx, conn, id)
		if err != nil {
			return err
		}
		note.Attachments = attachments
		return nil
	}); err != nil {
		return nil, httperr(err)
	}

	// Return success
	return &note, nil
}

func (s *Store) GetNote(ctx context.Context, id string) (*schema.Note, error) {
	var note schema.Note
	if err := s.conn.Get(ctx, &note, schema.NoteId(id)); err != nil {
		return nil, httperr(err)
	}
	attachments, err := listAttachments(ctx, s.conn, id)
	if err != nil {
		return nil, httperr(err)
	}
	note.Attachments = attachments

	// Return success
	return &note, nil
}

// DeleteNote deletes a note and its attachment records, returning the note
// as it was before deletion
func (s *Store) DeleteNote(ctx context.Context, id string) (*schema.Note, error) {
	var note schema.Note
	if err := s.conn.Tx(ctx, func(conn pg.Conn) error {
		attachments, err := listAttachments(ctx, conn, id)
		if err != nil {
			return err
		}
		if err := conn.Delete(ctx, &note, schema.NoteId(id)); err != nil {
			return err
		}
		note.Attachments = attachments
		return nil
	}); err != nil {
		return nil, httperr(err)
	}

	// Return success
	return &note, nil
}

// AddAttachment records an uploaded file against a note. Recording the same
// path twice has no effect.
func (s *Store) AddAttachment(ctx context.Context, id string, attachment schema.Attachment) error {
	var result schema.Attachment
	if err := s.conn.Insert(ctx, &result, schema.NoteAttachment{Note: schema.NoteId(id), Attachment: attachment}); err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == pgForeignKeyViolation {
			return httpresponse.ErrNotFound.Withf("note %q not found", id)
		}
		return httperr(err)
	}

	// Return success
	return nil
}

// ListAttachments returns the attachments of a note, oldest first
func (s *Store) ListAttachments(ctx context.Context, id string) ([]schema.Attachment, error) {
	attachments, err := listAttachments(ctx, s.conn, id)
	if err != nil {
		return nil, httperr(err)
	}
	return attachments, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func listAttachments(ctx context.Context, conn pg.Conn, id string) ([]schema.Attachment, error) {
	var list schema.AttachmentList
	if err := conn.List(ctx, &list, schema.AttachmentListRequest{Note: schema.NoteId(id)}); err != nil {
		return nil, err
	}
	return list.Body, nil
}

// probeErr treats an empty result as a reachable database
func probeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pg.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return nil
	default:
		return fmt.Errorf("%w: %v", notes.ErrConnection, err)
	}
}

func httperr(err error) error {
	if errors.Is(err, pg.ErrNotFound) {
		return httpresponse.ErrNotFound.With(err)
	}
	return err
}

func validate(meta schema.NoteMeta) error {
	return meta.Validate()
}

func validateId(id string) error {
	return schema.NoteId(id).Validate()
}
