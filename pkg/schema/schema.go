package schema

import (
	"context"

	// Packages
	pg "github.com/mutablelogic/go-pg"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	SchemaName = "notes"

	// HTTP headers
	ObjectMetaHeader = "X-Object-Meta"

	// AttrLastModified is the metadata key used to store the object modification time.
	// S3 normalizes metadata keys to lowercase, so we use lowercase for consistency.
	AttrLastModified = "last-modified"

	// AttrName is the metadata key holding the file name as the user staged it
	AttrName = "name"

	// AttrNote is the metadata key holding the owning note identifier
	AttrNote = "note"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Bootstrap creates the schema and its tables, when they do not exist
func Bootstrap(ctx context.Context, conn pg.Conn) error {
	// Create the schema
	if err := pg.SchemaCreate(ctx, conn, SchemaName); err != nil {
		return err
	}

	// Create tables
	if err := bootstrapNote(ctx, conn); err != nil {
		return err
	}
	if err := bootstrapAttachment(ctx, conn); err != nil {
		return err
	}

	// Return success
	return nil
}
