// Package attachment stages files chosen for a note before the note is
// saved, keeps a list view in step with the staged files, and uploads them
// once the note has an identifier.
//
// A Session is owned by a single editor and is not safe for concurrent use.
package attachment

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// View renders the staged files
type View interface {
	// List returns the list container, or false if it is absent
	List() (List, bool)
}

// List is the container of attachment rows. Each row is tagged with the
// file name and carries a removal control.
type List interface {
	AppendRow(file schema.StagedFile, size string) error
	RemoveRows(name string) int
	Show()
}

// Remote is the storage upload operation
type Remote interface {
	Upload(ctx context.Context, note string, file schema.StagedFile) (*schema.UploadResponse, error)
}

// SizeFormatter renders a byte count for display
type SizeFormatter func(int64) string
