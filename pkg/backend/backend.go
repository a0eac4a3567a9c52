package backend

import (
	"context"
	"io"
	"net/url"

	// Packages
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Backend is attachment storage with direct object access
type Backend interface {
	io.Closer
	notes.Storage

	// Name returns the name of the backend (the bucket)
	Name() string

	// URL returns the backend destination URL. Query parameters carry
	// non-credential details such as region and endpoint.
	URL() *url.URL

	// Get object metadata
	GetObject(context.Context, schema.GetObjectRequest) (*schema.Object, error)

	// Delete a single object
	DeleteObject(context.Context, schema.GetObjectRequest) (*schema.Object, error)
}
