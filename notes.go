package notes

import (
	"context"
	"io"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Storage is the remote object store which holds note attachments
type Storage interface {
	// Upload a staged file against a note. A nil error with a response
	// reporting Success=false is a failed upload.
	Upload(ctx context.Context, note string, file schema.StagedFile) (*schema.UploadResponse, error)

	// Remove objects by path. Missing objects are not an error.
	Remove(ctx context.Context, paths ...string) error

	// Create an object
	CreateObject(context.Context, schema.CreateObjectRequest) (*schema.Object, error)

	// List objects under a path
	ListObjects(context.Context, schema.ListObjectsRequest) (*schema.ListObjectsResponse, error)

	// Read object content. The caller must close the returned reader.
	ReadObject(context.Context, schema.ReadObjectRequest) (io.ReadCloser, *schema.Object, error)
}

// BucketAdmin administers the bucket which backs the Storage. Creating a
// bucket which already exists returns httpresponse.ErrConflict.
type BucketAdmin interface {
	CreateBucket(context.Context, schema.BucketConfig) (*schema.Bucket, error)
	UpdateBucket(context.Context, schema.BucketConfig) (*schema.Bucket, error)
	ListBuckets(context.Context) ([]schema.Bucket, error)
}

// Prober confirms connectivity to the note database
type Prober interface {
	// Probe issues a lightweight read. An empty result is success.
	Probe(context.Context) error
}

// NoteStore persists notes and the attachments recorded against them
type NoteStore interface {
	Prober

	CreateNote(context.Context, schema.NoteMeta) (*schema.Note, error)
	UpdateNote(ctx context.Context, id string, meta schema.NoteMeta) (*schema.Note, error)
	GetNote(ctx context.Context, id string) (*schema.Note, error)
	DeleteNote(ctx context.Context, id string) (*schema.Note, error)

	AddAttachment(ctx context.Context, id string, attachment schema.Attachment) error
	ListAttachments(ctx context.Context, id string) ([]schema.Attachment, error)
}
