package backend

import (
	"context"
	"io"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetObject returns object metadata
func (b *blobbackend) GetObject(ctx context.Context, req schema.GetObjectRequest) (*schema.Object, error) {
	objPath := cleanPath(req.Path)
	if attrs, err := b.bucket.Attributes(ctx, b.key(req.Path)); err != nil {
		return nil, blobErr(err, b.Name()+":"+objPath)
	} else {
		return b.attrsToObject(objPath, attrs), nil
	}
}

// ReadObject returns a reader for the object content
func (b *blobbackend) ReadObject(ctx context.Context, req schema.ReadObjectRequest) (io.ReadCloser, *schema.Object, error) {
	sk := b.key(req.Path)
	objPath := cleanPath(req.Path)

	attrs, err := b.bucket.Attributes(ctx, sk)
	if err != nil {
		return nil, nil, blobErr(err, b.Name()+":"+objPath)
	}
	r, err := b.bucket.NewReader(ctx, sk, nil)
	if err != nil {
		return nil, nil, blobErr(err, b.Name()+":"+objPath)
	}
	return r, b.attrsToObject(objPath, attrs), nil
}
