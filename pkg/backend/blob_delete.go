package backend

import (
	"context"
	"errors"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// DeleteObject deletes a single object, returning its last known metadata
func (b *blobbackend) DeleteObject(ctx context.Context, req schema.GetObjectRequest) (*schema.Object, error) {
	sk := b.key(req.Path)
	objPath := cleanPath(req.Path)

	// Attributes may not exist, continue with delete
	attrs, _ := b.bucket.Attributes(ctx, sk)
	if err := b.bucket.Delete(ctx, sk); err != nil {
		return nil, blobErr(err, b.Name()+":"+objPath)
	}

	if attrs != nil {
		return b.attrsToObject(objPath, attrs), nil
	}
	return &schema.Object{Name: b.Name(), Path: objPath}, nil
}

// Remove deletes objects by path. Objects which do not exist are skipped;
// all other errors are joined and returned after every path is attempted.
func (b *blobbackend) Remove(ctx context.Context, paths ...string) error {
	var result error
	for _, p := range paths {
		if _, err := b.DeleteObject(ctx, schema.GetObjectRequest{Path: p}); errors.Is(err, httpresponse.ErrNotFound) {
			continue
		} else if err != nil {
			result = errors.Join(result, err)
		}
	}
	return result
}
