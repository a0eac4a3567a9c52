package backend

import (
	"context"
	"errors"
	"io"
	"maps"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	blob "gocloud.dev/blob"
	gcerrors "gocloud.dev/gcerrors"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateObject creates an object in the backend
func (b *blobbackend) CreateObject(ctx context.Context, req schema.CreateObjectRequest) (*schema.Object, error) {
	sk := b.key(req.Path)
	objPath := cleanPath(req.Path)
	if objPath == "/" {
		return nil, httpresponse.ErrBadRequest.With("missing object path")
	} else if req.Body == nil {
		return nil, httpresponse.ErrBadRequest.Withf("missing body for %q", objPath)
	}

	// Conditional create: reject if the object already exists
	if req.IfNotExists {
		if _, err := b.bucket.Attributes(ctx, sk); err == nil {
			return nil, httpresponse.ErrConflict.Withf("object %q already exists", b.Name()+":"+objPath)
		} else if gcerrors.Code(err) != gcerrors.NotFound {
			return nil, blobErr(err, b.Name()+":"+objPath)
		}
	}

	// Clone metadata to avoid mutating the caller's map
	var meta schema.ObjectMeta
	if req.Meta != nil || !req.ModTime.IsZero() {
		meta = make(schema.ObjectMeta, len(req.Meta)+1)
		maps.Copy(meta, req.Meta)
	}
	if !req.ModTime.IsZero() {
		meta[schema.AttrLastModified] = req.ModTime.Format(time.RFC3339)
	}

	// Write the object, removing partial writes on failure
	if w, err := b.bucket.NewWriter(ctx, sk, &blob.WriterOptions{
		ContentType: req.ContentType,
		Metadata:    meta,
	}); err != nil {
		return nil, blobErr(err, b.Name()+":"+objPath)
	} else if _, err := io.Copy(w, req.Body); err != nil {
		err = errors.Join(err, w.Close())
		b.bucket.Delete(ctx, sk)
		return nil, blobErr(err, b.Name()+":"+objPath)
	} else if err := w.Close(); err != nil {
		b.bucket.Delete(ctx, sk)
		return nil, blobErr(err, b.Name()+":"+objPath)
	}

	// The write succeeded, so a failure to read back attributes returns a
	// partial object rather than an error
	attrs, err := b.bucket.Attributes(ctx, sk)
	if err != nil {
		return &schema.Object{
			Name:        b.Name(),
			Path:        objPath,
			ContentType: req.ContentType,
			Meta:        meta,
		}, nil
	}

	// Return success
	return b.attrsToObject(objPath, attrs), nil
}
