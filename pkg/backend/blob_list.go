package backend

import (
	"context"
	"fmt"
	"io"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	blob "gocloud.dev/blob"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListObjects lists a page of the objects under a path prefix. Use
// Recursive=true to list nested objects, or Recursive=false for immediate
// children only. The page starts at Offset and holds at most Limit objects;
// Count is the total number under the prefix.
func (b *blobbackend) ListObjects(ctx context.Context, req schema.ListObjectsRequest) (*schema.ListObjectsResponse, error) {
	response := schema.ListObjectsResponse{
		Name: b.Name(),
	}

	// Path is always treated as a prefix
	prefix := strings.TrimSuffix(b.key(req.Path), "/")
	if prefix != "" {
		prefix = prefix + "/"
	}
	limit := req.Limit
	if limit <= 0 || limit > schema.MaxListLimit {
		limit = schema.MaxListLimit
	}
	var delim string
	if !req.Recursive {
		delim = "/"
	}
	iter := b.bucket.List(&blob.ListOptions{
		Prefix:    prefix,
		Delimiter: delim,
	})

	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, blobErr(err, b.Name()+":"+cleanPath(req.Path))
		}

		// Skip the prefix itself and directories
		if obj.Key == prefix || obj.IsDir {
			continue
		}

		response.Count++
		if response.Count <= req.Offset || len(response.Body) >= limit {
			continue
		}
		o := schema.Object{
			Name:    b.Name(),
			Path:    b.pathFromKey(obj.Key),
			Size:    obj.Size,
			ModTime: obj.ModTime,
		}
		if len(obj.MD5) > 0 {
			o.ETag = fmt.Sprintf("%x", obj.MD5)
		}
		response.Body = append(response.Body, o)
	}

	// Return success
	return &response, nil
}
