package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// attachmentUnmarshaler streams the response body to fn in chunks and
// captures the object metadata from the response headers.
type attachmentUnmarshaler struct {
	obj *schema.Object
	fn  func([]byte) error
}

var _ client.Unmarshaler = (*attachmentUnmarshaler)(nil)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ReadAttachment downloads an attachment of a note by the base name of its
// path, calling fn with each chunk of the content. The attachment metadata
// is returned.
func (c *Client) ReadAttachment(ctx context.Context, id, file string, fn func([]byte) error) (*schema.Object, error) {
	reader := &attachmentUnmarshaler{fn: fn}
	if err := c.DoWithContext(ctx, client.NewRequestEx(http.MethodGet, ""), reader, client.OptPath("note", id, file), client.OptNoTimeout()); err != nil {
		return nil, err
	}
	return reader.obj, nil
}

///////////////////////////////////////////////////////////////////////////////
// INTERFACE IMPLEMENTATION

func (r *attachmentUnmarshaler) Unmarshal(header http.Header, reader io.Reader) error {
	r.obj = objectFromHeader(header)
	if r.fn == nil {
		return nil
	}
	buf := make([]byte, 32*1024)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if callErr := r.fn(buf[:n]); callErr != nil {
				return callErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func objectFromHeader(header http.Header) *schema.Object {
	obj := &schema.Object{
		Path:        header.Get(types.ContentPathHeader),
		ContentType: header.Get(types.ContentTypeHeader),
		ETag:        header.Get(types.ContentHashHeader),
		Size:        -1,
	}
	if v := header.Get(types.ContentLengthHeader); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			obj.Size = n
		}
	}
	if v := header.Get(types.ContentModifiedHeader); v != "" {
		if t, err := http.ParseTime(v); err == nil {
			obj.ModTime = t
		}
	}
	return obj
}
