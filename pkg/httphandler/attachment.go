package httphandler

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	// Packages
	manager "github.com/mutablelogic/go-notes/pkg/manager"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /note/{id}/{file}
// GET downloads an attachment, HEAD returns its metadata. The file is the
// base name of the attachment path.
func AttachmentHandler(mgr *manager.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/note/{id}/{file}", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_ = attachmentGet(w, r, mgr, true)
			case http.MethodHead:
				_ = attachmentGet(w, r, mgr, false)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Download an attachment",
			},
			Head: &openapi.Operation{
				Description: "Get attachment metadata without body",
			},
		})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func attachmentGet(w http.ResponseWriter, r *http.Request, mgr *manager.Manager, body bool) error {
	reader, obj, err := mgr.ReadAttachment(r.Context(), r.PathValue("id"), r.PathValue("file"))
	if err != nil {
		return httpresponse.Error(w, err)
	}
	defer reader.Close()

	// Sniff the first block when the stored type is missing
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return httpresponse.Error(w, err)
	}

	sniffed := http.DetectContentType(buffer[:n])
	contentType := resolveContentType(obj.ContentType, sniffed, path.Ext(obj.Path))
	writeObjectHeaders(w, obj, contentType)
	if notModified(w, r, obj) {
		return nil
	}
	w.WriteHeader(http.StatusOK)
	if !body {
		return nil
	}

	if n > 0 {
		if _, err := w.Write(buffer[:n]); err != nil {
			return err
		}
	}
	if _, err := io.Copy(w, reader); err != nil {
		return err
	}

	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS - HELPER FUNCTIONS

// resolveContentType prefers the type recorded at upload, then the sniffed
// type, then the type of the file extension. The binary type is only used
// when nothing better is known.
func resolveContentType(stored, sniffed, ext string) string {
	for _, candidate := range []string{stored, sniffed, mime.TypeByExtension(ext)} {
		if candidate != "" && candidate != types.ContentTypeBinary {
			return candidate
		}
	}
	return types.ContentTypeBinary
}

// writeObjectHeaders sets the content, validator and download name headers.
// The download name is the file name as it was staged, when recorded.
func writeObjectHeaders(w http.ResponseWriter, obj *schema.Object, contentType string) {
	header := w.Header()
	header.Set(types.ContentTypeHeader, contentType)
	header.Set(types.ContentPathHeader, obj.Path)

	filename := obj.Meta[schema.AttrName]
	if filename == "" {
		filename = path.Base(obj.Path)
	}
	if filename != "." && filename != "/" {
		if disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); disposition != "" {
			header.Set(types.ContentDispositonHeader, disposition)
		}
	}
	if obj.Size >= 0 {
		header.Set(types.ContentLengthHeader, strconv.FormatInt(obj.Size, 10))
	}
	if obj.ETag != "" {
		header.Set(types.ContentHashHeader, obj.ETag)
	}
	if !obj.ModTime.IsZero() {
		header.Set(types.ContentModifiedHeader, obj.ModTime.UTC().Format(http.TimeFormat))
	}
}

// notModified writes 304 when the client copy is current. If-None-Match is
// compared weakly and takes precedence over If-Modified-Since.
func notModified(w http.ResponseWriter, r *http.Request, obj *schema.Object) bool {
	current := false
	if tags := r.Header.Get("If-None-Match"); tags != "" {
		current = matchETags(tags, obj.ETag)
	} else if since, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil && !obj.ModTime.IsZero() {
		current = !obj.ModTime.Truncate(time.Second).After(since)
	}
	if current {
		w.WriteHeader(http.StatusNotModified)
	}
	return current
}

// matchETags reports whether any tag in a comma-separated If-None-Match
// value matches etag, ignoring weak prefixes. "*" matches any object with
// an etag.
func matchETags(tags, etag string) bool {
	if etag == "" {
		return false
	}
	opaque := func(tag string) string {
		return strings.Trim(strings.TrimPrefix(strings.TrimSpace(tag), "W/"), `"`)
	}
	for tag := range strings.SplitSeq(tags, ",") {
		if strings.TrimSpace(tag) == "*" || opaque(tag) == opaque(etag) {
			return true
		}
	}
	return false
}
