package schema

import (
	"io"
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// MaxListLimit caps the objects in one listing page
const MaxListLimit = 1000

////////////////////////////////////////////////////////////////////////////////
// TYPES

// CreateObjectRequest writes an object to attachment storage. Uploads and
// the provisioning smoke test both go through it.
type CreateObjectRequest struct {
	Path        string
	Body        io.Reader `json:"-"`
	ContentType string
	ModTime     time.Time
	Meta        ObjectMeta
	IfNotExists bool // Conflict rather than overwrite
}

// ObjectMeta is stored alongside an object. Uploads record the staged file
// name (AttrName) and the owning note (AttrNote). Stores such as S3 fold
// keys to lowercase.
type ObjectMeta map[string]string

// Object describes a stored attachment or smoke test payload. Path is
// rooted within the bucket, for example "/<note>/<key>_<name>".
type Object struct {
	Name        string     `json:"name,omitempty"` // bucket
	Path        string     `json:"path,omitempty"`
	Size        int64      `json:"size"`
	ModTime     time.Time  `json:"modtime,omitzero"`
	ContentType string     `json:"type,omitempty"`
	ETag        string     `json:"etag,omitempty"`
	Meta        ObjectMeta `json:"meta,omitempty"`
}

// ListObjectsRequest pages through the objects under a path, such as the
// attachments of one note. A zero Limit, or one above MaxListLimit, returns
// MaxListLimit objects.
type ListObjectsRequest struct {
	Path      string `json:"path,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	Offset    int    `json:"offset,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type GetObjectRequest struct {
	Path string
}

type ReadObjectRequest struct {
	GetObjectRequest
}

// ListObjectsResponse is one page of a listing. Count is the number of
// objects under the path, whatever the page.
type ListObjectsResponse struct {
	Name  string   `json:"name,omitempty"`
	Count int      `json:"count"`
	Body  []Object `json:"body,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (o Object) String() string {
	return types.Stringify(o)
}

func (r CreateObjectRequest) String() string {
	return types.Stringify(r)
}

func (r ListObjectsRequest) String() string {
	return types.Stringify(r)
}

func (r ListObjectsResponse) String() string {
	return types.Stringify(r)
}
