package schema

import (
	"mime"
	"slices"
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultBucket      = "note-attachments"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50 MiB
)

var (
	DefaultMimeTypes = []string{
		"image/*",
		"application/pdf",
		"text/plain",
		"text/markdown",
		"text/csv",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/zip",
	}
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// BucketConfig describes the remote bucket which holds note attachments
type BucketConfig struct {
	ID               string   `json:"id"`
	Public           bool     `json:"public"`
	MaxFileSize      int64    `json:"max_file_size,omitempty"`      // zero means unlimited
	AllowedMimeTypes []string `json:"allowed_mime_types,omitempty"` // empty means any type
}

// Bucket is a bucket as reported by the storage administration API
type Bucket struct {
	ID     string `json:"id"`
	Region string `json:"region,omitempty"`
	Public bool   `json:"public"`
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// DefaultBucketConfig returns the configuration used when none is provided
func DefaultBucketConfig() BucketConfig {
	return BucketConfig{
		ID:               DefaultBucket,
		Public:           false,
		MaxFileSize:      DefaultMaxFileSize,
		AllowedMimeTypes: slices.Clone(DefaultMimeTypes),
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// AllowsSize reports whether a file of the given size may be stored
func (c BucketConfig) AllowsSize(size int64) bool {
	return c.MaxFileSize <= 0 || size <= c.MaxFileSize
}

// AllowsType reports whether a content type may be stored. Entries in the
// allow-list can be exact ("application/pdf") or wildcards ("image/*").
// Parameters such as charset are ignored.
func (c BucketConfig) AllowsType(contentType string) bool {
	if len(c.AllowedMimeTypes) == 0 {
		return true
	}
	if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediatype
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range c.AllowedMimeTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		switch {
		case allowed == "*/*" || allowed == contentType:
			return true
		case strings.HasSuffix(allowed, "/*") && strings.HasPrefix(contentType, strings.TrimSuffix(allowed, "*")):
			return true
		}
	}
	return false
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c BucketConfig) String() string {
	return types.Stringify(c)
}

func (b Bucket) String() string {
	return types.Stringify(b)
}
