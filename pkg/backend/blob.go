package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"syscall"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	blob "gocloud.dev/blob"
	s3blob "gocloud.dev/blob/s3blob"
	gcerrors "gocloud.dev/gcerrors"

	// Drivers
	_ "gocloud.dev/blob/fileblob" // file:// URLs
	_ "gocloud.dev/blob/memblob"  // mem:// URLs
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type blobbackend struct {
	*opt
	bucket *blob.Bucket
	prefix string // key prefix within the bucket (empty for file://)
}

var _ Backend = (*blobbackend)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewBlobBackend creates a new blob backend using Go CDK.
// Supported URL schemes: s3://, file://, mem://
// Examples:
//   - "s3://note-attachments?region=eu-west-1"
//   - "file://note-attachments/var/lib/notes"
//   - "mem://note-attachments"
//
// The host is the bucket name. For s3:// and mem:// the path is a key
// prefix within the bucket; for file:// the path is the root directory.
func NewBlobBackend(ctx context.Context, u string, opts ...Opt) (*blobbackend, error) {
	self := new(blobbackend)

	// Set the options
	if url, err := url.Parse(u); err != nil {
		return nil, err
	} else if opt, err := apply(url, opts...); err != nil {
		return nil, err
	} else {
		self.opt = opt
	}

	// Validate the bucket name
	if !types.IsIdentifier(self.url.Host) {
		return nil, httpresponse.ErrBadRequest.Withf("bucket name %q must be a valid identifier", self.url.Host)
	}
	if self.url.Scheme != "file" {
		self.prefix = strings.Trim(self.url.Path, "/")
	}

	// Open the bucket
	var bucket *blob.Bucket
	var err error
	switch {
	case self.url.Scheme == "s3" && self.awsConfig != nil:
		bucket, err = s3blob.OpenBucket(ctx, self.s3client(), self.url.Host, nil)
	case self.url.Scheme == "file":
		openURL := &url.URL{Scheme: "file", Path: self.url.Path, RawQuery: self.url.RawQuery}
		bucket, err = blob.OpenBucket(ctx, openURL.String())
	default:
		openURL := *self.url
		openURL.Path = ""
		openURL.RawPath = ""
		bucket, err = blob.OpenBucket(ctx, openURL.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	self.bucket = bucket

	// Return success
	return self, nil
}

// NewFileBackend creates a file-based backend for a named bucket, rooted at
// an absolute directory.
func NewFileBackend(ctx context.Context, name, dir string, opts ...Opt) (*blobbackend, error) {
	if !path.IsAbs(dir) {
		return nil, httpresponse.ErrBadRequest.Withf("backend dir %q must be an absolute path", dir)
	}
	return NewBlobBackend(ctx, "file://"+name+path.Clean(dir), opts...)
}

// Close the backend
func (b *blobbackend) Close() error {
	var result error
	if b.bucket != nil {
		result = errors.Join(result, b.bucket.Close())
		b.bucket = nil
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the bucket name
func (b *blobbackend) Name() string {
	return b.url.Host
}

// URL returns the backend URL
func (b *blobbackend) URL() *url.URL {
	u := *b.url
	return &u
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// s3client returns a client built from the AWS configuration, with a custom
// endpoint and tracing middleware when configured
func (b *blobbackend) s3client() *s3.Client {
	cfg := b.awsConfig.Copy()
	if b.anonymous {
		cfg.Credentials = aws.AnonymousCredentials{}
	}
	if b.tracer != nil {
		otelaws.AppendMiddlewares(&cfg.APIOptions, otelaws.WithTracerProvider(b.tracer))
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if b.endpoint != "" {
			o.BaseEndpoint = aws.String(b.endpoint)
			o.UsePathStyle = true
		}
	})
}

// key returns the storage key for a logical path
func (b *blobbackend) key(p string) string {
	sk := strings.TrimPrefix(cleanPath(p), "/")
	if b.prefix == "" {
		return sk
	} else if sk == "" {
		return b.prefix + "/"
	}
	return b.prefix + "/" + sk
}

// pathFromKey converts a storage key back to a logical path
func (b *blobbackend) pathFromKey(sk string) string {
	if b.prefix != "" {
		sk = strings.TrimPrefix(sk, b.prefix+"/")
	}
	return cleanPath(sk)
}

func (b *blobbackend) attrsToObject(objPath string, attrs *blob.Attributes) *schema.Object {
	obj := &schema.Object{
		Name:        b.Name(),
		Path:        objPath,
		Size:        attrs.Size,
		ModTime:     attrs.ModTime,
		ContentType: attrs.ContentType,
		ETag:        attrs.ETag,
	}
	if len(attrs.Metadata) > 0 {
		obj.Meta = attrs.Metadata
	}
	return obj
}

// cleanPath returns a rooted, cleaned path so that "../" cannot escape the bucket
func cleanPath(p string) string {
	return path.Clean("/" + p)
}

// blobErr wraps a go-cloud blob error with the appropriate httpresponse error
func blobErr(err error, url string) error {
	if err == nil {
		return nil
	}
	// OS-level errors are checked first, since the gcerrors default path
	// wraps with %v and breaks the chain
	if errors.Is(err, syscall.EISDIR) || errors.Is(err, syscall.EEXIST) {
		return httpresponse.ErrBadRequest.Withf("cannot overwrite directory with file: %q", url)
	}
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return httpresponse.ErrNotFound.Withf("object %q not found", url)
	case gcerrors.PermissionDenied:
		return httpresponse.ErrForbidden.Withf("permission denied for %q", url)
	case gcerrors.InvalidArgument:
		return httpresponse.ErrBadRequest.Withf("invalid argument for %q: %v", url, err)
	case gcerrors.FailedPrecondition, gcerrors.AlreadyExists:
		return httpresponse.ErrConflict.Withf("precondition failed for %q: %v", url, err)
	default:
		return httpresponse.ErrInternalError.Withf("blob operation failed: %v", err)
	}
}
