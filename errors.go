package notes

import "errors"

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	// The attachment list container is not present in the view
	ErrMissingView = errors.New("attachment list view is missing")

	// The note database cannot be reached
	ErrConnection = errors.New("connection failed")

	// The bucket could not be created
	ErrProvisioning = errors.New("bucket provisioning failed")

	// The bucket exists but rejected a write
	ErrUploadPermission = errors.New("upload permission denied")

	// A single file failed to upload
	ErrUploadFailure = errors.New("upload failed")

	// An argument is missing or invalid
	ErrBadParameter = errors.New("bad parameter")
)
