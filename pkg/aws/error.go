package aws

import (
	"errors"

	// Packages
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Err transforms an AWS error into an httpresponse error. A bucket which
// already exists is always a conflict, whatever the status code.
func Err(err error) error {
	if err == nil {
		return nil
	}
	var exists *s3types.BucketAlreadyExists
	var owned *s3types.BucketAlreadyOwnedByYou
	var nobucket *s3types.NoSuchBucket
	var awserr *awshttp.ResponseError
	switch {
	case errors.As(err, &exists), errors.As(err, &owned):
		return httpresponse.ErrConflict.With(err.Error())
	case errors.As(err, &nobucket):
		return httpresponse.ErrNotFound.With(err.Error())
	case errors.As(err, &awserr):
		return httpresponse.Err(awserr.HTTPStatusCode()).With(awserr.Error())
	}
	return err
}
