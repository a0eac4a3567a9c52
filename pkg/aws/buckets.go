package aws

import (
	"context"
	"strconv"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	TagMaxFileSize = "notes-max-file-size"
	TagPublic      = "notes-public"
)

var _ notes.BucketAdmin = (*Client)(nil)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListBuckets lists all S3 buckets visible to the credentials
func (c *Client) ListBuckets(ctx context.Context) ([]schema.Bucket, error) {
	var result []schema.Bucket
	if err := listBuckets(ctx, c.s3, func(buckets []s3types.Bucket) error {
		for _, bucket := range buckets {
			result = append(result, schema.Bucket{
				ID:     types.PtrString(bucket.Name),
				Region: types.PtrString(bucket.BucketRegion),
			})
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Return the list of buckets
	return result, nil
}

// CreateBucket creates a bucket, without configuring it. Call UpdateBucket to
// apply the access policy and tags. If the bucket already exists,
// httpresponse.ErrConflict is returned.
func (c *Client) CreateBucket(ctx context.Context, config schema.BucketConfig) (*schema.Bucket, error) {
	if !types.IsIdentifier(config.ID) {
		return nil, httpresponse.ErrBadRequest.Withf("Invalid bucket name: %q", config.ID)
	}

	// The location constraint must be omitted for us-east-1
	input := &s3.CreateBucketInput{
		Bucket: aws.String(config.ID),
	}
	if c.region != "" && c.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}
	if _, err := c.s3.CreateBucket(ctx, input); err != nil {
		return nil, Err(err)
	}

	// Return the bucket
	return &schema.Bucket{
		ID:     config.ID,
		Region: c.region,
	}, nil
}

// UpdateBucket applies the access policy of the configuration to an existing
// bucket, and records the size constraint as a bucket tag. Type constraints
// are enforced by the storage backend on upload.
func (c *Client) UpdateBucket(ctx context.Context, config schema.BucketConfig) (*schema.Bucket, error) {
	if !types.IsIdentifier(config.ID) {
		return nil, httpresponse.ErrBadRequest.Withf("Invalid bucket name: %q", config.ID)
	}

	// Public buckets have no public access block
	private := !config.Public
	if _, err := c.s3.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(config.ID),
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(private),
			BlockPublicPolicy:     aws.Bool(private),
			IgnorePublicAcls:      aws.Bool(private),
			RestrictPublicBuckets: aws.Bool(private),
		},
	}); err != nil {
		return nil, Err(err)
	}

	// Tag the bucket
	if _, err := c.s3.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
		Bucket: aws.String(config.ID),
		Tagging: &s3types.Tagging{
			TagSet: []s3types.Tag{
				{Key: aws.String(TagMaxFileSize), Value: aws.String(strconv.FormatInt(config.MaxFileSize, 10))},
				{Key: aws.String(TagPublic), Value: aws.String(strconv.FormatBool(config.Public))},
			},
		},
	}); err != nil {
		return nil, Err(err)
	}

	// Return the bucket
	return &schema.Bucket{
		ID:     config.ID,
		Region: c.region,
		Public: config.Public,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func listBuckets(ctx context.Context, client *s3.Client, fn func(buckets []s3types.Bucket) error) error {
	var token *string
	for {
		buckets, err := client.ListBuckets(ctx, &s3.ListBucketsInput{
			ContinuationToken: token,
		})
		if err != nil {
			return Err(err)
		}
		if err := fn(buckets.Buckets); err != nil {
			return err
		}

		// Check if there are more buckets to list
		if types.PtrString(buckets.ContinuationToken) == "" {
			break
		}
		token = buckets.ContinuationToken
	}

	// Return success
	return nil
}
