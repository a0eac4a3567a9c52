package aws

import (
	"context"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	config "github.com/aws/aws-sdk-go-v2/config"
	credentials "github.com/aws/aws-sdk-go-v2/credentials"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Client administers S3 buckets
type Client struct {
	region string
	config aws.Config
	s3     *s3.Client
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func New(ctx context.Context, opt ...Opt) (*Client, error) {
	client := new(Client)
	opts, err := applyOpts(opt...)
	if err != nil {
		return nil, err
	}

	// Load the default configuration
	var loaders []func(*config.LoadOptions) error
	if opts.region != nil {
		loaders = append(loaders, config.WithRegion(*opts.region))
	}
	if opts.key != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.key, opts.secret, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, Err(err)
	}
	if opts.tracer != nil {
		otelaws.AppendMiddlewares(&cfg.APIOptions, otelaws.WithTracerProvider(opts.tracer))
	}
	client.config = cfg
	client.region = cfg.Region

	// Create the S3 client
	client.s3 = s3.NewFromConfig(cfg, func(o *s3.Options) {
		// Without a region, requests go unsigned to the endpoint
		if o.Region == "" {
			o.Credentials = nil
			o.Region = "none"
		}
		if opts.endpoint != nil {
			o.BaseEndpoint = opts.endpoint
			o.UsePathStyle = true
		}
	})

	// Return success
	return client, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// S3 returns the underlying S3 client
func (c *Client) S3() *s3.Client {
	return c.s3
}

// Config returns the AWS configuration, which can be shared with a blob backend
func (c *Client) Config() aws.Config {
	return c.config
}

// Region returns the configured region, which may be empty
func (c *Client) Region() string {
	return c.region
}
