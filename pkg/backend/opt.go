package backend

import (
	"fmt"
	"net/url"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	url       *url.URL
	awsConfig *aws.Config
	endpoint  string              // raw endpoint URL set via WithEndpoint; wired into awsConfig when both are present
	anonymous bool                // forces anonymous credentials
	tracer    trace.TracerProvider // when set, AWS SDK middleware is injected
	config    *schema.BucketConfig // attachment constraints, nil means unconstrained
}

type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func apply(url *url.URL, opts ...Opt) (*opt, error) {
	o := opt{url: url}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithEndpoint sets the S3 endpoint for S3-compatible services.
// For http:// endpoints, HTTPS is automatically disabled.
func WithEndpoint(endpoint string) Opt {
	return func(o *opt) error {
		if endpoint, err := url.Parse(endpoint); err != nil {
			return err
		} else if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
			return fmt.Errorf("endpoint must be http:// or https://, got %s://", endpoint.Scheme)
		} else {
			o.endpoint = endpoint.String()
			o.set("endpoint", endpoint.String())
			o.set("use_path_style", "true")
			if endpoint.Scheme == "http" {
				o.set("disable_https", "true")
			}
		}
		return nil
	}
}

// WithRegion sets the AWS region for s3:// URLs
func WithRegion(region string) Opt {
	return func(o *opt) error {
		o.set("region", region)
		return nil
	}
}

// WithAnonymous forces use of anonymous credentials
func WithAnonymous() Opt {
	return func(o *opt) error {
		o.anonymous = true
		o.set("anonymous", "true")
		return nil
	}
}

// WithCreateDir creates the directory for file:// URLs if it doesn't exist
func WithCreateDir() Opt {
	return func(o *opt) error {
		o.set("create_dir", "true")
		return nil
	}
}

// WithTracerProvider instruments S3 API calls with OpenTelemetry spans.
// It only has an effect for s3:// backends opened with WithAWSConfig.
func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(o *opt) error {
		o.tracer = tp
		return nil
	}
}

// WithAWSConfig provides an AWS SDK v2 Config directly. For s3:// URLs this
// config is used instead of the URL-based configuration.
func WithAWSConfig(cfg aws.Config) Opt {
	return func(o *opt) error {
		o.awsConfig = &cfg
		return nil
	}
}

// WithBucketConfig enforces the size and type constraints of the bucket on
// attachment uploads
func WithBucketConfig(config schema.BucketConfig) Opt {
	return func(o *opt) error {
		if config.MaxFileSize < 0 {
			return fmt.Errorf("max file size must not be negative: %d", config.MaxFileSize)
		}
		o.config = &config
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (o *opt) set(key, value string) {
	if o.url == nil {
		return
	}
	q := o.url.Query()
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	o.url.RawQuery = q.Encode()
}
