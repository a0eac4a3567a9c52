package aws

import (
	"net/url"

	// Packages
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	endpoint *string
	region   *string
	key      string
	secret   string
	tracer   trace.TracerProvider
}

// Opt represents a function that modifies the options
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(opts ...Opt) (*opt, error) {
	var o opt
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithEndpoint sets an S3-compatible endpoint, which also enables
// path-style addressing
func WithEndpoint(endpoint string) Opt {
	return func(o *opt) error {
		if endpoint == "" {
			o.endpoint = nil
		} else if url, err := url.Parse(endpoint); err != nil {
			return httpresponse.ErrBadRequest.Withf("Invalid S3 endpoint: %s", err)
		} else if url.Scheme != "http" && url.Scheme != "https" {
			return httpresponse.ErrBadRequest.Withf("Invalid S3 endpoint scheme: %q", url.Scheme)
		} else {
			o.endpoint = types.StringPtr(url.String())
		}
		return nil
	}
}

// WithRegion sets the AWS region
func WithRegion(region string) Opt {
	return func(o *opt) error {
		o.region = &region
		return nil
	}
}

// WithCredentials uses static credentials rather than the default chain
func WithCredentials(key, secret string) Opt {
	return func(o *opt) error {
		if key == "" || secret == "" {
			return httpresponse.ErrBadRequest.With("Access key and secret are both required")
		}
		o.key, o.secret = key, secret
		return nil
	}
}

// WithTracerProvider produces a span for every S3 API call
func WithTracerProvider(tp trace.TracerProvider) Opt {
	return func(o *opt) error {
		o.tracer = tp
		return nil
	}
}
