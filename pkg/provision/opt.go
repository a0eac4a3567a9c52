package provision

import (
	"fmt"

	// Packages
	logging "github.com/mutablelogic/go-notes/pkg/logging"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for the provisioner
type Opt func(*opt) error

type opt struct {
	log    logging.Logger
	tracer trace.Tracer
	config schema.BucketConfig
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(opts ...Opt) (*opt, error) {
	o := opt{
		log:    logging.Nop(),
		config: schema.DefaultBucketConfig(),
	}
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

func WithLogger(log logging.Logger) Opt {
	return func(o *opt) error {
		if log != nil {
			o.log = log
		}
		return nil
	}
}

func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opt) error {
		o.tracer = tracer
		return nil
	}
}

// WithBucketConfig sets the bucket to provision
func WithBucketConfig(config schema.BucketConfig) Opt {
	return func(o *opt) error {
		if !types.IsIdentifier(config.ID) {
			return fmt.Errorf("invalid bucket id: %q", config.ID)
		}
		o.config = config
		return nil
	}
}
