package attachment

import (
	// Packages
	logging "github.com/mutablelogic/go-notes/pkg/logging"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	metric "go.opentelemetry.io/otel/metric"
	noop "go.opentelemetry.io/otel/metric/noop"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for the stager and uploader
type Opt func(*opt) error

type opt struct {
	log    logging.Logger
	tracer trace.Tracer
	meter  metric.Meter
	format SizeFormatter
}

// UploadOpt is an option for a single upload pass
type UploadOpt func(*uploadopt)

type uploadopt struct {
	progress []func(schema.UploadResult)
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(opts ...Opt) (*opt, error) {
	o := opt{
		log:    logging.Nop(),
		meter:  noop.NewMeterProvider().Meter(schema.SchemaName),
		format: HumanSize,
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

// WithLogger sets the logger
func WithLogger(log logging.Logger) Opt {
	return func(o *opt) error {
		if log != nil {
			o.log = log
		}
		return nil
	}
}

// WithTracer creates a span for each upload
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opt) error {
		o.tracer = tracer
		return nil
	}
}

// WithMeter records upload counters
func WithMeter(meter metric.Meter) Opt {
	return func(o *opt) error {
		if meter != nil {
			o.meter = meter
		}
		return nil
	}
}

// WithFormatter sets the size formatter for list rows. A nil formatter
// renders the literal byte count.
func WithFormatter(format SizeFormatter) Opt {
	return func(o *opt) error {
		o.format = format
		return nil
	}
}

// WithProgress is called with each result as the upload pass produces it
func WithProgress(fn func(schema.UploadResult)) UploadOpt {
	return func(o *uploadopt) {
		if fn != nil {
			o.progress = append(o.progress, fn)
		}
	}
}
