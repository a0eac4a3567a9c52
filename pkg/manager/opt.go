package manager

import (
	"fmt"

	// Packages
	notes "github.com/mutablelogic/go-notes"
	attachment "github.com/mutablelogic/go-notes/pkg/attachment"
	logging "github.com/mutablelogic/go-notes/pkg/logging"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	metric "go.opentelemetry.io/otel/metric"
	noop "go.opentelemetry.io/otel/metric/noop"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for notes manager configuration.
type Opt func(*opts) error

type opts struct {
	log    logging.Logger
	tracer trace.Tracer
	meter  metric.Meter
	format attachment.SizeFormatter
	limit  int
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithLogger sets the logger used by the manager and its editors.
func WithLogger(log logging.Logger) Opt {
	return func(o *opts) error {
		if log != nil {
			o.log = log
		}
		return nil
	}
}

// WithTracer sets the tracer used for tracing operations.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithMeter sets the meter used for upload counters.
func WithMeter(meter metric.Meter) Opt {
	return func(o *opts) error {
		if meter != nil {
			o.meter = meter
		}
		return nil
	}
}

// WithFormatter sets how file sizes are rendered in the attachment list.
// A nil formatter renders the byte count.
func WithFormatter(format attachment.SizeFormatter) Opt {
	return func(o *opts) error {
		o.format = format
		return nil
	}
}

// WithListLimit sets the page size used when listing the objects under a
// note. Zero uses the storage maximum.
func WithListLimit(limit int) Opt {
	return func(o *opts) error {
		if limit < 0 || limit > schema.MaxListLimit {
			return fmt.Errorf("%w: list limit %d out of range", notes.ErrBadParameter, limit)
		}
		o.limit = limit
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	// Set defaults
	o := opts{
		log:    logging.Nop(),
		meter:  noop.NewMeterProvider().Meter(schema.SchemaName),
		format: attachment.HumanSize,
	}

	// Apply options
	for _, fn := range opt {
		if err := fn(&o); err != nil {
			return opts{}, err
		}
	}

	// Return success
	return o, nil
}

// attachmentOpts passes the manager configuration to the stager and uploader
func (o opts) attachmentOpts() []attachment.Opt {
	return []attachment.Opt{
		attachment.WithLogger(o.log),
		attachment.WithTracer(o.tracer),
		attachment.WithMeter(o.meter),
		attachment.WithFormatter(o.format),
	}
}
