package main

import (
	"context"
	"errors"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	client "github.com/mutablelogic/go-client"
	httpclient "github.com/mutablelogic/go-notes/pkg/httpclient"
	logging "github.com/mutablelogic/go-notes/pkg/logging"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	otel "go.opentelemetry.io/otel"
	metric "go.opentelemetry.io/otel/metric"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	Endpoint string        `env:"NOTES_ENDPOINT" default:"http://localhost:8080/api/notes" help:"Service endpoint"`
	Debug    bool          `help:"Enable debug output"`
	Trace    bool          `help:"Enable trace output"`
	Timeout  time.Duration `env:"NOTES_TIMEOUT" default:"30s" help:"Client request timeout"`

	vars   kong.Vars `kong:"-"` // Variables for kong
	ctx    context.Context
	cancel context.CancelFunc
	logger logging.Logger
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewApp(app Globals, vars kong.Vars) (*Globals, error) {
	// Set the vars
	app.vars = vars

	// Create the logger
	logger, err := logging.New(app.GetDebug())
	if err != nil {
		return nil, err
	}
	app.logger = logger

	// Create the context
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Return the app
	return &app, nil
}

func (app *Globals) Close() error {
	app.cancel()
	return logging.Sync(app.logger)
}

///////////////////////////////////////////////////////////////////////////////
// METHODS

func (app *Globals) Context() context.Context {
	return app.ctx
}

func (app *Globals) GetEndpoint() (*url.URL, error) {
	url, err := url.Parse(app.Endpoint)
	if err != nil {
		return nil, httpresponse.ErrBadRequest.Withf("Invalid endpoint: %v", err)
	} else if url.Host == "" {
		return nil, httpresponse.ErrBadRequest.Withf("Invalid endpoint: %q", app.Endpoint)
	}
	return url, nil
}

func (app *Globals) GetDebug() bool {
	return app.Debug || app.Trace
}

// Client builds a notes HTTP client for the endpoint
func (app *Globals) Client() (*httpclient.Client, error) {
	endpoint, err := app.GetEndpoint()
	if err != nil {
		return nil, err
	}
	opts := []client.ClientOpt{}
	if app.Trace {
		opts = append(opts, client.OptTrace(os.Stderr, app.Debug))
	}
	if app.Timeout > 0 {
		opts = append(opts, client.OptTimeout(app.Timeout))
	}
	return httpclient.New(endpoint.String(), opts...)
}

// Tracer and meter come from the global providers, which are no-ops
// unless an SDK has been installed
func (app *Globals) tracer() trace.Tracer {
	return otel.Tracer(schema.SchemaName)
}

func (app *Globals) meter() metric.Meter {
	return otel.Meter(schema.SchemaName)
}

func (app *Globals) tracerProvider() trace.TracerProvider {
	return otel.GetTracerProvider()
}

// closeAll closes every non-nil function and joins the errors
func closeAll(fns ...func() error) error {
	var result error
	for _, fn := range fns {
		if fn != nil {
			result = errors.Join(result, fn())
		}
	}
	return result
}
