package attachment

import (
	"context"
	"errors"
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
	metric "go.opentelemetry.io/otel/metric"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Uploader drains a session into remote storage
type Uploader struct {
	*opt
	session *Session
	remote  Remote
	files   metric.Int64Counter
	bytes   metric.Int64Counter
}

// task is one file of an upload pass
type task struct {
	note string
	file schema.StagedFile
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	metricUploads = "notes.attachment.uploads"
	metricBytes   = "notes.attachment.bytes"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewUploader(session *Session, remote Remote, opts ...Opt) (*Uploader, error) {
	if session == nil || remote == nil {
		return nil, fmt.Errorf("%w: session and remote are required", notes.ErrBadParameter)
	}
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	self := &Uploader{opt: o, session: session, remote: remote}

	// Counters
	if self.files, err = o.meter.Int64Counter(metricUploads, metric.WithDescription("Attachment uploads attempted"), metric.WithUnit("{file}")); err != nil {
		return nil, err
	}
	if self.bytes, err = o.meter.Int64Counter(metricBytes, metric.WithDescription("Attachment bytes uploaded"), metric.WithUnit("By")); err != nil {
		return nil, err
	}

	// Return success
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// UploadPending uploads every staged file against the note, one at a time in
// staged order. A failed upload does not stop the pass and is not retried.
// The session is empty on return, whatever the outcome.
func (u *Uploader) UploadPending(ctx context.Context, note string, opts ...UploadOpt) schema.UploadSummary {
	summary := schema.UploadSummary{Note: note}
	if u.session.Len() == 0 {
		u.log.Debug(ctx, "no pending attachments, skipping upload", "note", note)
		return summary
	}

	var o uploadopt
	for _, fn := range opts {
		fn(&o)
	}

	// The session is emptied before any remote call
	tasks := make([]task, 0, u.session.Len())
	for _, file := range u.session.drain() {
		tasks = append(tasks, task{note: note, file: file})
	}

	for _, t := range tasks {
		result := u.run(ctx, t)
		if !result.Success {
			u.log.Error(ctx, "attachment upload failed", "note", note, "name", result.Name, "error", result.Error)
		}
		summary.Append(result)
		for _, fn := range o.progress {
			fn(result)
		}
	}

	u.log.Info(ctx, "attachments uploaded", "note", note, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// run uploads one file. A response reporting failure is a failure even
// without an error.
func (u *Uploader) run(ctx context.Context, t task) schema.UploadResult {
	result := schema.UploadResult{Name: t.file.Name, Size: t.file.Size}

	// OTEL span
	var err error
	child, endFunc := otel.StartSpan(u.tracer, ctx, "attachment.Upload")
	defer func() { endFunc(err) }()
	trace.SpanFromContext(child).SetAttributes(
		attribute.String("note", t.note),
		attribute.String("name", t.file.Name),
		attribute.Int64("size", t.file.Size),
	)

	resp, err := u.remote.Upload(child, t.note, t.file)
	switch {
	case err != nil:
		result.Error = err.Error()
	case resp == nil:
		err = fmt.Errorf("%w: no response", notes.ErrUploadFailure)
		result.Error = err.Error()
	case !resp.Success:
		err = errors.New(resp.Error)
		if resp.Error == "" {
			err = notes.ErrUploadFailure
		}
		result.Error = err.Error()
	default:
		result.Success = true
		result.Path = resp.Path
	}

	// Metrics
	attrs := metric.WithAttributes(attribute.Bool("success", result.Success))
	u.files.Add(ctx, 1, attrs)
	if result.Success {
		u.bytes.Add(ctx, t.file.Size, attrs)
	}

	return result
}
