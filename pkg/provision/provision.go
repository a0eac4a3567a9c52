package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Provisioner prepares the attachment bucket out-of-band
type Provisioner struct {
	*opt
	prober  notes.Prober
	admin   notes.BucketAdmin
	storage notes.Storage
}

// step is one state of the provisioning state machine. When fn fails and
// fatal is set, the run aborts with the error wrapped in fatal. Otherwise
// the failure is logged and the run continues.
type step struct {
	state schema.ProvisionState
	fn    func(context.Context, *run) (string, error)
	fatal error
}

// run carries state between steps
type run struct {
	smoketest string
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func New(prober notes.Prober, admin notes.BucketAdmin, storage notes.Storage, opts ...Opt) (*Provisioner, error) {
	if prober == nil || admin == nil || storage == nil {
		return nil, fmt.Errorf("%w: prober, bucket admin and storage are required", notes.ErrBadParameter)
	}
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return &Provisioner{opt: o, prober: prober, admin: admin, storage: storage}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Bucket returns the configuration being provisioned
func (p *Provisioner) Bucket() schema.BucketConfig {
	return p.config
}

// Provision runs the state machine through to Done, or until a fatal step
// fails. The result is always returned. On failure the error wraps one of
// ErrConnection, ErrProvisioning or ErrUploadPermission.
func (p *Provisioner) Provision(ctx context.Context) (result *schema.ProvisionResult, err error) {
	child, endFunc := otel.StartSpan(p.tracer, ctx, "provision.Provision")
	defer func() { endFunc(err) }()

	result = new(schema.ProvisionResult)
	state := new(run)
	for _, s := range p.steps() {
		result.State = s.state
		message, stepErr := s.fn(child, state)
		result.Steps = append(result.Steps, schema.ProvisionStep{
			State:   s.state,
			Ok:      stepErr == nil,
			Message: stepMessage(message, stepErr),
		})
		if stepErr == nil {
			p.log.Info(child, "provisioning step complete", "state", s.state, "message", message)
			continue
		}
		if s.fatal == nil {
			p.log.Warn(child, "provisioning step failed", "state", s.state, "error", stepErr)
			continue
		}

		// Abort the remaining steps
		err = fmt.Errorf("%w: %v", s.fatal, stepErr)
		result.Error = err.Error()
		p.log.Error(child, "provisioning aborted", "state", s.state, "error", stepErr)
		return result, err
	}

	// Return success
	result.State = schema.StateDone
	result.Success = true
	result.Message = fmt.Sprintf("bucket %q is ready", p.config.ID)
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (p *Provisioner) steps() []step {
	return []step{
		{schema.StateVerifyConnection, p.verifyConnection, notes.ErrConnection},
		{schema.StateCreateOrUpdateBucket, p.createOrUpdateBucket, notes.ErrProvisioning},
		{schema.StateVerifyBucketVisible, p.verifyBucketVisible, nil},
		{schema.StateSmokeTestUpload, p.smokeTestUpload, notes.ErrUploadPermission},
		{schema.StateCleanupSmokeTest, p.cleanupSmokeTest, nil},
	}
}

func (p *Provisioner) verifyConnection(ctx context.Context, _ *run) (string, error) {
	if err := p.prober.Probe(ctx); err != nil {
		return "", err
	}
	return "database is reachable", nil
}

func (p *Provisioner) createOrUpdateBucket(ctx context.Context, _ *run) (string, error) {
	return p.createOrUpdate(ctx)
}

// createOrUpdate creates the bucket when it does not exist, then applies the
// configuration. Only a failure to create is an error: a bucket which exists
// is good enough even if it cannot be configured.
func (p *Provisioner) createOrUpdate(ctx context.Context) (string, error) {
	_, err := p.admin.CreateBucket(ctx, p.config)
	if err == nil {
		if _, err := p.admin.UpdateBucket(ctx, p.config); err != nil {
			p.log.Warn(ctx, "bucket created but could not be configured", "bucket", p.config.ID, "error", err)
			return fmt.Sprintf("created bucket %q (configure failed: %v)", p.config.ID, err), nil
		}
		return fmt.Sprintf("created bucket %q", p.config.ID), nil
	} else if !errors.Is(err, httpresponse.ErrConflict) {
		return "", err
	}
	if _, err := p.admin.UpdateBucket(ctx, p.config); err != nil {
		p.log.Warn(ctx, "bucket exists but could not be updated", "bucket", p.config.ID, "error", err)
		return fmt.Sprintf("bucket %q already exists (update failed: %v)", p.config.ID, err), nil
	}
	return fmt.Sprintf("bucket %q already exists, updated", p.config.ID), nil
}

func (p *Provisioner) verifyBucketVisible(ctx context.Context, _ *run) (string, error) {
	buckets, err := p.admin.ListBuckets(ctx)
	if err != nil {
		return "", err
	}
	if !hasBucket(buckets, p.config.ID) {
		return "", httpresponse.ErrNotFound.Withf("bucket %q is not visible in %d bucket(s)", p.config.ID, len(buckets))
	}
	return fmt.Sprintf("bucket %q is visible", p.config.ID), nil
}

func (p *Provisioner) smokeTestUpload(ctx context.Context, r *run) (string, error) {
	path := types.JoinPath(schema.SmokeTestPrefix, "smoke-"+uuid.NewString()+".txt")
	if _, err := p.storage.CreateObject(ctx, schema.CreateObjectRequest{
		Path:        path,
		Body:        strings.NewReader("provisioning smoke test " + time.Now().UTC().Format(time.RFC3339)),
		ContentType: "text/plain",
	}); err != nil {
		return "", err
	}
	r.smoketest = path
	return fmt.Sprintf("wrote %q", path), nil
}

func (p *Provisioner) cleanupSmokeTest(ctx context.Context, r *run) (string, error) {
	if err := p.storage.Remove(ctx, r.smoketest); err != nil {
		return "", err
	}
	return fmt.Sprintf("removed %q", r.smoketest), nil
}

func hasBucket(buckets []schema.Bucket, id string) bool {
	for _, bucket := range buckets {
		if bucket.ID == id {
			return true
		}
	}
	return false
}

func stepMessage(message string, err error) string {
	if err != nil {
		return err.Error()
	}
	return message
}
