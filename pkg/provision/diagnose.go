package provision

import (
	"context"
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	errgroup "golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Diagnose probes the database and lists the buckets concurrently. Failures
// are reported in the diagnosis.
func (p *Provisioner) Diagnose(ctx context.Context) schema.Diagnosis {
	child, endFunc := otel.StartSpan(p.tracer, ctx, "provision.Diagnose")
	defer func() { endFunc(nil) }()

	diagnosis := schema.Diagnosis{Bucket: p.config.ID}
	var probeErr, listErr error
	var buckets []schema.Bucket

	var g errgroup.Group
	g.Go(func() error {
		probeErr = p.prober.Probe(child)
		return nil
	})
	g.Go(func() error {
		buckets, listErr = p.admin.ListBuckets(child)
		return nil
	})
	_ = g.Wait()

	// Collect the results
	diagnosis.Connected = probeErr == nil
	if probeErr != nil {
		diagnosis.ConnectionError = probeErr.Error()
	}
	if listErr != nil {
		diagnosis.BucketError = listErr.Error()
	}
	diagnosis.Buckets = make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		diagnosis.Buckets = append(diagnosis.Buckets, bucket.ID)
	}
	diagnosis.BucketFound = hasBucket(buckets, p.config.ID)

	return diagnosis
}

// Repair diagnoses, and when no buckets are visible creates the bucket and
// diagnoses again. The bucket is created at most once per call. When the
// buckets cannot be listed, nothing is created.
func (p *Provisioner) Repair(ctx context.Context) schema.RepairResult {
	child, endFunc := otel.StartSpan(p.tracer, ctx, "provision.Repair")
	defer func() { endFunc(nil) }()

	result := schema.RepairResult{Before: p.Diagnose(child)}
	if result.Before.BucketError != "" {
		result.Error = fmt.Sprintf("repair skipped, unable to list buckets: %s", result.Before.BucketError)
		p.log.Warn(child, "unable to list buckets, no repair attempted", "error", result.Before.BucketError)
		return result
	}
	if len(result.Before.Buckets) > 0 {
		p.log.Info(child, "buckets are visible, no repair needed", "buckets", len(result.Before.Buckets))
		return result
	}

	// Attempt the repair
	result.Attempted = true
	p.log.Warn(child, "no buckets visible, attempting repair", "bucket", p.config.ID)
	if message, err := p.createOrUpdate(child); err != nil {
		result.Error = fmt.Sprintf("repair failed: %v", err)
		p.log.Error(child, "repair failed", "bucket", p.config.ID, "error", err)
	} else {
		p.log.Info(child, "repair complete", "message", message)
	}

	// Diagnose again
	after := p.Diagnose(child)
	result.After = &after
	result.Repaired = len(after.Buckets) > 0
	return result
}
