package httpclient

import (
	"context"
	"net/http"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Diagnose reports database connectivity and the visible buckets
func (c *Client) Diagnose(ctx context.Context) (*schema.Diagnosis, error) {
	var response schema.Diagnosis
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("bucket")); err != nil {
		return nil, err
	}
	return &response, nil
}

// Provision runs bucket provisioning on the server. A failed run is
// returned as an error.
func (c *Client) Provision(ctx context.Context) (*schema.ProvisionResult, error) {
	var response schema.ProvisionResult
	if err := c.DoWithContext(ctx, client.NewRequestEx(http.MethodPost, types.ContentTypeJSON), &response, client.OptPath("bucket"), client.OptNoTimeout()); err != nil {
		return nil, err
	}
	return &response, nil
}

// Repair creates the bucket on the server when no buckets are visible
func (c *Client) Repair(ctx context.Context) (*schema.RepairResult, error) {
	var response schema.RepairResult
	if err := c.DoWithContext(ctx, client.NewRequestEx(http.MethodPost, types.ContentTypeJSON), &response, client.OptPath("bucket", "repair")); err != nil {
		return nil, err
	}
	return &response, nil
}
