package httphandler

import (
	"net/http"

	// Packages
	provision "github.com/mutablelogic/go-notes/pkg/provision"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /bucket
// GET diagnoses the database and bucket. POST provisions the bucket.
func BucketHandler(prov *provision.Provisioner) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/bucket", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), prov.Diagnose(r.Context()))
			case http.MethodPost:
				_ = bucketProvision(w, r, prov)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Report database connectivity and the visible buckets",
			},
			Post: &openapi.Operation{
				Description: "Provision the attachment bucket",
			},
		})
}

// Path: /bucket/repair
// POST creates the bucket when no buckets are visible.
func BucketRepairHandler(prov *provision.Provisioner) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/bucket/repair", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), prov.Repair(r.Context()))
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Post: &openapi.Operation{
				Description: "Create the attachment bucket if no buckets are visible",
			},
		})
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// bucketProvision always returns the step log. A failed run is reported
// with 503 Service Unavailable.
func bucketProvision(w http.ResponseWriter, r *http.Request, prov *provision.Provisioner) error {
	result, err := prov.Provision(r.Context())
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	return httpresponse.JSON(w, status, httprequest.Indent(r), result)
}
