package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ProvisionState is a state of the bucket provisioning state machine
type ProvisionState string

// ProvisionStep records the outcome of one state
type ProvisionStep struct {
	State   ProvisionState `json:"state"`
	Ok      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
}

// ProvisionResult is the terminal outcome of a provisioning or repair run
type ProvisionResult struct {
	Success bool            `json:"success"`
	State   ProvisionState  `json:"state"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Steps   []ProvisionStep `json:"steps,omitempty"`
}

// Diagnosis reports the reachability of the database and the buckets
// visible to the storage credentials
type Diagnosis struct {
	Connected       bool     `json:"connected"`
	ConnectionError string   `json:"connection_error,omitempty"`
	BucketError     string   `json:"bucket_error,omitempty"`
	Bucket          string   `json:"bucket"`
	BucketFound     bool     `json:"bucket_found"`
	Buckets         []string `json:"buckets"`
}

// RepairResult is the outcome of a detect-and-fix pass. After is only set
// when a repair was attempted.
type RepairResult struct {
	Attempted bool       `json:"attempted"`
	Repaired  bool       `json:"repaired"`
	Error     string     `json:"error,omitempty"`
	Before    Diagnosis  `json:"before"`
	After     *Diagnosis `json:"after,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	SmokeTestPrefix = ".provision"
)

const (
	StateVerifyConnection     ProvisionState = "verify-connection"
	StateCreateOrUpdateBucket ProvisionState = "create-or-update-bucket"
	StateVerifyBucketVisible  ProvisionState = "verify-bucket-visible"
	StateSmokeTestUpload      ProvisionState = "smoke-test-upload"
	StateCleanupSmokeTest     ProvisionState = "cleanup-smoke-test"
	StateDone                 ProvisionState = "done"
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r ProvisionResult) String() string {
	return types.Stringify(r)
}

func (d Diagnosis) String() string {
	return types.Stringify(d)
}

func (r RepairResult) String() string {
	return types.Stringify(r)
}
