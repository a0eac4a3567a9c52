package provision_test

import (
	"context"
	"errors"
	"testing"

	// Packages
	provision "github.com/mutablelogic/go-notes/pkg/provision"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_Diagnose_001(t *testing.T) {
	assert := assert.New(t)
	admin := newFakeAdmin()
	admin.buckets["other"] = schema.BucketConfig{ID: "other"}
	admin.buckets[schema.DefaultBucket] = schema.DefaultBucketConfig()
	p, err := provision.New(probeNoRows, admin, newStorage(t))
	require.NoError(t, err)

	d := p.Diagnose(context.TODO())
	assert.True(d.Connected)
	assert.Empty(d.ConnectionError)
	assert.Equal(schema.DefaultBucket, d.Bucket)
	assert.True(d.BucketFound)
	assert.ElementsMatch([]string{"other", schema.DefaultBucket}, d.Buckets)
}

func Test_Diagnose_002(t *testing.T) {
	assert := assert.New(t)
	admin := newFakeAdmin()
	admin.listErr = errors.New("list denied")
	p, err := provision.New(proberFunc(func(context.Context) error {
		return errors.New("connection refused")
	}), admin, newStorage(t))
	require.NoError(t, err)

	d := p.Diagnose(context.TODO())
	assert.False(d.Connected)
	assert.Equal("connection refused", d.ConnectionError)
	assert.Equal("list denied", d.BucketError)
	assert.False(d.BucketFound)
	assert.NotNil(d.Buckets)
	assert.Empty(d.Buckets)
}

func Test_Repair_001(t *testing.T) {
	// Nothing to repair when buckets are visible
	assert := assert.New(t)
	admin := newFakeAdmin()
	admin.buckets["other"] = schema.BucketConfig{ID: "other"}
	p, err := provision.New(probeNoRows, admin, newStorage(t))
	require.NoError(t, err)

	result := p.Repair(context.TODO())
	assert.False(result.Attempted)
	assert.Nil(result.After)
	assert.Equal([]string{"list"}, admin.Calls())
}

func Test_Repair_002(t *testing.T) {
	// No buckets: create once and diagnose again
	assert := assert.New(t)
	admin := newFakeAdmin()
	p, err := provision.New(probeNoRows, admin, newStorage(t))
	require.NoError(t, err)

	result := p.Repair(context.TODO())
	assert.True(result.Attempted)
	assert.True(result.Repaired)
	assert.Empty(result.Error)
	if assert.NotNil(result.After) {
		assert.True(result.After.BucketFound)
	}
	assert.Equal([]string{"list", "create", "update", "list"}, admin.Calls())
}

func Test_Repair_003(t *testing.T) {
	// A failed repair is attempted once only
	assert := assert.New(t)
	admin := newFakeAdmin()
	admin.createErr = errors.New("quota exceeded")
	p, err := provision.New(probeNoRows, admin, newStorage(t))
	require.NoError(t, err)

	result := p.Repair(context.TODO())
	assert.True(result.Attempted)
	assert.False(result.Repaired)
	assert.Contains(result.Error, "quota exceeded")
	assert.Equal([]string{"list", "create", "list"}, admin.Calls())
}

func Test_Repair_004(t *testing.T) {
	// A bucket which exists but is hidden counts as repaired only if it becomes visible
	assert := assert.New(t)
	admin := newFakeAdmin()
	admin.hidden = true
	p, err := provision.New(probeNoRows, admin, newStorage(t))
	require.NoError(t, err)

	result := p.Repair(context.TODO())
	assert.True(result.Attempted)
	assert.False(result.Repaired)
	assert.Empty(result.Error)
}

func Test_Repair_005(t *testing.T) {
	// No repair is attempted when the buckets cannot be listed
	assert := assert.New(t)
	admin := newFakeAdmin()
	admin.listErr = errors.New("list denied")
	p, err := provision.New(probeNoRows, admin, newStorage(t))
	require.NoError(t, err)

	result := p.Repair(context.TODO())
	assert.False(result.Attempted)
	assert.False(result.Repaired)
	assert.Contains(result.Error, "list denied")
	assert.Equal("list denied", result.Before.BucketError)
	assert.Nil(result.After)
	assert.Equal([]string{"list"}, admin.Calls())
}
