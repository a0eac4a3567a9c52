package backend

import (
	"net/url"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		wantErr   bool
		wantQuery map[string]string
	}{
		{
			name:     "http endpoint",
			endpoint: "http://localhost:9000",
			wantQuery: map[string]string{
				"endpoint":       "http://localhost:9000",
				"use_path_style": "true",
				"disable_https":  "true",
			},
		},
		{
			name:     "https endpoint",
			endpoint: "https://s3.example.com",
			wantQuery: map[string]string{
				"endpoint":       "https://s3.example.com",
				"use_path_style": "true",
				"disable_https":  "",
			},
		},
		{
			name:     "invalid scheme",
			endpoint: "ftp://example.com",
			wantErr:  true,
		},
		{
			name:     "invalid URL",
			endpoint: "://invalid",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			u, err := url.Parse("s3://note-attachments")
			require.NoError(t, err)

			o, err := apply(u, WithEndpoint(tt.endpoint))
			if tt.wantErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			assert.Equal(tt.endpoint, o.endpoint)
			for key, want := range tt.wantQuery {
				assert.Equal(want, o.url.Query().Get(key), "query param %q", key)
			}
		})
	}
}

func TestCombinedOptions(t *testing.T) {
	assert := assert.New(t)
	u, err := url.Parse("s3://note-attachments")
	require.NoError(t, err)

	o, err := apply(u,
		WithRegion("eu-west-1"),
		WithAnonymous(),
		WithBucketConfig(schema.DefaultBucketConfig()),
	)
	require.NoError(t, err)
	assert.Equal("eu-west-1", o.url.Query().Get("region"))
	assert.Equal("true", o.url.Query().Get("anonymous"))
	assert.True(o.anonymous)
	if assert.NotNil(o.config) {
		assert.Equal(schema.DefaultBucket, o.config.ID)
	}
}

func TestWithBucketConfig(t *testing.T) {
	_, err := apply(nil, WithBucketConfig(schema.BucketConfig{ID: "x", MaxFileSize: -1}))
	assert.Error(t, err)
}

func TestApplyWithNilURL(t *testing.T) {
	o, err := apply(nil, WithRegion("us-east-1"), WithCreateDir())
	require.NoError(t, err)
	assert.Nil(t, o.url)
}
