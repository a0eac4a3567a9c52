package httphandler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	assert "github.com/stretchr/testify/assert"
)

func Test_ResolveContentType_001(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		stored, sniffed, ext, want string
	}{
		{"application/pdf", "text/plain; charset=utf-8", ".txt", "application/pdf"},
		{"", "image/png", ".txt", "image/png"},
		{types.ContentTypeBinary, "image/png", "", "image/png"},
		{"", types.ContentTypeBinary, ".json", "application/json"},
		{types.ContentTypeBinary, types.ContentTypeBinary, "", types.ContentTypeBinary},
		{"", "", "", types.ContentTypeBinary},
	}
	for _, test := range tests {
		assert.Equal(test.want, resolveContentType(test.stored, test.sniffed, test.ext), test)
	}
}

func Test_MatchETags_001(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		tags, etag string
		want       bool
	}{
		{`"a"`, `"a"`, true},
		{`W/"a"`, `"a"`, true},
		{`"a"`, `W/"a"`, true},
		{`"x", "a"`, `"a"`, true},
		{`"x", W/"y"`, `"a"`, false},
		{"*", `"a"`, true},
		{"*", "", false},
		{`""`, "", false},
	}
	for _, test := range tests {
		assert.Equal(test.want, matchETags(test.tags, test.etag), test)
	}
}

func Test_NotModified_001(t *testing.T) {
	modified := time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC)
	obj := &schema.Object{Path: "/n/a.txt", ETag: `"abc"`, ModTime: modified}

	tests := []struct {
		name   string
		header map[string]string
		want   bool
	}{
		{"no validators", nil, false},
		{"etag match", map[string]string{"If-None-Match": `"abc"`}, true},
		{"etag mismatch", map[string]string{"If-None-Match": `"xyz"`}, false},
		{"etag takes precedence", map[string]string{"If-None-Match": `"xyz"`, "If-Modified-Since": modified.Add(time.Hour).Format(http.TimeFormat)}, false},
		{"same second", map[string]string{"If-Modified-Since": modified.Format(http.TimeFormat)}, true},
		{"modified since", map[string]string{"If-Modified-Since": modified.Add(-time.Hour).Format(http.TimeFormat)}, false},
		{"invalid date", map[string]string{"If-Modified-Since": "yesterday"}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/note/n/a.txt", nil)
			for key, value := range test.header {
				req.Header.Set(key, value)
			}
			rw := httptest.NewRecorder()
			assert.Equal(t, test.want, notModified(rw, req, obj))
			if test.want {
				assert.Equal(t, http.StatusNotModified, rw.Code)
			}
		})
	}
}
