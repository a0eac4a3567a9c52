package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	// Packages
	backend "github.com/mutablelogic/go-notes/pkg/backend"
	httpclient "github.com/mutablelogic/go-notes/pkg/httpclient"
	httphandler "github.com/mutablelogic/go-notes/pkg/httphandler"
	manager "github.com/mutablelogic/go-notes/pkg/manager"
	provision "github.com/mutablelogic/go-notes/pkg/provision"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	store "github.com/mutablelogic/go-notes/pkg/store"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
)

// muxRouter registers handlers on a ServeMux
type muxRouter struct {
	*http.ServeMux
}

func (m muxRouter) RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error {
	m.HandleFunc(path, handler)
	return nil
}

// memAdmin keeps bucket names in memory
type memAdmin struct {
	sync.Mutex
	buckets []schema.Bucket
}

func (a *memAdmin) CreateBucket(_ context.Context, config schema.BucketConfig) (*schema.Bucket, error) {
	a.Lock()
	defer a.Unlock()
	for _, bucket := range a.buckets {
		if bucket.ID == config.ID {
			return nil, httpresponse.ErrConflict.Withf("bucket %q already exists", config.ID)
		}
	}
	a.buckets = append(a.buckets, schema.Bucket{ID: config.ID})
	return &schema.Bucket{ID: config.ID}, nil
}

func (a *memAdmin) UpdateBucket(_ context.Context, config schema.BucketConfig) (*schema.Bucket, error) {
	return &schema.Bucket{ID: config.ID}, nil
}

func (a *memAdmin) ListBuckets(context.Context) ([]schema.Bucket, error) {
	a.Lock()
	defer a.Unlock()
	return append([]schema.Bucket(nil), a.buckets...), nil
}

func newTestServer(t *testing.T) *httpclient.Client {
	t.Helper()
	storage, err := backend.NewBlobBackend(context.Background(), "mem://"+schema.DefaultBucket)
	if err != nil {
		t.Fatalf("newTestServer: failed to create backend: %v", err)
	}
	notes := store.NewMemory()
	mgr, err := manager.New(notes, storage)
	if err != nil {
		t.Fatalf("newTestServer: failed to create manager: %v", err)
	}
	prov, err := provision.New(notes, new(memAdmin), storage)
	if err != nil {
		t.Fatalf("newTestServer: failed to create provisioner: %v", err)
	}
	mux := http.NewServeMux()
	if err := httphandler.RegisterHandlers(mgr, prov, muxRouter{mux}); err != nil {
		t.Fatalf("newTestServer: failed to register handlers: %v", err)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		storage.Close()
	})

	c, err := httpclient.New(srv.URL)
	if err != nil {
		t.Fatalf("newTestServer: failed to create client: %v", err)
	}
	return c
}
