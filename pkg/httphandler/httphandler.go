package httphandler

import (
	"errors"
	"net/http"

	// Packages
	manager "github.com/mutablelogic/go-notes/pkg/manager"
	provision "github.com/mutablelogic/go-notes/pkg/provision"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Router is the interface required to register HTTP handlers.
type Router interface {
	RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterHandlers registers all notes HTTP handlers on the provided router.
// The bucket handlers are only registered when a provisioner is given.
func RegisterHandlers(mgr *manager.Manager, prov *provision.Provisioner, router Router) error {
	var result error
	register := func(path string, handler http.HandlerFunc, spec *openapi.PathItem) {
		result = errors.Join(result, router.RegisterFunc(path, handler, true, spec))
	}
	register(NoteListHandler(mgr))
	register(NoteHandler(mgr))
	register(AttachmentHandler(mgr))
	if prov != nil {
		register(BucketHandler(prov))
		register(BucketRepairHandler(prov))
	}
	return result
}
