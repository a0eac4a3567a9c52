package schema_test

import (
	"testing"

	// Packages
	uuid "github.com/google/uuid"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	pg "github.com/mutablelogic/go-pg"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	assert "github.com/stretchr/testify/assert"
)

func Test_NoteMeta_001(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(schema.NoteMeta{Title: "Title"}.Validate())
	assert.ErrorIs(schema.NoteMeta{}.Validate(), httpresponse.ErrBadRequest)
	assert.ErrorIs(schema.NoteMeta{Title: " \t"}.Validate(), httpresponse.ErrBadRequest)

	// Writers reject a missing title before binding
	_, err := schema.NoteMeta{}.Insert(nil)
	assert.ErrorIs(err, httpresponse.ErrBadRequest)
	assert.ErrorIs(schema.NoteMeta{}.Update(nil), httpresponse.ErrBadRequest)
}

func Test_NoteId_001(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(schema.NoteId(uuid.NewString()).Validate())
	assert.ErrorIs(schema.NoteId("").Validate(), httpresponse.ErrBadRequest)
	assert.ErrorIs(schema.NoteId("not-a-uuid").Validate(), httpresponse.ErrBadRequest)

	// Selectors reject an invalid identifier before binding
	_, err := schema.NoteId("not-a-uuid").Select(nil, pg.Get)
	assert.ErrorIs(err, httpresponse.ErrBadRequest)
	_, err = schema.AttachmentListRequest{Note: "bad"}.Select(nil, pg.List)
	assert.ErrorIs(err, httpresponse.ErrBadRequest)
}

func Test_NoteAttachment_001(t *testing.T) {
	assert := assert.New(t)
	id := schema.NoteId(uuid.NewString())

	_, err := schema.NoteAttachment{Note: "bad", Attachment: schema.Attachment{Name: "a", Path: "/x/a"}}.Insert(nil)
	assert.ErrorIs(err, httpresponse.ErrBadRequest)
	_, err = schema.NoteAttachment{Note: id, Attachment: schema.Attachment{Name: "a"}}.Insert(nil)
	assert.ErrorIs(err, httpresponse.ErrBadRequest)
	assert.ErrorIs(schema.NoteAttachment{Note: id}.Update(nil), httpresponse.ErrNotImplemented)
}
