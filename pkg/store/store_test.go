package store_test

import (
	"context"
	"testing"

	// Packages
	uuid "github.com/google/uuid"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	store "github.com/mutablelogic/go-notes/pkg/store"
	test "github.com/mutablelogic/go-pg/pkg/test"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// Global connection variable
var conn test.Conn

// Start up a container and test the pool
func TestMain(m *testing.M) {
	test.Main(m, &conn)
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	conn := conn.Begin(t)
	t.Cleanup(func() { conn.Close() })
	s, err := store.New(context.TODO(), conn)
	require.NoError(t, err)
	return s
}

/////////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_Probe_001(t *testing.T) {
	assert := assert.New(t)
	s := newStore(t)

	// An empty table is reachable
	assert.NoError(s.Probe(context.TODO()))

	// A table with rows is reachable
	_, err := s.CreateNote(context.TODO(), schema.NoteMeta{Title: "a"})
	require.NoError(t, err)
	assert.NoError(s.Probe(context.TODO()))
}

func Test_Store_001(t *testing.T) {
	// Bootstrapping twice is harmless
	conn := conn.Begin(t)
	defer conn.Close()

	_, err := store.New(context.TODO(), conn)
	require.NoError(t, err)
	_, err = store.New(context.TODO(), conn)
	require.NoError(t, err)

	_, err = store.New(context.TODO(), nil)
	assert.Error(t, err)
}

func Test_Note_001(t *testing.T) {
	assert := assert.New(t)
	s := newStore(t)
	ctx := context.TODO()

	note, err := s.CreateNote(ctx, schema.NoteMeta{Title: "  Shopping  ", Body: "milk"})
	require.NoError(t, err)
	_, err = uuid.Parse(note.ID)
	assert.NoError(err)
	assert.Equal("Shopping", note.Title)
	assert.Equal("milk", note.Body)
	assert.False(note.Created.IsZero())

	got, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(note.ID, got.ID)
	assert.Empty(got.Attachments)

	updated, err := s.UpdateNote(ctx, note.ID, schema.NoteMeta{Title: "Groceries", Body: "eggs"})
	require.NoError(t, err)
	assert.Equal("Groceries", updated.Title)
	assert.Equal("eggs", updated.Body)

	deleted, err := s.DeleteNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal("Groceries", deleted.Title)

	_, err = s.GetNote(ctx, note.ID)
	assert.ErrorIs(err, httpresponse.ErrNotFound)
}

func Test_Note_002(t *testing.T) {
	assert := assert.New(t)
	s := newStore(t)
	ctx := context.TODO()
	missing := uuid.NewString()

	_, err := s.CreateNote(ctx, schema.NoteMeta{Title: "  "})
	assert.ErrorIs(err, httpresponse.ErrBadRequest)

	_, err = s.GetNote(ctx, "not-a-uuid")
	assert.ErrorIs(err, httpresponse.ErrBadRequest)

	_, err = s.GetNote(ctx, missing)
	assert.ErrorIs(err, httpresponse.ErrNotFound)

	_, err = s.UpdateNote(ctx, missing, schema.NoteMeta{Title: "x"})
	assert.ErrorIs(err, httpresponse.ErrNotFound)

	_, err = s.DeleteNote(ctx, missing)
	assert.ErrorIs(err, httpresponse.ErrNotFound)
}

func Test_Attachment_001(t *testing.T) {
	assert := assert.New(t)
	s := newStore(t)
	ctx := context.TODO()

	note, err := s.CreateNote(ctx, schema.NoteMeta{Title: "with files"})
	require.NoError(t, err)

	a := schema.Attachment{Name: "a.txt", Path: "/" + note.ID + "/1_a.txt", Size: 10, ContentType: "text/plain"}
	b := schema.Attachment{Name: "b.txt", Path: "/" + note.ID + "/2_b.txt", Size: 20}
	assert.NoError(s.AddAttachment(ctx, note.ID, a))
	assert.NoError(s.AddAttachment(ctx, note.ID, b))
	assert.NoError(s.AddAttachment(ctx, note.ID, a))

	list, err := s.ListAttachments(ctx, note.ID)
	require.NoError(t, err)
	if assert.Len(list, 2) {
		assert.Equal("a.txt", list[0].Name)
		assert.Equal(int64(10), list[0].Size)
		assert.Equal("text/plain", list[0].ContentType)
		assert.Equal("b.txt", list[1].Name)
	}

	got, err := s.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(got.Attachments, 2)

	deleted, err := s.DeleteNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(deleted.Attachments, 2)
}

func Test_Attachment_002(t *testing.T) {
	assert := assert.New(t)
	s := newStore(t)
	ctx := context.TODO()

	err := s.AddAttachment(ctx, uuid.NewString(), schema.Attachment{Name: "a"})
	assert.ErrorIs(err, httpresponse.ErrBadRequest)

	_, err = s.ListAttachments(ctx, "bad")
	assert.ErrorIs(err, httpresponse.ErrBadRequest)

	// A foreign key violation ends the transaction, so this goes last
	err = s.AddAttachment(ctx, uuid.NewString(), schema.Attachment{Name: "a", Path: "/x/a"})
	assert.ErrorIs(err, httpresponse.ErrNotFound)
}
