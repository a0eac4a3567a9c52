package attachment_test

import (
	"context"
	"errors"
	"slices"

	// Packages
	attachment "github.com/mutablelogic/go-notes/pkg/attachment"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// VIEW

type fakeRow struct {
	name, size string
}

type fakeView struct {
	missing bool
	fail    bool
	visible bool
	rows    []fakeRow
}

var _ attachment.View = (*fakeView)(nil)

func (v *fakeView) List() (attachment.List, bool) {
	if v.missing {
		return nil, false
	}
	return v, true
}

func (v *fakeView) AppendRow(file schema.StagedFile, size string) error {
	if v.fail {
		return errors.New("row rejected")
	}
	v.rows = append(v.rows, fakeRow{file.Name, size})
	return nil
}

func (v *fakeView) RemoveRows(name string) int {
	n := len(v.rows)
	v.rows = slices.DeleteFunc(v.rows, func(row fakeRow) bool { return row.name == name })
	return n - len(v.rows)
}

func (v *fakeView) Show() {
	v.visible = true
}

func (v *fakeView) Names() []string {
	var result []string
	for _, row := range v.rows {
		result = append(result, row.name)
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// REMOTE

// fakeRemote records calls and fails the named files, either with an error
// or with a negative success indicator
type fakeRemote struct {
	calls    []string
	errors   map[string]bool
	rejected map[string]bool
}

func (r *fakeRemote) Upload(ctx context.Context, note string, file schema.StagedFile) (*schema.UploadResponse, error) {
	r.calls = append(r.calls, note+"/"+file.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.errors[file.Name] {
		return nil, errors.New("network unreachable")
	}
	if r.rejected[file.Name] {
		return &schema.UploadResponse{Success: false, Error: "rejected by bucket"}, nil
	}
	return &schema.UploadResponse{Success: true, Path: note + "/" + file.Name}, nil
}

func file(name string, size int) schema.StagedFile {
	return schema.StagedFile{Name: name, Size: int64(size), Data: make([]byte, size)}
}
