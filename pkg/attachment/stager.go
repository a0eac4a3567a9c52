package attachment

import (
	"context"
	"fmt"

	// Packages
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Stager keeps a session and its list view in step
type Stager struct {
	*opt
	session *Session
	view    View
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewStager(session *Session, view View, opts ...Opt) (*Stager, error) {
	if session == nil || view == nil {
		return nil, fmt.Errorf("%w: session and view are required", notes.ErrBadParameter)
	}
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	return &Stager{opt: o, session: session, view: view}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Stage adds a file to the end of the session and a row to the list view.
// If the list container is absent, ErrMissingView is returned. The session
// is only changed once the row has been added.
func (s *Stager) Stage(ctx context.Context, file schema.StagedFile) error {
	if file.Name == "" {
		return fmt.Errorf("%w: missing file name", notes.ErrBadParameter)
	} else if file.Size < 0 {
		return fmt.Errorf("%w: negative size for %q", notes.ErrBadParameter, file.Name)
	}

	list, ok := s.view.List()
	if !ok {
		return notes.ErrMissingView
	}
	if err := list.AppendRow(file, FormatSize(file.Size, s.format)); err != nil {
		return fmt.Errorf("%q: %w", file.Name, err)
	}
	list.Show()
	s.session.append(file)

	s.log.Debug(ctx, "staged attachment", "name", file.Name, "size", file.Size, "pending", s.session.Len())
	return nil
}

// Unstage removes every row and every staged file with the name. It returns
// false, and changes nothing, when no staged file has the name.
func (s *Stager) Unstage(ctx context.Context, name string) bool {
	if list, ok := s.view.List(); ok {
		list.RemoveRows(name)
	}
	n := s.session.remove(name)
	if n > 0 {
		s.log.Debug(ctx, "unstaged attachment", "name", name, "removed", n, "pending", s.session.Len())
	}
	return n > 0
}
