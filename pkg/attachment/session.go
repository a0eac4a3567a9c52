package attachment

import (
	"slices"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Session is the staging buffer of a single note editor. Files are kept in
// the order they were staged.
type Session struct {
	files []schema.StagedFile
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewSession() *Session {
	return new(Session)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Len returns the number of staged files
func (s *Session) Len() int {
	return len(s.files)
}

// Files returns the staged files in order, without their payloads
func (s *Session) Files() []schema.StagedFile {
	result := make([]schema.StagedFile, 0, len(s.files))
	for _, file := range s.files {
		file.Data = nil
		result = append(result, file)
	}
	return result
}

// Bytes returns the total size of the staged files
func (s *Session) Bytes() int64 {
	var n int64
	for _, file := range s.files {
		n += file.Size
	}
	return n
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Session) append(file schema.StagedFile) {
	s.files = append(s.files, file)
}

// remove drops every file with the name and returns how many were dropped
func (s *Session) remove(name string) int {
	n := len(s.files)
	s.files = slices.DeleteFunc(s.files, func(file schema.StagedFile) bool {
		return file.Name == name
	})
	return n - len(s.files)
}

// drain empties the buffer and returns what it held
func (s *Session) drain() []schema.StagedFile {
	files := s.files
	s.files = nil
	return files
}
