// Package view implements the attachment list view over an HTML document.
//
// The list container is the element whose id matches the container id. Each
// staged file is rendered as a row carrying the file name in a data-name
// attribute, with a removal control carrying the same attribute.
package view

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	// Packages
	xpath "github.com/antchfx/xpath"
	attachment "github.com/mutablelogic/go-notes/pkg/attachment"
	types "github.com/mutablelogic/go-server/pkg/types"
	html "golang.org/x/net/html"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Document is an HTML document which contains the attachment list
type Document struct {
	sync.Mutex
	root      *html.Node
	container *xpath.Expr
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultContainer = "attachment-list"
	AttrName         = "data-name"
	AttrAction       = "data-action"
	ActionRemove     = "remove"
)

const defaultTemplate = `<!DOCTYPE html>
<html><body><form id="note"><ul id="` + DefaultContainer + `" hidden></ul></form></body></html>`

var (
	rowsExpr = xpath.MustCompile(`./*[@` + AttrName + `]`)
)

var _ attachment.View = (*Document)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a document with an empty, hidden attachment list
func New() *Document {
	doc, err := Parse(strings.NewReader(defaultTemplate), DefaultContainer)
	if err != nil {
		panic(err)
	}
	return doc
}

// Parse reads an HTML document. The container is looked up by id each time
// the list is requested, so a document without it is valid.
func Parse(r io.Reader, container string) (*Document, error) {
	if !types.IsIdentifier(container) {
		return nil, fmt.Errorf("invalid container id: %q", container)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	expr, err := xpath.Compile(`//*[@id='` + container + `']`)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, container: expr}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// List returns the attachment list, or false if the container is absent
func (d *Document) List() (attachment.List, bool) {
	d.Lock()
	defer d.Unlock()
	if node := Query(d.root, d.container); node != nil {
		return &list{doc: d, node: node}, true
	}
	return nil, false
}

// Rows returns the file names in the attachment list, in display order
func (d *Document) Rows() []string {
	d.Lock()
	defer d.Unlock()

	node := Query(d.root, d.container)
	if node == nil {
		return nil
	}
	var result []string
	for _, row := range QueryAll(node, rowsExpr) {
		result = append(result, attr(row, AttrName))
	}
	return result
}

// Visible reports whether the attachment list is shown
func (d *Document) Visible() bool {
	d.Lock()
	defer d.Unlock()
	if node := Query(d.root, d.container); node != nil {
		return !hasAttr(node, "hidden")
	}
	return false
}

// Render writes the document as HTML
func (d *Document) Render(w io.Writer) error {
	d.Lock()
	defer d.Unlock()
	return html.Render(w, d.root)
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return err.Error()
	}
	return buf.String()
}
