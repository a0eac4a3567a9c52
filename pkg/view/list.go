package view

import (
	"fmt"

	// Packages
	notes "github.com/mutablelogic/go-notes"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	html "golang.org/x/net/html"
	atom "golang.org/x/net/html/atom"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type list struct {
	doc  *Document
	node *html.Node
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// AppendRow adds a row for the file, with a removal control, to the end of
// the list
func (l *list) AppendRow(file schema.StagedFile, size string) error {
	if file.Name == "" {
		return fmt.Errorf("%w: missing file name", notes.ErrBadParameter)
	}

	l.doc.Lock()
	defer l.doc.Unlock()

	row := element(atom.Li, html.Attribute{Key: "class", Val: "attachment"}, html.Attribute{Key: AttrName, Val: file.Name})
	row.AppendChild(textElement(atom.Span, "name", file.Name))
	row.AppendChild(textElement(atom.Span, "size", size))
	button := textElement(atom.Button, "remove", "Remove")
	button.Attr = append(button.Attr,
		html.Attribute{Key: "type", Val: "button"},
		html.Attribute{Key: AttrAction, Val: ActionRemove},
		html.Attribute{Key: AttrName, Val: file.Name},
	)
	row.AppendChild(button)
	l.node.AppendChild(row)

	return nil
}

// RemoveRows removes every row tagged with the name and returns how many
// were removed
func (l *list) RemoveRows(name string) int {
	l.doc.Lock()
	defer l.doc.Unlock()

	var n int
	for _, row := range QueryAll(l.node, rowsExpr) {
		if attr(row, AttrName) == name {
			l.node.RemoveChild(row)
			n++
		}
	}
	return n
}

// Show makes the list visible
func (l *list) Show() {
	l.doc.Lock()
	defer l.doc.Unlock()

	attrs := l.node.Attr[:0]
	for _, a := range l.node.Attr {
		if a.Key != "hidden" {
			attrs = append(attrs, a)
		}
	}
	l.node.Attr = attrs
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func textElement(a atom.Atom, class, text string) *html.Node {
	node := element(a, html.Attribute{Key: "class", Val: class})
	node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return node
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
