package view

import (
	"fmt"
	"strings"

	// Packages
	xpath "github.com/antchfx/xpath"
	html "golang.org/x/net/html"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// navigator walks an html.Node tree for xpath evaluation
type navigator struct {
	root, curr *html.Node
	attr       int
}

var _ xpath.NodeNavigator = (*navigator)(nil)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// QueryAll returns the element nodes under root which match the expression,
// in document order
func QueryAll(root *html.Node, expr *xpath.Expr) []*html.Node {
	var result []*html.Node
	t := expr.Select(newNavigator(root))
	for t.MoveNext() {
		if nav, ok := t.Current().(*navigator); ok && nav.attr == -1 {
			result = append(result, nav.curr)
		}
	}
	return result
}

// Query returns the first element node which matches the expression, or nil
func Query(root *html.Node, expr *xpath.Expr) *html.Node {
	if nodes := QueryAll(root, expr); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func newNavigator(top *html.Node) *navigator {
	return &navigator{curr: top, root: top, attr: -1}
}

func innerText(n *html.Node) string {
	var output func(*strings.Builder, *html.Node)
	output = func(b *strings.Builder, n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			output(b, child)
		}
	}

	var b strings.Builder
	output(&b, n)
	return b.String()
}

////////////////////////////////////////////////////////////////////////////////
// NODE NAVIGATOR METHODS

func (h *navigator) NodeType() xpath.NodeType {
	switch h.curr.Type {
	case html.CommentNode:
		return xpath.CommentNode
	case html.TextNode:
		return xpath.TextNode
	case html.DocumentNode, html.DoctypeNode:
		return xpath.RootNode
	case html.ElementNode:
		if h.attr != -1 {
			return xpath.AttributeNode
		}
		return xpath.ElementNode
	}
	panic(fmt.Sprintf("unknown HTML node type: %v", h.curr.Type))
}

func (h *navigator) LocalName() string {
	if h.attr != -1 {
		return h.curr.Attr[h.attr].Key
	}
	return h.curr.Data
}

func (*navigator) Prefix() string {
	return ""
}

func (h *navigator) Value() string {
	switch h.curr.Type {
	case html.CommentNode, html.TextNode:
		return h.curr.Data
	case html.ElementNode:
		if h.attr != -1 {
			return h.curr.Attr[h.attr].Val
		}
		return innerText(h.curr)
	}
	return ""
}

func (h *navigator) Copy() xpath.NodeNavigator {
	n := *h
	return &n
}

func (h *navigator) MoveToRoot() {
	h.curr = h.root
	h.attr = -1
}

func (h *navigator) MoveToParent() bool {
	if h.attr != -1 {
		h.attr = -1
		return true
	} else if h.curr != h.root && h.curr.Parent != nil {
		h.curr = h.curr.Parent
		return true
	}
	return false
}

func (h *navigator) MoveToNextAttribute() bool {
	if h.attr >= len(h.curr.Attr)-1 {
		return false
	}
	h.attr++
	return true
}

func (h *navigator) MoveToChild() bool {
	if h.attr != -1 {
		return false
	}
	if node := h.curr.FirstChild; node != nil {
		h.curr = node
		return true
	}
	return false
}

func (h *navigator) MoveToFirst() bool {
	if h.attr != -1 || h.curr.PrevSibling == nil || h.curr == h.root {
		return false
	}
	for h.curr.PrevSibling != nil {
		h.curr = h.curr.PrevSibling
	}
	return true
}

func (h *navigator) MoveToNext() bool {
	if h.attr != -1 || h.curr == h.root {
		return false
	}
	if node := h.curr.NextSibling; node != nil {
		h.curr = node
		return true
	}
	return false
}

func (h *navigator) MoveToPrevious() bool {
	if h.attr != -1 || h.curr == h.root {
		return false
	}
	if node := h.curr.PrevSibling; node != nil {
		h.curr = node
		return true
	}
	return false
}

func (h *navigator) MoveTo(other xpath.NodeNavigator) bool {
	node, ok := other.(*navigator)
	if !ok || node.root != h.root {
		return false
	}
	h.curr = node.curr
	h.attr = node.attr
	return true
}

func (h *navigator) String() string {
	return h.Value()
}
