package snapshot

import (
	"sort"
	"strings"

	"github.com/kataras/figma-importer/pkg/capture"

	"golang.org/x/net/html"
)

// Node is a node of a loaded snapshot. It implements capture.Node.
type Node struct {
	el       *Element
	tree     *Tree
	parent   *Node
	children []*Node
	style    computedStyle
	html     *html.Node
	frame    *Tree
}

var _ capture.Node = (*Node)(nil)

func (n *Node) Type() capture.NodeType {
	if n.el.IsText() {
		return capture.TextNode
	}
	return capture.ElementNode
}

func (n *Node) Tag() string {
	if n.el.IsText() {
		return ""
	}
	return strings.ToLower(n.el.Tag)
}

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.el.Attrs[name]
	return v, ok
}

func (n *Node) Attributes() []capture.Attribute {
	keys := make([]string, 0, len(n.el.Attrs))
	for k := range n.el.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]capture.Attribute, len(keys))
	for i, k := range keys {
		out[i] = capture.Attribute{Name: k, Value: n.el.Attrs[k]}
	}
	return out
}

func (n *Node) Text() string { return n.el.Text }

func (n *Node) Parent() capture.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []capture.Node {
	out := make([]capture.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Style returns the element's computed style; a text node answers with
// its parent's.
func (n *Node) Style() capture.Style {
	if n.style == nil {
		if n.parent != nil {
			return n.parent.style
		}
		return computedStyle{}
	}
	return n.style
}

func (n *Node) Bounds() (capture.Rect, bool) {
	if n.el.Rect == nil {
		return capture.Rect{}, false
	}
	return *n.el.Rect, true
}

// LayoutSize returns the recorded layout box, or the bounds' size when the
// snapshot did not record one.
func (n *Node) LayoutSize() (capture.Size, bool) {
	if n.el.Layout != nil {
		return *n.el.Layout, true
	}
	if n.el.Rect != nil {
		return capture.Size{Width: n.el.Rect.Width, Height: n.el.Rect.Height}, true
	}
	return capture.Size{}, false
}

func (n *Node) ContentDocument() capture.Document {
	if n.frame == nil {
		return nil
	}
	return n.frame
}

func (n *Node) Matches(sel capture.Selector) bool {
	s, ok := sel.(compiledSelector)
	if !ok || n.html.Type != html.ElementNode {
		return false
	}
	return s.sel.Match(n.html)
}

// Element returns the serialized element backing the node.
func (n *Node) Element() *Element { return n.el }
