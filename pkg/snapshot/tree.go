package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kataras/figma-importer/pkg/capture"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoRoot is returned for a snapshot without a root element.
var ErrNoRoot = errors.New("snapshot: document has no root element")

// Tree is a loaded snapshot. It implements capture.Document.
type Tree struct {
	doc    *Document
	root   *Node
	ids    map[string]*Node
	mirror *html.Node
	byHTML map[*html.Node]*Node
}

var _ capture.Document = (*Tree)(nil)

// New builds the runtime tree of a snapshot document: parent links, parsed
// computed styles, an id index and an HTML mirror for selector matching.
func New(doc *Document) (*Tree, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrNoRoot
	}

	t := &Tree{
		doc:    doc,
		ids:    make(map[string]*Node),
		mirror: &html.Node{Type: html.DocumentNode},
		byHTML: make(map[*html.Node]*Node),
	}

	root, err := t.build(doc.Root, nil, t.mirror)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) build(el *Element, parent *Node, htmlParent *html.Node) (*Node, error) {
	n := &Node{el: el, tree: t, parent: parent}

	if el.IsText() {
		n.html = &html.Node{Type: html.TextNode, Data: el.Text}
		htmlParent.AppendChild(n.html)
		t.byHTML[n.html] = n
		return n, nil
	}

	tag := strings.ToLower(el.Tag)
	style, err := parseStyle(el.Style)
	if err != nil {
		return nil, fmt.Errorf("snapshot: style of <%s>: %w", tag, err)
	}
	n.style = style

	n.html = &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	keys := make([]string, 0, len(el.Attrs))
	for k := range el.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.html.Attr = append(n.html.Attr, html.Attribute{Key: k, Val: el.Attrs[k]})
	}
	htmlParent.AppendChild(n.html)
	t.byHTML[n.html] = n

	if id := el.Attrs["id"]; id != "" {
		if _, exists := t.ids[id]; !exists {
			t.ids[id] = n
		}
	}

	if el.Frame != nil {
		frame, err := New(el.Frame)
		if err != nil && !errors.Is(err, ErrNoRoot) {
			return nil, fmt.Errorf("snapshot: nested document of <%s>: %w", tag, err)
		}
		n.frame = frame
	}

	for _, c := range el.Children {
		if c == nil {
			continue
		}
		child, err := t.build(c, n, n.html)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	return n, nil
}

// parseStyle parses a computed-style declaration block.
func parseStyle(block string) (computedStyle, error) {
	style := make(computedStyle)
	if strings.TrimSpace(block) == "" {
		return style, nil
	}
	// The parser drops the value of an unterminated last declaration.
	block = strings.TrimSpace(block)
	if !strings.HasSuffix(block, ";") {
		block += ";"
	}
	decls, err := parser.ParseDeclarations(block)
	if err != nil {
		return nil, err
	}
	for _, d := range decls {
		style[strings.ToLower(d.Property)] = strings.TrimSpace(d.Value)
	}
	return style, nil
}

// Source returns the serialized document the tree was built from.
func (t *Tree) Source() *Document { return t.doc }

// URL returns the document location, if recorded.
func (t *Tree) URL() string { return t.doc.URL }

// Root returns <body> when present, the top element otherwise.
func (t *Tree) Root() capture.Node {
	if t.root.Tag() == "html" {
		for _, c := range t.root.children {
			if c.Tag() == "body" {
				return c
			}
		}
	}
	return t.root
}

func (t *Tree) Scroll() capture.Point { return t.doc.Scroll }

// Size returns the document size, falling back to the viewport.
func (t *Tree) Size() capture.Size {
	if t.doc.Size.Width == 0 && t.doc.Size.Height == 0 {
		return t.Viewport()
	}
	return t.doc.Size
}

// Viewport returns the viewport size, falling back to the root bounds.
func (t *Tree) Viewport() capture.Size {
	if t.doc.Viewport.Width == 0 && t.doc.Viewport.Height == 0 && t.root.el.Rect != nil {
		return capture.Size{Width: t.root.el.Rect.Width, Height: t.root.el.Rect.Height}
	}
	return t.doc.Viewport
}

func (t *Tree) ElementByID(id string) capture.Node {
	if n, ok := t.ids[id]; ok {
		return n
	}
	return nil
}

// Compile compiles a CSS selector for Node.Matches.
func (t *Tree) Compile(selector string) (capture.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("snapshot: selector %q: %w", selector, err)
	}
	return compiledSelector{src: selector, sel: sel}, nil
}

// Query returns the first element matching selector, or nil.
func (t *Tree) Query(selector string) capture.Node {
	found := goquery.NewDocumentFromNode(t.mirror).Find(selector)
	for _, h := range found.Nodes {
		if n, ok := t.byHTML[h]; ok {
			return n
		}
	}
	return nil
}

type compiledSelector struct {
	src string
	sel cascadia.Selector
}

func (s compiledSelector) String() string { return s.src }

type computedStyle map[string]string

func (s computedStyle) Get(property string) string {
	return s[property]
}
