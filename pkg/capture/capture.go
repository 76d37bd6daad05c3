// Package capture defines the capability set the extractor consumes from a
// source-document environment: a styled node tree with computed styles,
// viewport-space geometry, scroll state and nested documents.
//
// Implementations live elsewhere: package snapshot serves a frozen tree
// loaded from JSON or YAML, package browser produces such a snapshot from a
// live Chrome page.
package capture

// NodeType classifies a node of the source tree.
type NodeType int

const (
	OtherNode NodeType = iota
	ElementNode
	TextNode
)

// Style is the computed style of an element. Get returns the raw computed
// value of a CSS property or "" when the property is unknown.
type Style interface {
	Get(property string) string
}

// Node is a node of the source document.
type Node interface {
	Type() NodeType
	// Tag returns the lower-case tag name of an element, "" otherwise.
	Tag() string
	Attr(name string) (string, bool)
	// Attributes returns every attribute, ordered by name.
	Attributes() []Attribute
	// Text returns the character data of a text node.
	Text() string
	Parent() Node
	Children() []Node
	// Style returns the computed style of an element. Text nodes return
	// the style of their parent element.
	Style() Style
	// Bounds is the tight bounding rectangle in viewport space.
	Bounds() (Rect, bool)
	// LayoutSize is the untransformed, axis-aligned layout box size.
	LayoutSize() (Size, bool)
	// ContentDocument returns the nested document of an inline frame.
	ContentDocument() Document
	// Matches reports whether the element matches a compiled selector.
	Matches(sel Selector) bool
}

// Attribute is an element attribute. Names keep their source case.
type Attribute struct {
	Name  string
	Value string
}

// Selector is a compiled selector which may be matched against nodes of
// the same implementation that produced them.
type Selector interface {
	String() string
}

// Document is a (possibly nested) source document.
type Document interface {
	// Root returns the capture root, usually <body>.
	Root() Node
	Scroll() Point
	Size() Size
	Viewport() Size
	ElementByID(id string) Node
	// Compile compiles a selector for use with Node.Matches.
	Compile(selector string) (Selector, error)
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a 2D extent.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Empty reports whether the rectangle has no area in both dimensions
// below min.
func (r Rect) Empty(min float64) bool {
	return r.Width < min && r.Height < min
}
