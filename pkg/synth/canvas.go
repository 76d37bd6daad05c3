package synth

import (
	"github.com/kataras/figma-importer/pkg/fonts"
	"github.com/kataras/figma-importer/pkg/layer"
)

// Canvas is the destination environment: it creates design nodes and
// loads fonts. Node creation never suspends; only LoadFont may block.
type Canvas interface {
	fonts.Loader

	// Page is the container new roots are appended to.
	Page() Node
	CreateFrame() Node
	CreateRectangle() Node
	// CreateImage returns a rectangle filled with the image at source.
	CreateImage(source string) Node
	// CreateVector builds a node from SVG markup. Failures wrap
	// ErrVectorCreate.
	CreateVector(markup string) (Node, error)
	CreateEllipse() Ellipse
	CreateText() Text
}

// Node is a design node handle.
type Node interface {
	ID() string
	SetName(name string)
	Resize(width, height float64)
	// SetPosition places the node relative to its parent.
	SetPosition(x, y float64)
	AppendChild(child Node) error

	SetFills(paints []layer.Paint)
	// SetStrokes sets the stroke paints and weight; sides is non-nil for
	// per-side weights.
	SetStrokes(paints []layer.Paint, weight float64, sides *layer.Sides)
	SetEffects(effects []layer.Effect)
	SetCornerRadius(radius float64)
	SetCornerRadii(radii layer.CornerRadii)
	SetOpacity(opacity float64)
	SetClipsContent(clip bool)
	SetAutoLayout(l layer.AutoLayout)
}

// Text is a text node handle.
type Text interface {
	Node
	SetCharacters(text string)
	// Length is the number of characters.
	Length() int
	SetTextAlign(align string)
	// SetRange styles characters [start, end). The font must be loaded.
	SetRange(start, end int, style TextStyle) error
}

// Ellipse is an ellipse handle.
type Ellipse interface {
	Node
	SetArc(arc Arc)
}

// Arc is a partial ellipse. Angles are in radians, clockwise from the
// positive x axis. InnerRadius is the ring's inner radius as a fraction of
// the outer one.
type Arc struct {
	Start       float64
	End         float64
	InnerRadius float64
}

// TextStyle is the styling applied to a character range.
type TextStyle struct {
	Font          fonts.Name
	Weight        int
	Size          float64
	Fill          layer.Color
	Case          layer.TextCase
	Decoration    layer.Decoration
	LineHeight    float64
	LetterSpacing float64
	Hyperlink     string
	List          layer.ListType
}
