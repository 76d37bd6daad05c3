package canvas

import (
	"errors"
	"fmt"
	"math"

	"github.com/kataras/figma-importer/pkg/figma"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/synth"
)

// ErrNotContainer is returned when appending to a node that cannot hold
// children.
var ErrNotContainer = errors.New("canvas: node cannot hold children")

// Node is a design node. It implements synth.Node, synth.Text and
// synth.Ellipse; text and arc methods only take effect on nodes of that
// kind.
type Node struct {
	canvas *Canvas
	id     string
	kind   string
	name   string
	parent *Node

	x, y          float64
	width, height float64

	opacity      float64
	clips        bool
	fills        []figma.Paint
	strokes      []figma.Paint
	strokeWeight float64
	sides        *layer.Sides
	radius       float64
	radii        *layer.CornerRadii
	effects      []figma.Effect
	layout       *layer.AutoLayout
	arc          *synth.Arc
	svg          string
	text         *textData

	children []*Node
}

var (
	_ synth.Text    = (*Node)(nil)
	_ synth.Ellipse = (*Node)(nil)
)

func (n *Node) ID() string { return n.id }
func (n *Node) SetName(name string) { n.name = name }

// Type returns the Figma node type.
func (n *Node) Type() string { return n.kind }

// Children returns the child nodes in paint order.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) Resize(width, height float64) {
	n.width, n.height = math.Max(width, layer.MinSize), math.Max(height, layer.MinSize)
}

func (n *Node) SetPosition(x, y float64) { n.x, n.y = x, y }

// AppendChild moves child to the end of n's children. Only frames and
// pages hold children.
func (n *Node) AppendChild(child synth.Node) error {
	c, ok := child.(*Node)
	if !ok || c.canvas != n.canvas {
		return fmt.Errorf("canvas: append %s: node of another canvas", child.ID())
	}
	if n.kind != "FRAME" && n.kind != "CANVAS" {
		return fmt.Errorf("%w: %s %s", ErrNotContainer, n.kind, n.id)
	}
	for a := n; a != nil; a = a.parent {
		if a == c {
			return fmt.Errorf("canvas: append %s: would create a cycle", c.id)
		}
	}
	if c.parent != nil {
		c.parent.remove(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	return nil
}

func (n *Node) remove(c *Node) {
	for i, k := range n.children {
		if k == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) SetFills(paints []layer.Paint) { n.fills = convertPaints(paints) }

func (n *Node) SetStrokes(paints []layer.Paint, weight float64, sides *layer.Sides) {
	n.strokes = convertPaints(paints)
	n.strokeWeight = weight
	n.sides = sides
}

func (n *Node) SetEffects(effects []layer.Effect) { n.effects = convertEffects(effects) }

func (n *Node) SetCornerRadius(radius float64) {
	n.radius = radius
	n.radii = nil
}

func (n *Node) SetCornerRadii(radii layer.CornerRadii) {
	n.radii = &radii
	n.radius = radii.Max()
}

func (n *Node) SetOpacity(opacity float64) { n.opacity = math.Max(0, math.Min(1, opacity)) }
func (n *Node) SetClipsContent(clip bool) { n.clips = clip }
func (n *Node) SetAutoLayout(l layer.AutoLayout) { n.layout = &l }

// SetArc turns an ellipse into a partial ring.
func (n *Node) SetArc(arc synth.Arc) {
	if n.kind == "ELLIPSE" {
		n.arc = &arc
	}
}

// export converts the subtree to the file format. ax and ay are the
// absolute position of the parent.
func (n *Node) export(ax, ay float64) figma.Node {
	x, y := ax+n.x, ay+n.y
	out := figma.Node{
		ID:    n.id,
		Name:  n.name,
		Type:  n.kind,
		Fills: n.fills,
	}
	if n.kind == "CANVAS" {
		out.BackgroundColor = &figma.Color{R: 0.96, G: 0.96, B: 0.96, A: 1}
		out.Fills = []figma.Paint{}
	} else {
		out.AbsoluteBoundingBox = &figma.Rectangle{X: x, Y: y, Width: n.width, Height: n.height}
		out.RelativeTransform = [][]float64{{1, 0, n.x}, {0, 1, n.y}}
		out.Size = &figma.Vector{X: n.width, Y: n.height}
		out.Constraints = &figma.LayoutConstraint{Vertical: "TOP", Horizontal: "LEFT"}
	}
	if n.opacity < 1 {
		o := n.opacity
		out.Opacity = &o
	}
	out.ClipsContent = n.clips
	out.Effects = n.effects

	if len(n.strokes) > 0 {
		out.Strokes = n.strokes
		out.StrokeWeight = n.strokeWeight
		out.StrokeAlign = "INSIDE"
		if n.sides != nil {
			out.IndividualStrokeWeights = &figma.StrokeWeights{
				Top: n.sides.Top, Right: n.sides.Right, Bottom: n.sides.Bottom, Left: n.sides.Left,
			}
		}
	}

	out.CornerRadius = n.radius
	if n.radii != nil {
		out.RectangleCornerRadii = []float64{n.radii.TopLeft, n.radii.TopRight, n.radii.BottomRight, n.radii.BottomLeft}
	}
	if n.arc != nil {
		out.ArcData = &figma.ArcData{StartingAngle: n.arc.Start, EndingAngle: n.arc.End, InnerRadius: n.arc.InnerRadius}
	}
	if n.layout != nil {
		exportLayout(&out, *n.layout)
	}
	if n.text != nil {
		n.text.export(&out, n.canvas.defaultFont)
	}
	out.SVGMarkup = n.svg

	for _, c := range n.children {
		out.Children = append(out.Children, c.export(x, y))
	}
	return out
}

func exportLayout(out *figma.Node, l layer.AutoLayout) {
	out.LayoutMode = string(l.Mode)
	out.ItemSpacing = l.Spacing
	out.PaddingTop = l.Padding.Top
	out.PaddingRight = l.Padding.Right
	out.PaddingBottom = l.Padding.Bottom
	out.PaddingLeft = l.Padding.Left
	out.PrimaryAxisSizingMode = "FIXED"
	out.CounterAxisSizingMode = "FIXED"
	out.PrimaryAxisAlignItems = string(l.PrimaryAlign)
	out.CounterAxisAlignItems = string(l.CounterAlign)
	if l.CounterAlign == layer.AlignSpaceBetween {
		out.CounterAxisAlignItems = string(layer.AlignMin)
	}
	if l.Wrap {
		out.LayoutWrap = "WRAP"
	}
}

func convertColor(c layer.Color) *figma.Color {
	return &figma.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func convertPaints(paints []layer.Paint) []figma.Paint {
	out := make([]figma.Paint, 0, len(paints))
	for _, p := range paints {
		fp := figma.Paint{Type: string(p.Type), Visible: true, Opacity: 1}
		if p.Opacity != nil {
			fp.Opacity = *p.Opacity
		}
		switch p.Type {
		case layer.Solid:
			if p.Color != nil {
				fp.Color = convertColor(*p.Color)
			}
		case layer.LinearGradient:
			fp.GradientHandlePositions = gradientHandles(p.Angle)
			for _, s := range p.Stops {
				fp.GradientStops = append(fp.GradientStops, figma.ColorStop{Position: s.Position, Color: *convertColor(s.Color)})
			}
		}
		out = append(out, fp)
	}
	return out
}

// gradientHandles returns the start, end and width handles of a CSS
// gradient angle in normalized node space. 0° points up, 90° right.
func gradientHandles(angle float64) []figma.Vector {
	rad := angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	start := figma.Vector{X: 0.5 - dx/2, Y: 0.5 - dy/2}
	end := figma.Vector{X: 0.5 + dx/2, Y: 0.5 + dy/2}
	width := figma.Vector{X: start.X - dy/2, Y: start.Y + dx/2}
	return []figma.Vector{round(start), round(end), round(width)}
}

func round(v figma.Vector) figma.Vector {
	const p = 1e6
	return figma.Vector{X: math.Round(v.X*p) / p, Y: math.Round(v.Y*p) / p}
}

func convertEffects(effects []layer.Effect) []figma.Effect {
	out := make([]figma.Effect, 0, len(effects))
	for _, e := range effects {
		fe := figma.Effect{Type: string(e.Type), Visible: true, Radius: e.Radius}
		switch e.Type {
		case layer.DropShadow, layer.InnerShadow:
			c := layer.Black
			if e.Color != nil {
				c = *e.Color
			}
			fe.Color = convertColor(c)
			fe.Offset = &figma.Vector{X: e.OffsetX, Y: e.OffsetY}
			fe.Spread = e.Spread
			fe.BlendMode = "NORMAL"
		}
		out = append(out, fe)
	}
	return out
}
