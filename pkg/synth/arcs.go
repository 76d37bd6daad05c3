package synth

import (
	"math"

	"github.com/kataras/figma-importer/pkg/layer"
)

// circleTolerance is how far a frame may be from square, and its radius
// from half the width, to still count as a circle.
const circleTolerance = 1.0

// arcRadius reports whether n is a circle with non-uniform border weights,
// which per-side strokes cannot render on curved corners. It returns the
// corner radius.
func arcRadius(n *layer.Node) (float64, bool) {
	if n.StrokeWeights == nil || n.StrokeWeights.Uniform() {
		return 0, false
	}
	if math.Abs(n.Width-n.Height) > circleTolerance {
		return 0, false
	}
	r := n.CornerRadius
	if n.Radii != nil {
		r = n.Radii.Max()
	}
	if r <= 0 || r < n.Width/2-circleTolerance {
		return 0, false
	}
	return r, true
}

// arcs draws each bordered side of a circular frame as a 90° ring segment
// filled with the side color, then clears the frame's own stroke.
func (b *builder) arcs(h Node, n *layer.Node, radius float64) error {
	w := *n.StrokeWeights
	colors := sideColors(n)
	sides := []struct {
		name   string
		weight float64
		color  layer.Color
		center float64
	}{
		{"border-top", w.Top, colors.Top, -math.Pi / 2},
		{"border-right", w.Right, colors.Right, 0},
		{"border-bottom", w.Bottom, colors.Bottom, math.Pi / 2},
		{"border-left", w.Left, colors.Left, math.Pi},
	}

	for _, side := range sides {
		if side.weight <= 0 {
			continue
		}
		e := b.canvas.CreateEllipse()
		if err := h.AppendChild(e); err != nil {
			return err
		}
		e.SetName(side.name)
		e.Resize(math.Max(n.Width, layer.MinSize), math.Max(n.Height, layer.MinSize))
		e.SetPosition(0, 0)
		e.SetFills([]layer.Paint{layer.SolidPaint(side.color)})
		e.SetArc(Arc{
			Start:       side.center - math.Pi/4,
			End:         side.center + math.Pi/4,
			InnerRadius: math.Max(0, math.Min(1, (radius-side.weight)/radius)),
		})
		b.result.Arcs++
	}

	h.SetStrokes(nil, 0, nil)
	return nil
}

// sideColors returns the per-side border colors, falling back to the
// first stroke color.
func sideColors(n *layer.Node) layer.SideColors {
	if n.BorderColors != nil {
		return *n.BorderColors
	}
	c := layer.Black
	if len(n.Strokes) > 0 && n.Strokes[0].Color != nil {
		c = *n.Strokes[0].Color
	}
	return layer.SideColors{Top: c, Right: c, Bottom: c, Left: c}
}
