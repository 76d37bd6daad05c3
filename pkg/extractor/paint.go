package extractor

import (
	"github.com/kataras/figma-importer/pkg/css"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/style"
)

// applyPaint sets fills from the background color and a linear gradient,
// and strokes from the borders.
func (p *pass) applyPaint(node *layer.Node, s style.Snapshot) {
	if bg := s.Colors.Background; bg.Visible() {
		node.Fills = append(node.Fills, layer.SolidPaint(bg))
	}
	if g, ok := css.ParseLinearGradient(s.Paint.BackgroundImage); ok {
		node.Fills = append(node.Fills, layer.Paint{
			Type:  layer.LinearGradient,
			Angle: g.Angle,
			Stops: g.Stops,
		})
	}

	weights := s.Box.Border
	colors := s.Colors.Border
	// Sides with an invisible color paint nothing.
	for _, side := range []struct {
		w *float64
		c layer.Color
	}{
		{&weights.Top, colors.Top},
		{&weights.Right, colors.Right},
		{&weights.Bottom, colors.Bottom},
		{&weights.Left, colors.Left},
	} {
		if !side.c.Visible() {
			*side.w = 0
		}
	}
	if weights.Max() <= 0 {
		return
	}

	stroke := firstStrokeColor(weights, colors)
	node.Strokes = []layer.Paint{layer.SolidPaint(stroke)}
	node.StrokeWeight = weights.Max()
	if !weights.Uniform() {
		w := weights
		node.StrokeWeights = &w
	}
	if !weights.Uniform() || colors.Top != colors.Right || colors.Right != colors.Bottom || colors.Bottom != colors.Left {
		c := colors
		node.BorderColors = &c
	}
}

func firstStrokeColor(w layer.Sides, c layer.SideColors) layer.Color {
	switch {
	case w.Top > 0:
		return c.Top
	case w.Right > 0:
		return c.Right
	case w.Bottom > 0:
		return c.Bottom
	}
	return c.Left
}

// applyShape sets the corner radii, uniform when possible.
func (p *pass) applyShape(node *layer.Node, s style.Snapshot) {
	r := s.Box.CornerRadii(node.Width, node.Height)
	if r.Max() <= 0 {
		return
	}
	if r.Uniform() {
		node.CornerRadius = r.TopLeft
		return
	}
	node.Radii = &r
}

// effects maps the shadow list and blur filters to layer effects, in
// declaration order.
func effects(s style.Snapshot) []layer.Effect {
	var out []layer.Effect
	for _, sh := range css.ParseShadows(s.Paint.BoxShadow) {
		c := sh.Color
		e := layer.Effect{
			Type:    layer.DropShadow,
			Color:   &c,
			OffsetX: sh.X,
			OffsetY: sh.Y,
			Radius:  sh.Blur,
			Spread:  sh.Spread,
		}
		if sh.Inset {
			e.Type = layer.InnerShadow
		}
		out = append(out, e)
	}
	if r, ok := css.ParseBlur(s.Paint.Filter); ok {
		out = append(out, layer.Effect{Type: layer.LayerBlur, Radius: r})
	}
	if r, ok := css.ParseBlur(s.Paint.BackdropFilter); ok {
		out = append(out, layer.Effect{Type: layer.BackgroundBlur, Radius: r})
	}
	return out
}

// hasVisibleBorder reports whether any side draws a border.
func hasVisibleBorder(s style.Snapshot) bool {
	b, c := s.Box.Border, s.Colors.Border
	return (b.Top > 0 && c.Top.Visible()) ||
		(b.Right > 0 && c.Right.Visible()) ||
		(b.Bottom > 0 && c.Bottom.Visible()) ||
		(b.Left > 0 && c.Left.Visible())
}

// hasBackground reports whether the node paints a background.
func hasBackground(s style.Snapshot) bool {
	img := s.Paint.BackgroundImage
	return s.Colors.Background.Visible() || (img != "" && img != "none")
}
