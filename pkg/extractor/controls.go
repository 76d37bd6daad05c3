package extractor

import (
	"math"
	"strings"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/css"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/style"
)

const placeholderOpacity = 0.5

// formControl returns the synthetic child showing the current value of a
// form control. ok reports whether n is a form control at all; the child
// is nil when there is nothing to show.
func (p *pass) formControl(n capture.Node, s style.Snapshot, node *layer.Node) (child *layer.Node, ok bool) {
	switch n.Tag() {
	case "input":
		typ, _ := n.Attr("type")
		switch strings.ToLower(typ) {
		case "hidden":
			return nil, true
		case "checkbox", "radio":
			return checkSwatch(n, s, node), true
		case "color":
			v, _ := n.Attr("value")
			if v == "" {
				v = "#000000"
			}
			return swatch(node, css.ParseColor(v), 0.15), true
		case "submit", "reset", "button":
			v, _ := n.Attr("value")
			return p.valueText(n, s, node, v, ""), true
		case "password":
			v, _ := n.Attr("value")
			masked := strings.Repeat("•", runeLen(v))
			ph, _ := n.Attr("placeholder")
			return p.valueText(n, s, node, masked, ph), true
		}
		v, _ := n.Attr("value")
		ph, _ := n.Attr("placeholder")
		return p.valueText(n, s, node, v, ph), true

	case "textarea":
		v, ok := n.Attr("value")
		if !ok {
			var b strings.Builder
			for _, c := range n.Children() {
				b.WriteString(c.Text())
			}
			v = b.String()
		}
		ph, _ := n.Attr("placeholder")
		return p.valueText(n, s, node, v, ph), true

	case "select":
		return p.valueText(n, s, node, selectedOption(n), ""), true
	}
	return nil, false
}

// valueText builds a TEXT child on the control's content box. An empty
// value falls back to the placeholder at reduced opacity.
func (p *pass) valueText(n capture.Node, s style.Snapshot, node *layer.Node, value, placeholder string) *layer.Node {
	alpha := 1.0
	text := value
	if !s.Font.Preformatted() {
		text = collapse(text, true)
	}
	if text == "" {
		text = collapse(placeholder, true)
		alpha = placeholderOpacity
	}
	if text == "" {
		return nil
	}

	box := contentBox(node, s)
	r := p.textRange(n, s, "")
	r.End = runeLen(text)
	t := &layer.Node{
		Type:       layer.Text,
		Name:       textName(text),
		X:          box.X,
		Y:          box.Y,
		Width:      box.Width,
		Height:     box.Height,
		Characters: text,
		Ranges:     []layer.StyleRange{r},
		TextAlign:  textAlign(s.Font.TextAlign),
	}
	t.SetOpacity(alpha)
	return t
}

func selectedOption(sel capture.Node) string {
	var first, selected capture.Node
	var walk func(n capture.Node)
	walk = func(n capture.Node) {
		for _, c := range n.Children() {
			if c.Type() != capture.ElementNode {
				continue
			}
			switch c.Tag() {
			case "option":
				if first == nil {
					first = c
				}
				if _, ok := c.Attr("selected"); ok && selected == nil {
					selected = c
				}
			case "optgroup":
				walk(c)
			}
		}
	}
	walk(sel)
	if selected == nil {
		selected = first
	}
	if selected == nil {
		return ""
	}
	if label, ok := selected.Attr("label"); ok && label != "" {
		return label
	}
	var b strings.Builder
	for _, c := range selected.Children() {
		b.WriteString(c.Text())
	}
	return b.String()
}

// checkSwatch marks a checked checkbox or radio with a filled inner
// square or dot in the foreground color.
func checkSwatch(n capture.Node, s style.Snapshot, node *layer.Node) *layer.Node {
	if _, checked := n.Attr("checked"); !checked {
		return nil
	}
	sw := swatch(node, s.Colors.Foreground, 0.25)
	if typ, _ := n.Attr("type"); strings.EqualFold(typ, "radio") {
		sw.CornerRadius = math.Min(sw.Width, sw.Height) / 2
	} else {
		sw.CornerRadius = 2
	}
	sw.Name = "checked"
	return sw
}

// swatch returns a RECTANGLE inset by a fraction of the control size.
func swatch(node *layer.Node, c layer.Color, inset float64) *layer.Node {
	dx, dy := node.Width*inset, node.Height*inset
	return &layer.Node{
		Type:   layer.Rectangle,
		Name:   "swatch",
		X:      node.X + dx,
		Y:      node.Y + dy,
		Width:  math.Max(node.Width-2*dx, layer.MinSize),
		Height: math.Max(node.Height-2*dy, layer.MinSize),
		Fills:  []layer.Paint{layer.SolidPaint(c)},
	}
}

// mathSource recovers the source expression of a rendered formula from a
// TeX annotation or the container's aria-label.
func mathSource(n capture.Node) string {
	if tex := findAnnotation(n); tex != "" {
		return tex
	}
	if label, ok := n.Attr("aria-label"); ok {
		return strings.TrimSpace(label)
	}
	return ""
}

func findAnnotation(n capture.Node) string {
	for _, c := range n.Children() {
		if c.Type() != capture.ElementNode {
			continue
		}
		if c.Tag() == "annotation" {
			if enc, _ := c.Attr("encoding"); enc == "application/x-tex" {
				var b strings.Builder
				for _, t := range c.Children() {
					b.WriteString(t.Text())
				}
				return strings.TrimSpace(b.String())
			}
		}
		if tex := findAnnotation(c); tex != "" {
			return tex
		}
	}
	return ""
}

// mathLeaf turns node into a monospaced TEXT leaf holding expr.
func (p *pass) mathLeaf(node *layer.Node, s style.Snapshot, expr string) {
	family := p.monospace()
	node.Type = layer.Text
	node.Characters = expr
	node.TextAlign = textAlign(s.Font.TextAlign)
	node.Ranges = []layer.StyleRange{{
		Start:      0,
		End:        runeLen(expr),
		Font:       layer.Font{Family: family, Style: "Regular", Weight: 400},
		FontSize:   s.Font.Size,
		Fill:       s.Colors.Foreground,
		Decoration: layer.NoDecoration,
		Case:       layer.OriginalCase,
		LineHeight: s.Font.LineHeight,
	}}
}
