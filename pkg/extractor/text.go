package extractor

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/css"
	"github.com/kataras/figma-importer/pkg/fonts"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/style"
)

const textNameLimit = 40

func collapse(s string, trim bool) string { return css.CollapseWhitespace(s, trim) }

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func textName(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if runeLen(s) <= textNameLimit {
		return s
	}
	return string([]rune(s)[:textNameLimit]) + "…"
}

func textAlign(v string) string {
	switch v {
	case "center", "-webkit-center":
		return "CENTER"
	case "right", "end", "-webkit-right":
		return "RIGHT"
	case "justify":
		return "JUSTIFIED"
	}
	return "LEFT"
}

// isTextContainer decides whether an element collapses into one rich-text
// node. Elements that paint a background or border, and layout
// containers, stay frames. Every element child must be an inline tag that
// is not itself a layout container.
func (p *pass) isTextContainer(n capture.Node, s style.Snapshot) bool {
	children := n.Children()
	if len(children) == 0 {
		return false
	}
	if hasBackground(s) || hasVisibleBorder(s) {
		return false
	}
	if s.Layout.Flex() || s.Layout.Grid() {
		return false
	}
	switch n.Tag() {
	case "svg", "img", "iframe", "input", "textarea", "select", "button":
		return false
	}
	for _, c := range children {
		if c.Type() != capture.ElementNode {
			continue
		}
		if !p.isInline(c.Tag()) {
			return false
		}
		cs := p.resolve(c)
		if cs.Layout.Flex() || cs.Layout.Grid() {
			return false
		}
	}
	return true
}

// linkOf returns the href of the nearest enclosing link, including n.
func linkOf(n capture.Node) string {
	for ; n != nil; n = n.Parent() {
		if n.Type() == capture.ElementNode && n.Tag() == "a" {
			if href, ok := n.Attr("href"); ok {
				return href
			}
		}
	}
	return ""
}

// effectiveDecoration ORs the decoration flags of el and all its
// ancestors.
func effectiveDecoration(el capture.Node) layer.Decoration {
	var underline, strike bool
	for n := el; n != nil; n = n.Parent() {
		if n.Type() != capture.ElementNode {
			continue
		}
		u, s := style.DecorationFlags(n.Style())
		underline = underline || u
		strike = strike || s
	}
	return style.Decoration(underline, strike)
}

// listType maps a list-style-type keyword to a marker kind. ok is false for
// "none".
func listType(keyword string) (layer.ListType, bool) {
	k := strings.ToLower(keyword)
	switch {
	case k == "none":
		return "", false
	case strings.Contains(k, "decimal"), strings.Contains(k, "roman"),
		strings.Contains(k, "alpha"), strings.Contains(k, "latin"), strings.Contains(k, "greek"):
		return layer.OrderedList, true
	}
	return layer.UnorderedList, true
}

// textRange returns the style of text inside el, without offsets.
func (p *pass) textRange(el capture.Node, s style.Snapshot, link string) layer.StyleRange {
	return layer.StyleRange{
		Font: layer.Font{
			Family: s.Font.Family,
			Style:  fonts.StyleName(s.Font.Weight, s.Font.Italic),
			Weight: s.Font.Weight,
			Italic: s.Font.Italic,
		},
		FontSize:      s.Font.Size,
		Fill:          s.Colors.Foreground,
		Decoration:    effectiveDecoration(el),
		Case:          s.Font.Case(),
		LineHeight:    s.Font.LineHeight,
		LetterSpacing: s.Font.LetterSpacing,
		Hyperlink:     link,
	}
}

// assembler accumulates the characters and ranges of one rich-text pass.
type assembler struct {
	p      *pass
	sels   *selectors
	pre    bool
	list   layer.ListType
	text   []rune
	ranges []layer.StyleRange
}

func (a *assembler) walk(n capture.Node, link string) {
	for _, c := range n.Children() {
		switch c.Type() {
		case capture.TextNode:
			a.add(c.Parent(), c.Text(), link, false)
		case capture.ElementNode:
			tag := c.Tag()
			if tag == "br" {
				a.text = append(a.text, '\n')
				continue
			}
			if a.p.isIgnored(tag) || a.p.matches(c, a.sels.assist) || hidden(a.p.resolve(c)) {
				continue
			}
			if a.p.matches(c, a.sels.math) {
				if expr := mathSource(c); expr != "" {
					a.add(c, expr, link, true)
					continue
				}
			}
			l := link
			if tag == "a" {
				if href, ok := c.Attr("href"); ok {
					l = href
				}
			}
			a.walk(c, l)
		}
	}
}

// add appends a run of text styled by el. Math runs use the monospace
// family.
func (a *assembler) add(el capture.Node, text, link string, mono bool) {
	s := a.p.resolve(el)
	if !a.pre {
		text = collapse(text, false)
		// Collapse across runs: one space survives between words.
		if strings.HasPrefix(text, " ") && len(a.text) > 0 && unicode.IsSpace(a.text[len(a.text)-1]) {
			text = text[1:]
		}
	}
	if text == "" {
		return
	}

	start := len(a.text)
	a.text = append(a.text, []rune(text)...)
	r := a.p.textRange(el, s, link)
	if mono {
		r.Font = layer.Font{Family: a.p.monospace(), Style: "Regular", Weight: 400}
	}
	r.Start, r.End = start, len(a.text)
	r.List = a.list

	if last := len(a.ranges) - 1; last >= 0 && a.ranges[last].End == r.Start && a.ranges[last].SameStyle(r) {
		a.ranges[last].End = r.End
		return
	}
	a.ranges = append(a.ranges, r)
}

// finish trims a non-preformatted buffer and shifts every range left by the
// number of removed leading characters.
func (a *assembler) finish() (string, []layer.StyleRange) {
	text := a.text
	if !a.pre {
		lead := 0
		for lead < len(text) && unicode.IsSpace(text[lead]) {
			lead++
		}
		end := len(text)
		for end > lead && unicode.IsSpace(text[end-1]) {
			end--
		}
		text = text[lead:end]
		length := len(text)

		out := a.ranges[:0]
		for _, r := range a.ranges {
			r.Start -= lead
			r.End -= lead
			if r.Start < 0 {
				r.Start = 0
			}
			if r.End > length {
				r.End = length
			}
			if r.End <= r.Start {
				continue
			}
			out = append(out, r)
		}
		a.ranges = out
	}
	return string(text), a.ranges
}

// richText assembles the text of a container into one TEXT node placed on
// the container's content box.
func (p *pass) richText(n capture.Node, s style.Snapshot, sels *selectors, container *layer.Node) *layer.Node {
	a := &assembler{p: p, sels: sels, pre: s.Font.Preformatted()}
	if n.Tag() == "li" || s.Layout.Display == "list-item" {
		if lt, ok := listType(s.Font.ListStyle); ok {
			a.list = lt
		}
	}
	a.walk(n, linkOf(n))
	text, ranges := a.finish()
	if text == "" || len(ranges) == 0 {
		return nil
	}

	box := contentBox(container, s)
	return &layer.Node{
		Type:       layer.Text,
		Name:       textName(text),
		X:          box.X,
		Y:          box.Y,
		Width:      box.Width,
		Height:     box.Height,
		Characters: text,
		Ranges:     ranges,
		TextAlign:  textAlign(s.Font.TextAlign),
	}
}

// contentBox returns the page-space content box of a captured node.
func contentBox(node *layer.Node, s style.Snapshot) capture.Rect {
	pad, border := s.Box.Padding, s.Box.Border
	return capture.Rect{
		X:      node.X + pad.Left + border.Left,
		Y:      node.Y + pad.Top + border.Top,
		Width:  math.Max(node.Width-pad.Left-pad.Right-border.Left-border.Right, layer.MinSize),
		Height: math.Max(node.Height-pad.Top-pad.Bottom-border.Top-border.Bottom, layer.MinSize),
	}
}
