// Package style resolves the computed style of a source node into a typed
// Snapshot. Resolution never fails; every property has a default.
package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/css"
	"github.com/kataras/figma-importer/pkg/layer"
)

const (
	// DefaultFontSize is used when font-size is absent or unparseable.
	DefaultFontSize = 16.0
	// DefaultMonospace is the family monospaced stacks are forced to.
	DefaultMonospace = "Roboto Mono"
	// NormalLineHeight is the font size multiplier for line-height: normal.
	NormalLineHeight = 1.2
)

var monospaceRe = regexp.MustCompile(`(?i)\b(mono|monospace|courier|consolas|inconsolata|menlo|monaco|code)\b`)

// Snapshot is the resolved visual state of one node, split per concern.
type Snapshot struct {
	Colors ColorSet
	Font   FontDescriptor
	Box    BoxMetrics
	Layout LayoutMode
	Paint  PaintDescriptor
	Table  TableDescriptor
}

// ColorSet holds the colors of a node.
type ColorSet struct {
	Background layer.Color
	Foreground layer.Color
	Border     layer.SideColors
}

// FontDescriptor holds the text properties of a node.
type FontDescriptor struct {
	Family        string
	Weight        int
	Italic        bool
	Size          float64
	LineHeight    float64
	LetterSpacing float64
	Transform     string
	Underline     bool
	Strike        bool
	WhiteSpace    string
	TextAlign     string
	ListStyle     string
}

// Preformatted reports whether whitespace is preserved.
func (f FontDescriptor) Preformatted() bool {
	switch f.WhiteSpace {
	case "pre", "pre-wrap", "pre-line", "break-spaces":
		return true
	}
	return false
}

// Decoration returns the decoration of the node's own flags.
func (f FontDescriptor) Decoration() layer.Decoration {
	return Decoration(f.Underline, f.Strike)
}

// Case maps text-transform to a text case.
func (f FontDescriptor) Case() layer.TextCase {
	switch f.Transform {
	case "uppercase":
		return layer.UpperCase
	case "lowercase":
		return layer.LowerCase
	case "capitalize":
		return layer.TitleCase
	}
	return layer.OriginalCase
}

// Decoration combines decoration flags. Both flags yield the combined
// value.
func Decoration(underline, strike bool) layer.Decoration {
	switch {
	case underline && strike:
		return layer.UnderlineStrike
	case underline:
		return layer.Underline
	case strike:
		return layer.Strike
	}
	return layer.NoDecoration
}

// BoxMetrics holds box geometry. Border widths are zero for sides whose
// border style is none or hidden.
type BoxMetrics struct {
	Radii layer.CornerRadii
	// RadiiPercent holds corner radii given as percentages.
	RadiiPercent layer.CornerRadii
	Padding      layer.Sides
	Margin       layer.Sides
	Border       layer.Sides
}

// CornerRadii resolves the corner radii of a w×h box. Percentages refer
// to the smaller side and every radius is capped at half of it.
func (b BoxMetrics) CornerRadii(w, h float64) layer.CornerRadii {
	short := math.Min(w, h)
	resolve := func(px, pct float64) float64 {
		return math.Min(px+pct/100*short, short/2)
	}
	return layer.CornerRadii{
		TopLeft:     resolve(b.Radii.TopLeft, b.RadiiPercent.TopLeft),
		TopRight:    resolve(b.Radii.TopRight, b.RadiiPercent.TopRight),
		BottomRight: resolve(b.Radii.BottomRight, b.RadiiPercent.BottomRight),
		BottomLeft:  resolve(b.Radii.BottomLeft, b.RadiiPercent.BottomLeft),
	}
}

// LayoutMode holds display and positioning properties. Nil offsets and
// z-index mean auto.
type LayoutMode struct {
	Display        string
	FlexDirection  string
	FlexWrap       string
	AlignItems     string
	JustifyContent string
	RowGap         float64
	ColumnGap      float64
	Position       string
	Top            *float64
	Right          *float64
	Bottom         *float64
	Left           *float64
	ZIndex         *int
	Float          string
	Overflow       string
}

// Flex reports whether the node is a flex container.
func (l LayoutMode) Flex() bool {
	return l.Display == "flex" || l.Display == "inline-flex"
}

// Grid reports whether the node is a grid container.
func (l LayoutMode) Grid() bool {
	return l.Display == "grid" || l.Display == "inline-grid"
}

// Positioned reports whether position is anything but static.
func (l LayoutMode) Positioned() bool {
	return l.Position != "" && l.Position != "static"
}

// Clips reports whether overflow clips the content.
func (l LayoutMode) Clips() bool {
	for _, v := range strings.Fields(l.Overflow) {
		switch v {
		case "hidden", "clip", "auto", "scroll":
			return true
		}
	}
	return false
}

// PaintDescriptor holds the raw paint strings and visibility state.
type PaintDescriptor struct {
	BoxShadow       string
	Filter          string
	BackdropFilter  string
	BackgroundImage string
	Opacity         float64
	Visibility      string
}

// TableDescriptor holds table spacing.
type TableDescriptor struct {
	Collapse bool
	SpacingX float64
	SpacingY float64
}

// Resolver resolves computed styles.
type Resolver struct {
	// MonospaceFamily replaces monospaced font stacks.
	// Defaults to DefaultMonospace.
	MonospaceFamily string
}

// Resolve builds the snapshot of s.
func (r Resolver) Resolve(s capture.Style) Snapshot {
	font := r.font(s)
	return Snapshot{
		Colors: colors(s),
		Font:   font,
		Box:    box(s),
		Layout: layout(s),
		Paint:  paint(s),
		Table:  table(s),
	}
}

func colors(s capture.Style) ColorSet {
	c := ColorSet{
		Background: css.ParseColor(s.Get("background-color")),
		Foreground: layer.Black,
	}
	if v := s.Get("color"); v != "" {
		c.Foreground = css.ParseColor(v)
	}
	c.Border = layer.SideColors{
		Top:    css.ParseColor(side(s, "border-top-color", "border-color", 0)),
		Right:  css.ParseColor(side(s, "border-right-color", "border-color", 1)),
		Bottom: css.ParseColor(side(s, "border-bottom-color", "border-color", 2)),
		Left:   css.ParseColor(side(s, "border-left-color", "border-color", 3)),
	}
	return c
}

func (r Resolver) font(s capture.Style) FontDescriptor {
	f := FontDescriptor{
		Family:     family(s.Get("font-family")),
		Weight:     Weight(s.Get("font-weight")),
		Size:       DefaultFontSize,
		Transform:  s.Get("text-transform"),
		WhiteSpace: s.Get("white-space"),
		TextAlign:  s.Get("text-align"),
		ListStyle:  s.Get("list-style-type"),
	}
	if f.Family != "" && monospaceRe.MatchString(f.Family) {
		f.Family = r.MonospaceFamily
		if f.Family == "" {
			f.Family = DefaultMonospace
		}
	}
	switch s.Get("font-style") {
	case "italic", "oblique":
		f.Italic = true
	}
	if v, ok := css.ParseLength(s.Get("font-size")); ok && v > 0 {
		f.Size = v
	}
	f.LineHeight = lineHeight(s.Get("line-height"), f.Size)
	f.LetterSpacing = css.ParsePx(s.Get("letter-spacing"))

	f.Underline, f.Strike = DecorationFlags(s)
	return f
}

// DecorationFlags reads the underline and line-through flags a node sets
// itself, without inheritance.
func DecorationFlags(s capture.Style) (underline, strike bool) {
	deco := s.Get("text-decoration-line")
	if deco == "" {
		deco = s.Get("text-decoration")
	}
	return strings.Contains(deco, "underline"), strings.Contains(deco, "line-through")
}

func family(stack string) string {
	first := strings.TrimSpace(strings.Split(stack, ",")[0])
	return strings.Trim(first, `"'`)
}

// Weight maps a numeric or named font-weight to a number. Unknown values
// are 400.
func Weight(v string) int {
	switch strings.TrimSpace(v) {
	case "", "normal":
		return 400
	case "bold", "bolder":
		return 700
	case "lighter":
		return 300
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 400
	}
	return n
}

func lineHeight(v string, size float64) float64 {
	v = strings.TrimSpace(v)
	switch {
	case v == "" || v == "normal":
		return NormalLineHeight * size
	case strings.HasSuffix(v, "px"):
		return css.ParsePx(v)
	case strings.HasSuffix(v, "%"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return NormalLineHeight * size
		}
		return f / 100 * size
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return NormalLineHeight * size
	}
	return f * size
}

var sideNames = [4]string{"top", "right", "bottom", "left"}

func box(s capture.Style) BoxMetrics {
	var b BoxMetrics
	b.Padding = sides(s, "padding-%s", "padding")
	b.Margin = sides(s, "margin-%s", "margin")

	var w [4]float64
	for i, name := range sideNames {
		st := side(s, "border-"+name+"-style", "border-style", i)
		if st == "none" || st == "hidden" {
			continue
		}
		w[i] = css.ParsePx(side(s, "border-"+name+"-width", "border-width", i))
	}
	b.Border = layer.Sides{Top: w[0], Right: w[1], Bottom: w[2], Left: w[3]}

	var px, pct [4]float64
	corners := [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}
	for i, corner := range corners {
		px[i], pct[i] = radius(side(s, "border-"+corner+"-radius", "border-radius", i))
	}
	b.Radii = layer.CornerRadii{TopLeft: px[0], TopRight: px[1], BottomRight: px[2], BottomLeft: px[3]}
	b.RadiiPercent = layer.CornerRadii{TopLeft: pct[0], TopRight: pct[1], BottomRight: pct[2], BottomLeft: pct[3]}
	return b
}

// radius reads the horizontal component of a corner radius, either in px
// or in percent.
func radius(v string) (px, pct float64) {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0, 0
	}
	if strings.HasSuffix(fields[0], "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
		if err != nil {
			return 0, 0
		}
		return 0, f
	}
	return css.ParsePx(fields[0]), 0
}

func sides(s capture.Style, longhand, shorthand string) layer.Sides {
	var v [4]float64
	for i, name := range sideNames {
		v[i] = css.ParsePx(side(s, strings.Replace(longhand, "%s", name, 1), shorthand, i))
	}
	return layer.Sides{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
}

// side reads a longhand property, falling back to the i-th side (top,
// right, bottom, left) of its shorthand.
func side(s capture.Style, longhand, shorthand string, i int) string {
	if v := s.Get(longhand); v != "" {
		return v
	}
	parts := css.Fields(s.Get(shorthand))
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[i%2]
	case 3:
		if i == 3 {
			return parts[1]
		}
		return parts[i]
	default:
		return parts[i]
	}
}

func layout(s capture.Style) LayoutMode {
	l := LayoutMode{
		Display:        s.Get("display"),
		FlexDirection:  s.Get("flex-direction"),
		FlexWrap:       s.Get("flex-wrap"),
		AlignItems:     s.Get("align-items"),
		JustifyContent: s.Get("justify-content"),
		Position:       s.Get("position"),
		Float:          s.Get("float"),
		Overflow:       s.Get("overflow"),
		Top:            offset(s.Get("top")),
		Right:          offset(s.Get("right")),
		Bottom:         offset(s.Get("bottom")),
		Left:           offset(s.Get("left")),
	}
	if l.Position == "" {
		l.Position = "static"
	}
	if l.Overflow == "" {
		l.Overflow = strings.TrimSpace(s.Get("overflow-x") + " " + s.Get("overflow-y"))
	}
	gap := css.Fields(s.Get("gap"))
	l.RowGap = css.ParsePx(s.Get("row-gap"))
	l.ColumnGap = css.ParsePx(s.Get("column-gap"))
	if len(gap) > 0 && l.RowGap == 0 && l.ColumnGap == 0 {
		l.RowGap = css.ParsePx(gap[0])
		l.ColumnGap = l.RowGap
		if len(gap) > 1 {
			l.ColumnGap = css.ParsePx(gap[1])
		}
	}
	if z, err := strconv.Atoi(strings.TrimSpace(s.Get("z-index"))); err == nil {
		l.ZIndex = &z
	}
	return l
}

func offset(v string) *float64 {
	f, ok := css.ParseLength(v)
	if !ok {
		return nil
	}
	return &f
}

func paint(s capture.Style) PaintDescriptor {
	p := PaintDescriptor{
		BoxShadow:       s.Get("box-shadow"),
		Filter:          s.Get("filter"),
		BackdropFilter:  s.Get("backdrop-filter"),
		BackgroundImage: s.Get("background-image"),
		Opacity:         1,
		Visibility:      s.Get("visibility"),
	}
	if v := strings.TrimSpace(s.Get("opacity")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Opacity = f
		}
	}
	return p
}

func table(s capture.Style) TableDescriptor {
	t := TableDescriptor{Collapse: s.Get("border-collapse") == "collapse"}
	parts := strings.Fields(s.Get("border-spacing"))
	if len(parts) > 0 {
		t.SpacingX = css.ParsePx(parts[0])
		t.SpacingY = t.SpacingX
		if len(parts) > 1 {
			t.SpacingY = css.ParsePx(parts[1])
		}
	}
	return t
}
