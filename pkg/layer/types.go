package layer

// Variant is the design-layer kind of a node.
type Variant string

const (
	Frame     Variant = "FRAME"
	Text      Variant = "TEXT"
	Image     Variant = "IMAGE"
	SVG       Variant = "SVG"
	Rectangle Variant = "RECTANGLE"
)

// MinSize is the smallest width or height a node may declare.
const MinSize = 0.01

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Transparent is fully transparent black.
var Transparent = Color{}

// Black is opaque black.
var Black = Color{A: 1}

// Visible reports whether the color is not fully transparent.
func (c Color) Visible() bool { return c.A > 0 }

// PaintType discriminates Paint.
type PaintType string

const (
	Solid          PaintType = "SOLID"
	LinearGradient PaintType = "GRADIENT_LINEAR"
)

// Paint is a fill or stroke: a solid color or a linear gradient.
type Paint struct {
	Type    PaintType `json:"type"`
	Color   *Color    `json:"color,omitempty"`
	Opacity *float64  `json:"opacity,omitempty"`
	// Angle is the CSS gradient angle in degrees (180 = top to bottom).
	Angle float64     `json:"angle,omitempty"`
	Stops []ColorStop `json:"gradientStops,omitempty"`
}

// ColorStop is a gradient stop.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// SolidPaint returns a solid paint of c.
func SolidPaint(c Color) Paint {
	return Paint{Type: Solid, Color: &c}
}

// EffectType discriminates Effect.
type EffectType string

const (
	DropShadow     EffectType = "DROP_SHADOW"
	InnerShadow    EffectType = "INNER_SHADOW"
	LayerBlur      EffectType = "LAYER_BLUR"
	BackgroundBlur EffectType = "BACKGROUND_BLUR"
)

// Effect is a shadow or blur.
type Effect struct {
	Type    EffectType `json:"type"`
	Color   *Color     `json:"color,omitempty"`
	OffsetX float64    `json:"offsetX,omitempty"`
	OffsetY float64    `json:"offsetY,omitempty"`
	Radius  float64    `json:"radius"`
	Spread  float64    `json:"spread,omitempty"`
}

// CornerRadii holds per-corner radii.
type CornerRadii struct {
	TopLeft     float64 `json:"topLeft"`
	TopRight    float64 `json:"topRight"`
	BottomRight float64 `json:"bottomRight"`
	BottomLeft  float64 `json:"bottomLeft"`
}

// Uniform reports whether all corners share one radius.
func (r CornerRadii) Uniform() bool {
	return r.TopLeft == r.TopRight && r.TopRight == r.BottomRight && r.BottomRight == r.BottomLeft
}

// Max returns the largest corner radius.
func (r CornerRadii) Max() float64 {
	m := r.TopLeft
	for _, v := range []float64{r.TopRight, r.BottomRight, r.BottomLeft} {
		if v > m {
			m = v
		}
	}
	return m
}

// Sides holds per-side stroke weights or paddings.
type Sides struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform reports whether all sides are equal.
func (s Sides) Uniform() bool {
	return s.Top == s.Right && s.Right == s.Bottom && s.Bottom == s.Left
}

// Max returns the largest side.
func (s Sides) Max() float64 {
	m := s.Top
	for _, v := range []float64{s.Right, s.Bottom, s.Left} {
		if v > m {
			m = v
		}
	}
	return m
}

// SideColors holds per-side border colors.
type SideColors struct {
	Top    Color `json:"top"`
	Right  Color `json:"right"`
	Bottom Color `json:"bottom"`
	Left   Color `json:"left"`
}

// LayoutMode is an auto-layout axis.
type LayoutMode string

const (
	Horizontal LayoutMode = "HORIZONTAL"
	Vertical   LayoutMode = "VERTICAL"
)

// LayoutKind records which CSS construct an auto-layout emulates.
type LayoutKind string

const (
	FlexLayout     LayoutKind = "flex"
	TableLayout    LayoutKind = "table"
	RowGroupLayout LayoutKind = "table-row-group"
	RowLayout      LayoutKind = "table-row"
)

// Align is an auto-layout alignment.
type Align string

const (
	AlignMin          Align = "MIN"
	AlignCenter       Align = "CENTER"
	AlignMax          Align = "MAX"
	AlignSpaceBetween Align = "SPACE_BETWEEN"
)

// AutoLayout describes the auto-layout of a frame.
type AutoLayout struct {
	Kind         LayoutKind `json:"kind"`
	Mode         LayoutMode `json:"mode"`
	Spacing      float64    `json:"spacing"`
	PrimaryAlign Align      `json:"primaryAlign,omitempty"`
	CounterAlign Align      `json:"counterAlign,omitempty"`
	Padding      Sides      `json:"padding"`
	Wrap         bool       `json:"wrap,omitempty"`
}

// Decoration is a text decoration.
type Decoration string

const (
	NoDecoration Decoration = "NONE"
	Underline    Decoration = "UNDERLINE"
	Strike       Decoration = "STRIKETHROUGH"
	// UnderlineStrike is emitted when both flags are set. The destination
	// format has no such value; it is passed through unchanged.
	UnderlineStrike Decoration = "UNDERLINE_STRIKETHROUGH"
)

// TextCase is a text transform.
type TextCase string

const (
	OriginalCase TextCase = "ORIGINAL"
	UpperCase    TextCase = "UPPER"
	LowerCase    TextCase = "LOWER"
	TitleCase    TextCase = "TITLE"
)

// ListType is a list-marker kind.
type ListType string

const (
	OrderedList   ListType = "ORDERED"
	UnorderedList ListType = "UNORDERED"
)

// Font identifies a font request.
type Font struct {
	Family string `json:"family"`
	Style  string `json:"style"`
	Weight int    `json:"weight"`
	Italic bool   `json:"italic,omitempty"`
}

// StyleRange styles characters [Start, End) of a TEXT node.
type StyleRange struct {
	Start         int        `json:"start"`
	End           int        `json:"end"`
	Font          Font       `json:"font"`
	FontSize      float64    `json:"fontSize"`
	Fill          Color      `json:"fill"`
	Decoration    Decoration `json:"decoration,omitempty"`
	Case          TextCase   `json:"case,omitempty"`
	LineHeight    float64    `json:"lineHeight,omitempty"`
	LetterSpacing float64    `json:"letterSpacing,omitempty"`
	Hyperlink     string     `json:"hyperlink,omitempty"`
	List          ListType   `json:"list,omitempty"`
}

// SameStyle reports whether two ranges carry identical styling.
func (r StyleRange) SameStyle(o StyleRange) bool {
	a, b := r, o
	a.Start, a.End, b.Start, b.End = 0, 0, 0, 0
	return a == b
}
