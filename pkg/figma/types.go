// Package figma holds the Figma file document model written by the
// importer. Field names follow the Figma REST file format so the output
// can be read by tools that consume Figma file JSON.
package figma

// FileResponse represents a complete Figma file document.
// It contains the file metadata, document structure, published styles, and schema version information.
type FileResponse struct {
	Name          string           `json:"name"`
	LastModified  string           `json:"lastModified"`
	ThumbnailURL  string           `json:"thumbnailUrl"`
	Version       string           `json:"version"`
	Document      Node             `json:"document"`
	Styles        map[string]Style `json:"styles"`
	SchemaVersion int              `json:"schemaVersion"`
	// Images maps image refs used by IMAGE paints to their source locators.
	Images map[string]string `json:"images,omitempty"`
}

// Style represents a published Figma style with its basic properties.
// Styles can be colors (FILL), text styles (TEXT), effects (EFFECT), or layout grids (GRID).
type Style struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleType   string `json:"style_type"`
}

// Node represents a single element in the Figma document tree hierarchy.
// Nodes can be frames, groups, text, shapes, or other Figma elements, each with their own properties
// such as fills, strokes, effects, layout settings, and children nodes.
type Node struct {
	ID                      string               `json:"id"`
	Name                    string               `json:"name"`
	Type                    string               `json:"type"`
	Children                []Node               `json:"children,omitempty"`
	BackgroundColor         *Color               `json:"backgroundColor,omitempty"`
	Opacity                 *float64             `json:"opacity,omitempty"`
	ClipsContent            bool                 `json:"clipsContent,omitempty"`
	Fills                   []Paint              `json:"fills"`
	Strokes                 []Paint              `json:"strokes,omitempty"`
	StrokeWeight            float64              `json:"strokeWeight,omitempty"`
	StrokeAlign             string               `json:"strokeAlign,omitempty"`
	IndividualStrokeWeights *StrokeWeights       `json:"individualStrokeWeights,omitempty"`
	CornerRadius            float64              `json:"cornerRadius,omitempty"`
	RectangleCornerRadii    []float64            `json:"rectangleCornerRadii,omitempty"`
	ArcData                 *ArcData             `json:"arcData,omitempty"`
	Effects                 []Effect             `json:"effects,omitempty"`
	Characters              string               `json:"characters,omitempty"`
	Style                   *TypeStyle           `json:"style,omitempty"`
	CharacterStyleOverrides []int                `json:"characterStyleOverrides,omitempty"`
	StyleOverrideTable      map[string]TypeStyle `json:"styleOverrideTable,omitempty"`
	LineTypes               []string             `json:"lineTypes,omitempty"`
	AbsoluteBoundingBox     *Rectangle           `json:"absoluteBoundingBox,omitempty"`
	RelativeTransform       [][]float64          `json:"relativeTransform,omitempty"`
	Size                    *Vector              `json:"size,omitempty"`
	Constraints             *LayoutConstraint    `json:"constraints,omitempty"`
	LayoutMode              string               `json:"layoutMode,omitempty"`
	LayoutWrap              string               `json:"layoutWrap,omitempty"`
	PrimaryAxisSizingMode   string               `json:"primaryAxisSizingMode,omitempty"`
	CounterAxisSizingMode   string               `json:"counterAxisSizingMode,omitempty"`
	PrimaryAxisAlignItems   string               `json:"primaryAxisAlignItems,omitempty"`
	CounterAxisAlignItems   string               `json:"counterAxisAlignItems,omitempty"`
	PaddingLeft             float64              `json:"paddingLeft,omitempty"`
	PaddingRight            float64              `json:"paddingRight,omitempty"`
	PaddingTop              float64              `json:"paddingTop,omitempty"`
	PaddingBottom           float64              `json:"paddingBottom,omitempty"`
	ItemSpacing             float64              `json:"itemSpacing,omitempty"`
	// SVGMarkup keeps the source markup of nodes created from SVG.
	SVGMarkup string `json:"svgMarkup,omitempty"`
}

// Color represents an RGBA color with float values ranging from 0 to 1.
// The R, G, B, and A (alpha/opacity) values must be converted to 0-255 range for standard use.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Paint represents a fill or stroke applied to a Figma node.
// It includes the paint type (SOLID, GRADIENT_LINEAR, IMAGE), visibility, opacity, and color information.
// Gradients carry their handle positions in normalized node space and their stops;
// image paints reference an entry of FileResponse.Images.
type Paint struct {
	Type                    string      `json:"type"`
	Visible                 bool        `json:"visible"`
	Opacity                 float64     `json:"opacity"`
	Color                   *Color      `json:"color,omitempty"`
	GradientHandlePositions []Vector    `json:"gradientHandlePositions,omitempty"`
	GradientStops           []ColorStop `json:"gradientStops,omitempty"`
	ImageRef                string      `json:"imageRef,omitempty"`
	ScaleMode               string      `json:"scaleMode,omitempty"`
}

// ColorStop is a position and color along a gradient.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Effect represents a visual effect applied to a Figma node such as drop shadows, inner shadows, or blur effects.
// It includes positioning (offset), blur radius, spread, color, and blend mode settings.
type Effect struct {
	Type      string  `json:"type"`
	Visible   bool    `json:"visible"`
	Radius    float64 `json:"radius,omitempty"`
	Color     *Color  `json:"color,omitempty"`
	Offset    *Vector `json:"offset,omitempty"`
	Spread    float64 `json:"spread,omitempty"`
	BlendMode string  `json:"blendMode,omitempty"`
}

// StrokeWeights holds per-side stroke weights.
type StrokeWeights struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ArcData describes a partial ellipse: start and end angles in radians and
// the inner radius as a ratio of the outer one.
type ArcData struct {
	StartingAngle float64 `json:"startingAngle"`
	EndingAngle   float64 `json:"endingAngle"`
	InnerRadius   float64 `json:"innerRadius"`
}

// Vector represents a 2D coordinate or offset with X and Y values.
// Used for positioning effects like shadows and other spatial properties.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TypeStyle represents comprehensive text styling properties from Figma.
// It includes font family, weight, size, line height, letter spacing, and text alignment settings,
// plus the decoration, case, fill and hyperlink a character range may override.
type TypeStyle struct {
	FontFamily          string     `json:"fontFamily,omitempty"`
	FontPostScriptName  string     `json:"fontPostScriptName,omitempty"`
	FontStyle           string     `json:"fontStyle,omitempty"`
	FontWeight          float64    `json:"fontWeight,omitempty"`
	Italic              bool       `json:"italic,omitempty"`
	FontSize            float64    `json:"fontSize,omitempty"`
	LineHeightPx        float64    `json:"lineHeightPx,omitempty"`
	LineHeightPercent   float64    `json:"lineHeightPercent,omitempty"`
	LineHeightUnit      string     `json:"lineHeightUnit,omitempty"`
	LetterSpacing       float64    `json:"letterSpacing,omitempty"`
	TextAlignHorizontal string     `json:"textAlignHorizontal,omitempty"`
	TextAlignVertical   string     `json:"textAlignVertical,omitempty"`
	TextCase            string     `json:"textCase,omitempty"`
	TextDecoration      string     `json:"textDecoration,omitempty"`
	Fills               []Paint    `json:"fills,omitempty"`
	Hyperlink           *Hyperlink `json:"hyperlink,omitempty"`
}

// Hyperlink is the link target of a text range.
type Hyperlink struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

// Rectangle represents a bounding box with position (X, Y) and dimensions (Width, Height).
// Used to define the absolute position and size of nodes in the Figma canvas.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayoutConstraint defines how a node's position and size behave when its parent is resized.
// Constraints can be set for both vertical (TOP, BOTTOM, CENTER, etc.) and horizontal directions.
type LayoutConstraint struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

// Walk visits n and its descendants depth-first.
func Walk(n *Node, fn func(n *Node)) {
	fn(n)
	for i := range n.Children {
		Walk(&n.Children[i], fn)
	}
}
