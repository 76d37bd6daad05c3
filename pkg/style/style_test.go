package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-importer/pkg/layer"
)

type props map[string]string

func (p props) Get(name string) string { return p[name] }

func TestResolveDefaults(t *testing.T) {
	s := Resolver{}.Resolve(props{})

	assert.Equal(t, layer.Transparent, s.Colors.Background)
	assert.Equal(t, layer.Black, s.Colors.Foreground)
	assert.Equal(t, DefaultFontSize, s.Font.Size)
	assert.InDelta(t, 19.2, s.Font.LineHeight, 1e-9)
	assert.Equal(t, 400, s.Font.Weight)
	assert.Equal(t, 1.0, s.Paint.Opacity)
	assert.Equal(t, "static", s.Layout.Position)
	assert.Nil(t, s.Layout.ZIndex)
	assert.Nil(t, s.Layout.Top)
}

func TestBorderStyleNoneForcesZeroWidth(t *testing.T) {
	s := Resolver{}.Resolve(props{
		"border-top-width":    "3px",
		"border-top-style":    "none",
		"border-right-width":  "2px",
		"border-right-style":  "solid",
		"border-bottom-width": "4px",
		"border-bottom-style": "hidden",
		"border-left-width":   "1px",
		"border-left-style":   "dashed",
	})

	assert.Equal(t, layer.Sides{Top: 0, Right: 2, Bottom: 0, Left: 1}, s.Box.Border)
}

func TestFontFamily(t *testing.T) {
	tests := []struct {
		stack    string
		expected string
	}{
		{`"Helvetica Neue", Arial, sans-serif`, "Helvetica Neue"},
		{`'Inter'`, "Inter"},
		{`"Fira Code", monospace`, DefaultMonospace},
		{`Menlo, Consolas`, DefaultMonospace},
		{`Courier New`, DefaultMonospace},
		{`"JetBrains Mono"`, DefaultMonospace},
		{`"Encode Sans", sans-serif`, "Encode Sans"},
		{`Barcode`, "Barcode"},
		{`Monoton`, "Monoton"},
		{``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.stack, func(t *testing.T) {
			s := Resolver{}.Resolve(props{"font-family": tt.stack})
			assert.Equal(t, tt.expected, s.Font.Family)
		})
	}

	s := Resolver{MonospaceFamily: "JetBrains Mono"}.Resolve(props{"font-family": "monospace"})
	assert.Equal(t, "JetBrains Mono", s.Font.Family)
}

func TestFontDescriptor(t *testing.T) {
	s := Resolver{}.Resolve(props{
		"font-size":            "20px",
		"font-weight":          "bold",
		"font-style":           "italic",
		"line-height":          "normal",
		"letter-spacing":       "0.5px",
		"text-decoration-line": "underline line-through",
		"text-transform":       "uppercase",
		"white-space":          "pre-wrap",
	})

	f := s.Font
	assert.Equal(t, 20.0, f.Size)
	assert.Equal(t, 700, f.Weight)
	assert.True(t, f.Italic)
	assert.InDelta(t, 24, f.LineHeight, 1e-9)
	assert.Equal(t, 0.5, f.LetterSpacing)
	assert.Equal(t, layer.UnderlineStrike, f.Decoration())
	assert.Equal(t, layer.UpperCase, f.Case())
	assert.True(t, f.Preformatted())

	assert.InDelta(t, 30, lineHeight("1.5", 20), 1e-9)
	assert.InDelta(t, 18, lineHeight("18px", 20), 1e-9)
}

func TestWeight(t *testing.T) {
	for in, want := range map[string]int{
		"normal": 400, "bold": 700, "bolder": 700, "lighter": 300,
		"600": 600, "": 400, "heavy": 400,
	} {
		assert.Equal(t, want, Weight(in), in)
	}
}

func TestLayoutAndTable(t *testing.T) {
	s := Resolver{}.Resolve(props{
		"display":          "inline-flex",
		"position":         "fixed",
		"top":              "0px",
		"bottom":           "auto",
		"z-index":          "3",
		"overflow":         "hidden visible",
		"gap":              "8px 12px",
		"border-collapse":  "separate",
		"border-spacing":   "2px 6px",
		"background-color": "rgb(255, 255, 255)",
		"padding":          "1px 2px 3px",
	})

	require.NotNil(t, s.Layout.ZIndex)
	assert.Equal(t, 3, *s.Layout.ZIndex)
	require.NotNil(t, s.Layout.Top)
	assert.Equal(t, 0.0, *s.Layout.Top)
	assert.Nil(t, s.Layout.Bottom)
	assert.True(t, s.Layout.Flex())
	assert.True(t, s.Layout.Positioned())
	assert.True(t, s.Layout.Clips())
	assert.Equal(t, 8.0, s.Layout.RowGap)
	assert.Equal(t, 12.0, s.Layout.ColumnGap)

	assert.False(t, s.Table.Collapse)
	assert.Equal(t, 2.0, s.Table.SpacingX)
	assert.Equal(t, 6.0, s.Table.SpacingY)

	assert.Equal(t, layer.Color{R: 1, G: 1, B: 1, A: 1}, s.Colors.Background)
	assert.Equal(t, layer.Sides{Top: 1, Right: 2, Bottom: 3, Left: 2}, s.Box.Padding)
}

func TestCornerRadii(t *testing.T) {
	s := Resolver{}.Resolve(props{"border-radius": "50%"})
	r := s.Box.CornerRadii(40, 40)
	assert.Equal(t, layer.CornerRadii{TopLeft: 20, TopRight: 20, BottomRight: 20, BottomLeft: 20}, r)

	s = Resolver{}.Resolve(props{"border-top-left-radius": "4px 8px", "border-bottom-right-radius": "100px"})
	r = s.Box.CornerRadii(40, 20)
	assert.Equal(t, 4.0, r.TopLeft)
	assert.Equal(t, 10.0, r.BottomRight)
	assert.False(t, r.Uniform())
}
