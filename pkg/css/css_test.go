package css

import (
	"math"
	"testing"

	"github.com/kataras/figma-importer/pkg/layer"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func sameColor(a, b layer.Color) bool {
	return approx(a.R, b.R) && approx(a.G, b.G) && approx(a.B, b.B) && approx(a.A, b.A)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected layer.Color
	}{
		{"rgba(255,0,0,0.5)", layer.Color{R: 1, A: 0.5}},
		{"rgba(255, 0, 0, 0.5)", layer.Color{R: 1, A: 0.5}},
		{"rgb(0 0 255 / 50%)", layer.Color{B: 1, A: 0.5}},
		{"rgb(100%, 0%, 0%)", layer.Color{R: 1, A: 1}},
		{"transparent", layer.Transparent},
		{"", layer.Transparent},
		{"none", layer.Transparent},
		{"#ff0000", layer.Color{R: 1, A: 1}},
		{"#f00", layer.Color{R: 1, A: 1}},
		{"#ff000080", layer.Color{R: 1, A: 128.0 / 255}},
		{"#0f08", layer.Color{G: 1, A: 136.0 / 255}},
		{"white", layer.Color{R: 1, G: 1, B: 1, A: 1}},
		{"hsl(0, 100%, 50%)", layer.Transparent},
		{"rgb(oops)", layer.Black},
		{"#zzzzzz", layer.Black},
		{"#12345", layer.Black},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseColor(tt.input)
			if !sameColor(got, tt.expected) {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseShadows(t *testing.T) {
	got := ParseShadows("rgba(0, 0, 0, 0.5) 1px 2px 3px 4px, inset 0px 0px 5px rgb(255, 0, 0)")
	if len(got) != 2 {
		t.Fatalf("expected 2 shadows, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.Inset || first.X != 1 || first.Y != 2 || first.Blur != 3 || first.Spread != 4 {
		t.Errorf("unexpected first shadow: %+v", first)
	}
	if !sameColor(first.Color, layer.Color{A: 0.5}) {
		t.Errorf("unexpected first shadow color: %+v", first.Color)
	}

	second := got[1]
	if !second.Inset || second.Blur != 5 || second.Spread != 0 {
		t.Errorf("unexpected second shadow: %+v", second)
	}
	if !sameColor(second.Color, layer.Color{R: 1, A: 1}) {
		t.Errorf("unexpected second shadow color: %+v", second.Color)
	}

	if s := ParseShadows("none"); s != nil {
		t.Errorf("expected no shadows for none, got %+v", s)
	}

	bare := ParseShadows("2px 3px")
	if len(bare) != 1 || bare[0].X != 2 || bare[0].Y != 3 || bare[0].Blur != 0 || bare[0].Color != layer.Black {
		t.Errorf("unexpected bare shadow: %+v", bare)
	}
}

func TestParseBlur(t *testing.T) {
	tests := []struct {
		input  string
		radius float64
		ok     bool
	}{
		{"blur(4px)", 4, true},
		{"brightness(0.5) blur(2.5px)", 2.5, true},
		{"blur(0)", 0, true},
		{"none", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, ok := ParseBlur(tt.input)
			if r != tt.radius || ok != tt.ok {
				t.Errorf("ParseBlur(%q) = (%v, %v), want (%v, %v)", tt.input, r, ok, tt.radius, tt.ok)
			}
		})
	}
}

func TestParseLinearGradient(t *testing.T) {
	g, ok := ParseLinearGradient("linear-gradient(to right, rgb(255, 0, 0) 0%, rgb(0, 255, 0) 30%, rgb(0, 0, 255))")
	if !ok {
		t.Fatal("expected a gradient")
	}
	if g.Angle != 90 {
		t.Errorf("expected angle 90, got %v", g.Angle)
	}
	if len(g.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(g.Stops))
	}
	for i, want := range []float64{0, 0.5, 1} {
		if !approx(g.Stops[i].Position, want) {
			t.Errorf("stop %d: expected position %v, got %v", i, want, g.Stops[i].Position)
		}
	}

	g, ok = ParseLinearGradient("linear-gradient(#fff, #000)")
	if !ok || g.Angle != 180 {
		t.Errorf("expected default angle 180, got %v (ok=%v)", g.Angle, ok)
	}

	g, ok = ParseLinearGradient("linear-gradient(0.25turn, red, blue)")
	if !ok || !approx(g.Angle, 90) {
		t.Errorf("expected 90 from 0.25turn, got %v", g.Angle)
	}

	if _, ok := ParseLinearGradient("linear-gradient(red)"); ok {
		t.Error("a single stop must not produce a gradient")
	}
	if _, ok := ParseLinearGradient("radial-gradient(red, blue)"); ok {
		t.Error("radial gradients are not recognized")
	}
	if _, ok := ParseLinearGradient("repeating-linear-gradient(red, blue)"); ok {
		t.Error("repeating gradients are not recognized")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		input    string
		trim     bool
		expected string
	}{
		{"  Hello \n\t World  ", true, "Hello World"},
		{"  Hello \n\t World  ", false, " Hello World "},
		{"a\r\n\fb", false, "a b"},
		{"", true, ""},
	}

	for _, tt := range tests {
		if got := CollapseWhitespace(tt.input, tt.trim); got != tt.expected {
			t.Errorf("CollapseWhitespace(%q, %v) = %q, want %q", tt.input, tt.trim, got, tt.expected)
		}
	}
}

func TestLengths(t *testing.T) {
	if got := ParsePx("12.5px"); got != 12.5 {
		t.Errorf("ParsePx: got %v", got)
	}
	if got := ParsePx("2em"); got != 0 {
		t.Errorf("ParsePx of em: got %v", got)
	}
	if _, ok := ParseLength("auto"); ok {
		t.Error("auto must not be a length")
	}
	if v, ok := ParseLength("-3px"); !ok || v != -3 {
		t.Errorf("ParseLength(-3px) = %v, %v", v, ok)
	}
	if got := StripUnit("1.5px"); got != "1.5" {
		t.Errorf("StripUnit: got %q", got)
	}
	if got := StripUnit("round"); got != "round" {
		t.Errorf("StripUnit keyword: got %q", got)
	}
}
