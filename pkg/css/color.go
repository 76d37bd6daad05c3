package css

import (
	"strconv"
	"strings"

	"github.com/kataras/figma-importer/pkg/layer"
)

var namedColors = map[string]layer.Color{
	"black":   {R: 0, G: 0, B: 0, A: 1},
	"white":   {R: 1, G: 1, B: 1, A: 1},
	"red":     {R: 1, G: 0, B: 0, A: 1},
	"green":   {R: 0, G: 128.0 / 255, B: 0, A: 1},
	"lime":    {R: 0, G: 1, B: 0, A: 1},
	"blue":    {R: 0, G: 0, B: 1, A: 1},
	"yellow":  {R: 1, G: 1, B: 0, A: 1},
	"cyan":    {R: 0, G: 1, B: 1, A: 1},
	"magenta": {R: 1, G: 0, B: 1, A: 1},
	"gray":    {R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255, A: 1},
	"grey":    {R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255, A: 1},
	"silver":  {R: 192.0 / 255, G: 192.0 / 255, B: 192.0 / 255, A: 1},
	"orange":  {R: 1, G: 165.0 / 255, B: 0, A: 1},
	"purple":  {R: 128.0 / 255, G: 0, B: 128.0 / 255, A: 1},
	"navy":    {R: 0, G: 0, B: 128.0 / 255, A: 1},
}

// ParseColor parses rgb()/rgba() and #hex (3, 4, 6 or 8 digits) colors.
//
// Empty, "transparent", "none" and unrecognized values yield transparent
// black. A value in a recognized form that fails to parse yields opaque
// black.
func ParseColor(value string) layer.Color {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "" || v == "transparent" || v == "none":
		return layer.Transparent
	case strings.HasPrefix(v, "rgb"):
		if c, ok := parseRGB(v); ok {
			return c
		}
		return layer.Black
	case strings.HasPrefix(v, "#"):
		if c, ok := parseHex(v[1:]); ok {
			return c
		}
		return layer.Black
	}
	if c, ok := namedColors[v]; ok {
		return c
	}
	return layer.Transparent
}

// IsColor reports whether a value component looks like a color.
func IsColor(component string) bool {
	v := strings.ToLower(component)
	if strings.HasPrefix(v, "rgb") || strings.HasPrefix(v, "hsl") || strings.HasPrefix(v, "#") {
		return true
	}
	if v == "transparent" || v == "currentcolor" {
		return true
	}
	_, ok := namedColors[v]
	return ok
}

func parseRGB(v string) (layer.Color, bool) {
	open := strings.IndexByte(v, '(')
	end := strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return layer.Color{}, false
	}
	args := strings.NewReplacer(",", " ", "/", " ").Replace(v[open+1 : end])
	parts := strings.Fields(args)
	if len(parts) != 3 && len(parts) != 4 {
		return layer.Color{}, false
	}

	var ch [3]float64
	for i := 0; i < 3; i++ {
		x, ok := channel(parts[i])
		if !ok {
			return layer.Color{}, false
		}
		ch[i] = x
	}
	a := 1.0
	if len(parts) == 4 {
		x, ok := alpha(parts[3])
		if !ok {
			return layer.Color{}, false
		}
		a = x
	}
	return layer.Color{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

func channel(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(f / 255), true
}

func alpha(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(f), true
}

func parseHex(h string) (layer.Color, bool) {
	var digits []float64
	switch len(h) {
	case 3, 4:
		for i := 0; i < len(h); i++ {
			x, err := strconv.ParseUint(h[i:i+1], 16, 8)
			if err != nil {
				return layer.Color{}, false
			}
			digits = append(digits, float64(x*17)/255)
		}
	case 6, 8:
		for i := 0; i < len(h); i += 2 {
			x, err := strconv.ParseUint(h[i:i+2], 16, 8)
			if err != nil {
				return layer.Color{}, false
			}
			digits = append(digits, float64(x)/255)
		}
	default:
		return layer.Color{}, false
	}
	c := layer.Color{R: digits[0], G: digits[1], B: digits[2], A: 1}
	if len(digits) == 4 {
		c.A = digits[3]
	}
	return c, true
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
