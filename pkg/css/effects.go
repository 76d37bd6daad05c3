package css

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kataras/figma-importer/pkg/layer"
)

// Shadow is one entry of a box-shadow list.
type Shadow struct {
	Inset  bool
	X, Y   float64
	Blur   float64
	Spread float64
	Color  layer.Color
}

// ParseShadows parses a box-shadow value. Lengths are read positionally as
// offset-x, offset-y, blur and spread; absent trailing lengths are zero. A
// shadow without a color is opaque black.
func ParseShadows(value string) []Shadow {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "none") {
		return nil
	}

	var shadows []Shadow
	for _, group := range splitValue(v) {
		if len(group) == 0 {
			continue
		}
		sh := Shadow{Color: layer.Black}
		var (
			lengths  []float64
			hasColor bool
		)
		for _, comp := range group {
			switch {
			case strings.EqualFold(comp, "inset"):
				sh.Inset = true
			case !hasColor && IsColor(comp):
				sh.Color = ParseColor(comp)
				hasColor = true
			default:
				if f, ok := ParseLength(comp); ok {
					lengths = append(lengths, f)
				}
			}
		}
		for i, f := range lengths {
			switch i {
			case 0:
				sh.X = f
			case 1:
				sh.Y = f
			case 2:
				sh.Blur = f
			case 3:
				sh.Spread = f
			}
		}
		shadows = append(shadows, sh)
	}
	return shadows
}

var blurRe = regexp.MustCompile(`(?i)blur\(\s*(-?[0-9]*\.?[0-9]+)(px)?\s*\)`)

// ParseBlur returns the radius of the first blur() function of a filter
// value. ok is false when no blur function is present, which is distinct
// from a zero blur.
func ParseBlur(value string) (radius float64, ok bool) {
	m := blurRe.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Gradient is a parsed linear gradient.
type Gradient struct {
	// Angle in degrees, CSS convention: 0 points up, 180 down.
	Angle float64
	Stops []layer.ColorStop
}

// ParseLinearGradient parses the first linear-gradient() of a
// background-image value. Stop positions are not parsed; recognized stops
// are spread evenly over [0,1]. Fewer than two stops yield ok=false.
func ParseLinearGradient(value string) (Gradient, bool) {
	args, ok := functionArgs(value, "linear-gradient")
	if !ok {
		return Gradient{}, false
	}

	g := Gradient{Angle: 180}
	var colors []layer.Color
	for i, group := range splitValue(args) {
		if len(group) == 0 {
			continue
		}
		if i == 0 {
			if angle, ok := direction(group); ok {
				g.Angle = angle
				continue
			}
		}
		for _, comp := range group {
			if IsColor(comp) {
				colors = append(colors, ParseColor(comp))
				break
			}
		}
	}
	if len(colors) < 2 {
		return Gradient{}, false
	}

	for i, c := range colors {
		g.Stops = append(g.Stops, layer.ColorStop{
			Position: float64(i) / float64(len(colors)-1),
			Color:    c,
		})
	}
	return g, true
}

var sideAngles = map[string]float64{
	"top":          0,
	"right":        90,
	"bottom":       180,
	"left":         270,
	"top right":    45,
	"right top":    45,
	"bottom right": 135,
	"right bottom": 135,
	"bottom left":  225,
	"left bottom":  225,
	"top left":     315,
	"left top":     315,
}

func direction(group []string) (float64, bool) {
	if strings.EqualFold(group[0], "to") {
		a, ok := sideAngles[strings.ToLower(strings.Join(group[1:], " "))]
		return a, ok
	}
	if len(group) != 1 {
		return 0, false
	}
	v := strings.ToLower(group[0])
	units := []struct {
		suffix string
		scale  float64
	}{
		{"grad", 0.9},
		{"turn", 360},
		{"rad", 180 / math.Pi},
		{"deg", 1},
	}
	for _, u := range units {
		if strings.HasSuffix(v, u.suffix) {
			f, err := strconv.ParseFloat(strings.TrimSuffix(v, u.suffix), 64)
			if err != nil {
				return 0, false
			}
			return f * u.scale, true
		}
	}
	return 0, false
}
