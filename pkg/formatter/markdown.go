package formatter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kataras/figma-importer/pkg/imager"
	"github.com/kataras/figma-importer/pkg/layer"
)

// maxOutlineDepth bounds the tree outline; deeper layers are summarized.
const maxOutlineDepth = 6

// ToMarkdown transforms a captured layer document into a markdown report.
// The output includes a summary of the tree, CSS variable definitions for
// the colors, fonts, radii and shadows it uses, an outline of the layers
// and, when given, the downloaded image assets.
func ToMarkdown(doc *layer.Document, assets []imager.Asset) string {
	var sb strings.Builder

	title := doc.Source
	if title == "" {
		title = doc.ID
	}
	sb.WriteString(fmt.Sprintf("# Design Capture - %s\n\n", title))
	sb.WriteString("This document summarizes the layers captured from the page.\n\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Capture ID**: `%s`\n", doc.ID))
	if !doc.CapturedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("- **Captured At**: %s\n", doc.CapturedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("- **Viewport**: %.0f×%.0f\n", doc.Viewport.Width, doc.Viewport.Height))
	sb.WriteString(fmt.Sprintf("- **Depth**: %d\n", layer.Depth(doc.Root)))

	ranges := 0
	layer.Walk(doc.Root, func(n *layer.Node, _ int) bool {
		ranges += len(n.Ranges)
		return true
	})
	sb.WriteString(fmt.Sprintf("- **Text Ranges**: %d\n\n", ranges))

	counts := layer.Count(doc.Root)
	if len(counts) > 0 {
		sb.WriteString("| Layer | Count |\n")
		sb.WriteString("|-------|-------|\n")
		for _, v := range []layer.Variant{layer.Frame, layer.Text, layer.Image, layer.SVG, layer.Rectangle} {
			if counts[v] > 0 {
				sb.WriteString(fmt.Sprintf("| %s | %d |\n", v, counts[v]))
			}
		}
		sb.WriteString("\n")
	}

	t := collect(doc.Root)

	sb.WriteString("## Design System\n\n")

	// Colors
	if len(t.colors) > 0 {
		sb.WriteString("### Color Palette\n\n")
		sb.WriteString("```css\n")
		for i, hex := range t.palette() {
			sb.WriteString(fmt.Sprintf("--color-%d: %s;\n", i+1, hex))
		}
		sb.WriteString("```\n\n")
	}

	// Typography
	if len(t.fonts) > 0 {
		sb.WriteString("### Typography\n\n")
		sb.WriteString("```css\n")
		families := sortedKeys(t.fonts)
		for _, family := range families {
			sb.WriteString(fmt.Sprintf("--font-%s: '%s', system-ui, sans-serif;\n", toKebabCase(family), family))
		}
		if len(t.sizes) > 0 {
			sb.WriteString("\n/* Font Sizes */\n")
			for _, size := range sortedFloats(t.sizes) {
				sb.WriteString(fmt.Sprintf("--text-%s: %gpx;\n", formatNumber(size), size))
			}
		}
		sb.WriteString("```\n\n")

		sb.WriteString("| Family | Styles |\n")
		sb.WriteString("|--------|--------|\n")
		for _, family := range families {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", family, strings.Join(sortedKeys(t.fonts[family]), ", ")))
		}
		sb.WriteString("\n")
	}

	// Border Radii
	if len(t.radii) > 0 {
		sb.WriteString("### Border Radius\n\n")
		sb.WriteString("```css\n")
		for _, r := range sortedFloats(t.radii) {
			sb.WriteString(fmt.Sprintf("--radius-%s: %gpx;\n", formatNumber(r), r))
		}
		sb.WriteString("```\n\n")
	}

	// Shadows
	if len(t.shadows) > 0 {
		sb.WriteString("### Shadows\n\n")
		sb.WriteString("```css\n")
		for i, shadow := range t.shadows {
			sb.WriteString(fmt.Sprintf("--shadow-%d: %s;\n", i+1, shadow))
		}
		sb.WriteString("```\n\n")
	}

	// Outline
	sb.WriteString("## Layer Outline\n\n")
	layer.Walk(doc.Root, func(n *layer.Node, depth int) bool {
		indent := strings.Repeat("  ", depth)
		if depth == maxOutlineDepth {
			sb.WriteString(fmt.Sprintf("%s- … %d more layers\n", indent, countNodes(n)))
			return false
		}
		sb.WriteString(fmt.Sprintf("%s- %s\n", indent, describe(n)))
		return true
	})
	sb.WriteString("\n")

	// Image Assets
	if len(assets) > 0 {
		sb.WriteString("## Image Assets\n\n")
		sb.WriteString("| Layer | File | Source |\n")
		sb.WriteString("|-------|------|--------|\n")
		for _, asset := range assets {
			name := asset.NodeName
			if name == "" {
				name = asset.FileName
			}
			sb.WriteString(fmt.Sprintf("| %s | `%s` | %s |\n", name, asset.FileName, shorten(asset.Source, 60)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func describe(n *layer.Node) string {
	name := n.Name
	if n.Type == layer.Text {
		name = fmt.Sprintf("%q", shorten(n.Characters, 40))
	}
	s := fmt.Sprintf("**%s** %s (%g×%g at %g,%g)", n.Type, name, round2(n.Width), round2(n.Height), round2(n.X), round2(n.Y))
	if n.Layout != nil {
		s += fmt.Sprintf(" · %s %s", n.Layout.Kind, n.Layout.Mode)
	}
	return s
}

func countNodes(n *layer.Node) int {
	c := 0
	layer.Walk(n, func(*layer.Node, int) bool {
		c++
		return true
	})
	return c
}

type tokens struct {
	colors  map[string]int
	fonts   map[string]map[string]bool
	sizes   map[float64]bool
	radii   map[float64]bool
	shadows []string
}

func collect(root *layer.Node) *tokens {
	t := &tokens{
		colors: make(map[string]int),
		fonts:  make(map[string]map[string]bool),
		sizes:  make(map[float64]bool),
		radii:  make(map[float64]bool),
	}
	seenShadows := make(map[string]bool)

	layer.Walk(root, func(n *layer.Node, _ int) bool {
		for _, p := range append(append([]layer.Paint(nil), n.Fills...), n.Strokes...) {
			if p.Color != nil {
				t.addColor(*p.Color)
			}
			for _, s := range p.Stops {
				t.addColor(s.Color)
			}
		}
		for _, r := range n.Ranges {
			t.addColor(r.Fill)
			if r.Font.Family != "" {
				if t.fonts[r.Font.Family] == nil {
					t.fonts[r.Font.Family] = make(map[string]bool)
				}
				t.fonts[r.Font.Family][r.Font.Style] = true
			}
			if r.FontSize > 0 {
				t.sizes[r.FontSize] = true
			}
		}
		if n.Radii != nil {
			for _, r := range []float64{n.Radii.TopLeft, n.Radii.TopRight, n.Radii.BottomRight, n.Radii.BottomLeft} {
				if r > 0 {
					t.radii[r] = true
				}
			}
		} else if n.CornerRadius > 0 {
			t.radii[n.CornerRadius] = true
		}
		for _, e := range n.Effects {
			if e.Type != layer.DropShadow && e.Type != layer.InnerShadow {
				continue
			}
			c := layer.Black
			if e.Color != nil {
				c = *e.Color
			}
			v := fmt.Sprintf("%gpx %gpx %gpx", e.OffsetX, e.OffsetY, e.Radius)
			if e.Spread != 0 {
				v += fmt.Sprintf(" %gpx", e.Spread)
			}
			v += " " + Hex(c)
			if e.Type == layer.InnerShadow {
				v = "inset " + v
			}
			if !seenShadows[v] {
				seenShadows[v] = true
				t.shadows = append(t.shadows, v)
			}
		}
		return true
	})
	return t
}

func (t *tokens) addColor(c layer.Color) {
	if c.Visible() {
		t.colors[Hex(c)]++
	}
}

// palette returns the colors by descending use, ties broken by value.
func (t *tokens) palette() []string {
	out := sortedKeys(t.colors)
	sort.SliceStable(out, func(i, j int) bool { return t.colors[out[i]] > t.colors[out[j]] })
	return out
}

// Hex formats c as #rrggbb, or #rrggbbaa when it is translucent.
func Hex(c layer.Color) string {
	ch := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	if c.A < 1 {
		return fmt.Sprintf("#%02x%02x%02x%02x", ch(c.R), ch(c.G), ch(c.B), ch(c.A))
	}
	return fmt.Sprintf("#%02x%02x%02x", ch(c.R), ch(c.G), ch(c.B))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFloats(m map[float64]bool) []float64 {
	out := make([]float64, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// formatNumber renders a number for use in a CSS variable name.
func formatNumber(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%g", v), ".", "_")
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func shorten(s string, max int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max-1]) + "…"
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
// This is used for generating CSS variable names from font families.
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
