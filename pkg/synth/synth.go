// Package synth materializes a layer tree on a Canvas.
//
// Nodes are created depth-first and appended to their parent in tree order,
// so the paint order fixed at capture time survives. Positions are derived
// from the captured absolute positions of a node and its parent, never from
// already placed destination nodes. Text ranges are styled in two phases:
// every font is resolved first, then the ranges are applied in order.
package synth

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/kataras/figma-importer/pkg/fonts"
	"github.com/kataras/figma-importer/pkg/layer"
)

// FailedVectorName names the placeholder frame of a vector the canvas
// could not build.
const FailedVectorName = "SVG (failed)"

var (
	// ErrVectorCreate is wrapped by canvases that reject vector markup.
	ErrVectorCreate = errors.New("synth: vector creation failed")
	// ErrNoRoot is returned by Build for a nil tree.
	ErrNoRoot = errors.New("synth: no root node")
)

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Config configures a Synthesizer.
type Config struct {
	// DefaultFamily is the font family tried when a requested family is
	// unavailable. Defaults to fonts.DefaultFamily.
	DefaultFamily string
	// OriginX and OriginY place the root on the page.
	OriginX float64
	OriginY float64
	Logger  Logger
}

// Synthesizer builds layer trees on one canvas.
type Synthesizer struct {
	canvas        Canvas
	defaultFamily string
	originX       float64
	originY       float64
	log           Logger
}

// New returns a Synthesizer drawing on canvas.
func New(canvas Canvas, cfg Config) *Synthesizer {
	if cfg.DefaultFamily == "" {
		cfg.DefaultFamily = fonts.DefaultFamily
	}
	return &Synthesizer{
		canvas:        canvas,
		defaultFamily: cfg.DefaultFamily,
		originX:       cfg.OriginX,
		originY:       cfg.OriginY,
		log:           cfg.Logger,
	}
}

// Result reports a build.
type Result struct {
	// Root is the destination node of the tree root. It is set even when
	// Build fails after creating it.
	Root Node

	Nodes         int
	Texts         int
	Vectors       int
	FailedVectors int
	Arcs          int
}

type builder struct {
	*Synthesizer
	fonts  *fonts.Resolver
	result *Result
}

// Build creates root and its descendants and appends root to the canvas
// page. The first error aborts the build; nodes created until then stay in
// place.
func (s *Synthesizer) Build(ctx context.Context, root *layer.Node) (*Result, error) {
	if root == nil {
		return nil, ErrNoRoot
	}

	res := fonts.NewResolver(s.canvas, fonts.Config{DefaultFamily: s.defaultFamily, Logger: s.log})
	defer res.Close()

	b := &builder{Synthesizer: s, fonts: res, result: new(Result)}
	h, err := b.build(ctx, root, s.originX, s.originY, s.canvas.Page())
	b.result.Root = h
	if err != nil {
		return b.result, err
	}

	s.logInfo("created %d nodes (%d text, %d vectors, %d failed vectors, %d arcs)",
		b.result.Nodes, b.result.Texts, b.result.Vectors, b.result.FailedVectors, b.result.Arcs)
	return b.result, nil
}

func (b *builder) build(ctx context.Context, n *layer.Node, x, y float64, parent Node) (Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := b.create(n)
	if err := parent.AppendChild(h); err != nil {
		return nil, fmt.Errorf("synth: append %q: %w", n.Name, err)
	}
	b.result.Nodes++

	h.Resize(math.Max(n.Width, layer.MinSize), math.Max(n.Height, layer.MinSize))
	h.SetPosition(x, y)
	if n.Opacity != nil {
		h.SetOpacity(*n.Opacity)
	}
	if len(n.Effects) > 0 {
		h.SetEffects(n.Effects)
	}

	if n.Type == layer.Text {
		if t, ok := h.(Text); ok {
			return h, b.text(ctx, t, n)
		}
	}

	switch n.Type {
	case layer.Frame, layer.Rectangle, layer.Image:
		b.shape(h, n)
	}

	if n.Type == layer.Frame {
		if r, ok := arcRadius(n); ok {
			if err := b.arcs(h, n, r); err != nil {
				return h, err
			}
		}
	}

	for _, c := range n.Children {
		if _, err := b.build(ctx, c, c.X-n.X, c.Y-n.Y, h); err != nil {
			return h, err
		}
	}
	return h, nil
}

// create dispatches on the variant. A rejected vector becomes a plain
// frame named FailedVectorName.
func (b *builder) create(n *layer.Node) Node {
	var h Node
	switch n.Type {
	case layer.Text:
		b.result.Texts++
		h = b.canvas.CreateText()
	case layer.Image:
		h = b.canvas.CreateImage(n.Source)
	case layer.Rectangle:
		h = b.canvas.CreateRectangle()
	case layer.SVG:
		v, err := b.canvas.CreateVector(n.SVG)
		if err == nil {
			b.result.Vectors++
			h = v
			break
		}
		b.logWarn("vector %q: %v", n.Name, err)
		b.result.FailedVectors++
		h = b.canvas.CreateFrame()
		h.SetName(FailedVectorName)
		return h
	default:
		h = b.canvas.CreateFrame()
	}
	if n.Name != "" {
		h.SetName(n.Name)
	}
	return h
}

// shape applies paints, radii, clipping and auto-layout.
func (b *builder) shape(h Node, n *layer.Node) {
	if n.Type != layer.Image {
		// An empty list also clears the destination's default fill.
		h.SetFills(n.Fills)
	}
	if len(n.Strokes) > 0 {
		h.SetStrokes(n.Strokes, n.StrokeWeight, n.StrokeWeights)
	}

	switch {
	case n.Radii != nil:
		h.SetCornerRadii(*n.Radii)
	case n.CornerRadius > 0:
		h.SetCornerRadius(n.CornerRadius)
	}

	if n.Type != layer.Frame {
		return
	}
	h.SetClipsContent(n.ClipsContent)
	if n.Layout != nil {
		h.SetAutoLayout(*n.Layout)
	}
}

// text styles a text node in two phases. Every range font is resolved
// before the first range is touched.
func (b *builder) text(ctx context.Context, t Text, n *layer.Node) error {
	resolved := make([]fonts.Name, len(n.Ranges))
	for i, r := range n.Ranges {
		want := fonts.Name{Family: r.Font.Family, Style: r.Font.Style}
		if want.Family == "" {
			want.Family = b.defaultFamily
		}
		if want.Style == "" {
			want.Style = fonts.StyleName(r.Font.Weight, r.Font.Italic)
		}
		got, err := b.fonts.Resolve(ctx, want)
		if err != nil {
			return fmt.Errorf("synth: font %s of %q: %w", want, n.Name, err)
		}
		resolved[i] = got
	}

	t.SetCharacters(n.Characters)
	t.SetTextAlign(n.TextAlign)
	length := t.Length()
	for i, r := range n.Ranges {
		start, end := clamp(r.Start, 0, length), clamp(r.End, 0, length)
		if end <= start {
			continue
		}
		err := t.SetRange(start, end, TextStyle{
			Font:          resolved[i],
			Weight:        r.Font.Weight,
			Size:          r.FontSize,
			Fill:          r.Fill,
			Case:          r.Case,
			Decoration:    r.Decoration,
			LineHeight:    r.LineHeight,
			LetterSpacing: r.LetterSpacing,
			Hyperlink:     r.Hyperlink,
			List:          r.List,
		})
		if err != nil {
			return fmt.Errorf("synth: range [%d,%d) of %q: %w", start, end, n.Name, err)
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Synthesizer) logInfo(f string, a ...any) {
	if s.log != nil {
		s.log.Infof(f, a...)
	}
}

func (s *Synthesizer) logWarn(f string, a ...any) {
	if s.log != nil {
		s.log.Warnf(f, a...)
	}
}
