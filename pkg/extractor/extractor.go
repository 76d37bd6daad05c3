// Package extractor walks a styled source document and produces the layer
// tree: one synchronous depth-first pass that classifies nodes into layer
// variants, merges inline runs into rich text, orders siblings by paint
// order and records auto-layout for flex and table containers.
package extractor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/style"

	"github.com/andybalholm/cascadia"
)

// Defaults applied by New.
const (
	DefaultMaxDepth           = 64
	DefaultMaxChildren        = 400
	DefaultMinVisible         = 1.0
	DefaultTransformTolerance = 2.0
	DefaultMathSelector       = ".katex, .MathJax, mjx-container"
	DefaultAssistiveSelector  = ".katex-mathml, mjx-assistive-mml, .MJX_Assistive_MathML, .sr-only, .visually-hidden"
)

var (
	// DefaultIgnoredTags are never captured.
	DefaultIgnoredTags = []string{
		"script", "style", "template", "head", "meta", "link", "title", "noscript", "base",
	}
	// DefaultInlineTags may be merged into rich text.
	DefaultInlineTags = []string{
		"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "del", "dfn", "em", "i",
		"ins", "kbd", "label", "mark", "q", "s", "samp", "small", "span", "strong", "sub", "sup",
		"time", "u", "var",
	}
)

// ErrNothingCaptured is returned when the capture root itself is skipped.
var ErrNothingCaptured = errors.New("extractor: nothing captured")

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Config configures an Extractor. Zero values receive the defaults.
type Config struct {
	MaxDepth           int
	MaxChildren        int
	MinVisible         float64
	TransformTolerance float64
	IgnoredTags        []string
	InlineTags         []string
	MonospaceFamily    string
	MathSelector       string
	AssistiveSelector  string
	Logger             Logger
}

// Extractor converts source documents into layer trees. It holds no
// per-pass state and may be reused.
type Extractor struct {
	maxDepth    int
	maxChildren int
	minVisible  float64
	tolerance   float64
	ignored     map[string]struct{}
	inline      map[string]struct{}
	mathSel     string
	assistSel   string
	resolver    style.Resolver
	log         Logger
}

// New validates cfg and returns an Extractor.
func New(cfg Config) (*Extractor, error) {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxChildren <= 0 {
		cfg.MaxChildren = DefaultMaxChildren
	}
	if cfg.MinVisible <= 0 {
		cfg.MinVisible = DefaultMinVisible
	}
	if cfg.TransformTolerance <= 0 {
		cfg.TransformTolerance = DefaultTransformTolerance
	}
	if cfg.IgnoredTags == nil {
		cfg.IgnoredTags = DefaultIgnoredTags
	}
	if cfg.InlineTags == nil {
		cfg.InlineTags = DefaultInlineTags
	}
	if cfg.MathSelector == "" {
		cfg.MathSelector = DefaultMathSelector
	}
	if cfg.AssistiveSelector == "" {
		cfg.AssistiveSelector = DefaultAssistiveSelector
	}
	for _, sel := range []string{cfg.MathSelector, cfg.AssistiveSelector} {
		if _, err := cascadia.Compile(sel); err != nil {
			return nil, fmt.Errorf("extractor: selector %q: %w", sel, err)
		}
	}

	return &Extractor{
		maxDepth:    cfg.MaxDepth,
		maxChildren: cfg.MaxChildren,
		minVisible:  cfg.MinVisible,
		tolerance:   cfg.TransformTolerance,
		ignored:     tagSet(cfg.IgnoredTags),
		inline:      tagSet(cfg.InlineTags),
		mathSel:     cfg.MathSelector,
		assistSel:   cfg.AssistiveSelector,
		resolver:    style.Resolver{MonospaceFamily: cfg.MonospaceFamily},
		log:         cfg.Logger,
	}, nil
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

// Extract captures the root of doc.
func (e *Extractor) Extract(doc capture.Document) (*layer.Node, error) {
	return e.ExtractFrom(doc, doc.Root())
}

// ExtractFrom captures the subtree rooted at root. Fixed and sticky
// subtrees are captured as separate groups appended after the root's own
// children. A panic during traversal is returned as an error.
func (e *Extractor) ExtractFrom(doc capture.Document, root capture.Node) (out *layer.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("extractor: traversal: %v", r)
		}
	}()
	if root == nil {
		return nil, ErrNothingCaptured
	}

	p := newPass(e)
	hoisted := p.hoistable(root)
	for _, h := range hoisted {
		p.skip[h] = struct{}{}
	}

	item := p.capture(doc, root, CoordinateFrame{}, 0, true)
	if item.node == nil {
		return nil, ErrNothingCaptured
	}
	out = item.node

	for i, h := range hoisted {
		if len(out.Children) >= p.maxChildren {
			p.stats.width += len(hoisted) - i
			break
		}
		g := p.captureHoisted(doc, h)
		if g.node == nil {
			continue
		}
		out.Children = append(out.Children, g.node)
	}

	e.logInfo("captured %d nodes (%d fixed/sticky groups)", p.stats.nodes, len(hoisted))
	if p.stats.depth > 0 {
		e.logWarn("%d subtrees dropped at depth %d", p.stats.depth, e.maxDepth)
	}
	if p.stats.width > 0 {
		e.logWarn("%d children dropped over the per-parent cap of %d", p.stats.width, e.maxChildren)
	}
	return out, nil
}

func (e *Extractor) logInfo(f string, a ...any) {
	if e.log != nil {
		e.log.Infof(f, a...)
	}
}

func (e *Extractor) logWarn(f string, a ...any) {
	if e.log != nil {
		e.log.Warnf(f, a...)
	}
}

// CoordinateFrame maps viewport-space rectangles of one document into page
// space. Viewport-anchored frames ignore the document scroll.
type CoordinateFrame struct {
	Offset   capture.Point
	Viewport bool
}

// Abs returns the page-absolute position of a viewport-space point.
func (f CoordinateFrame) Abs(p, scroll capture.Point) capture.Point {
	p = p.Add(f.Offset)
	if !f.Viewport {
		p = p.Add(scroll)
	}
	return p
}

// item is a captured node with its paint-order weight. The weight lives
// only as long as the parent's sort.
type item struct {
	node   *layer.Node
	weight int
}

type selectors struct {
	math   capture.Selector
	assist capture.Selector
}

type stats struct {
	nodes int
	depth int
	width int
}

// pass is the state of one extraction.
type pass struct {
	*Extractor
	skip  map[capture.Node]struct{}
	sels  map[capture.Document]*selectors
	stats stats
}

func newPass(e *Extractor) *pass {
	return &pass{
		Extractor: e,
		skip:      make(map[capture.Node]struct{}),
		sels:      make(map[capture.Document]*selectors),
	}
}

// selectorsOf compiles the configured selectors for doc once.
func (p *pass) selectorsOf(doc capture.Document) *selectors {
	if s, ok := p.sels[doc]; ok {
		return s
	}
	s := new(selectors)
	s.math, _ = doc.Compile(p.mathSel)
	s.assist, _ = doc.Compile(p.assistSel)
	p.sels[doc] = s
	return s
}

func (p *pass) matches(n capture.Node, sel capture.Selector) bool {
	return sel != nil && n.Matches(sel)
}

func (p *pass) resolve(n capture.Node) style.Snapshot {
	return p.resolver.Resolve(n.Style())
}

func (p *pass) monospace() string {
	if p.resolver.MonospaceFamily != "" {
		return p.resolver.MonospaceFamily
	}
	return style.DefaultMonospace
}

func (p *pass) isIgnored(tag string) bool {
	_, ok := p.ignored[tag]
	return ok
}

func (p *pass) isInline(tag string) bool {
	_, ok := p.inline[tag]
	return ok
}

// hidden reports whether a node paints nothing at all.
func hidden(s style.Snapshot) bool {
	return s.Layout.Display == "none" ||
		s.Paint.Visibility == "hidden" || s.Paint.Visibility == "collapse" ||
		s.Paint.Opacity <= 0
}

// geometry returns the viewport-space rectangle of an element. The tight
// bounds are used unless they disagree with the layout box beyond the
// tolerance, which signals a transform; then the layout box is centered on
// the bounds.
func (p *pass) geometry(n capture.Node) (capture.Rect, bool) {
	r, ok := n.Bounds()
	if !ok {
		return capture.Rect{}, false
	}
	ls, ok := n.LayoutSize()
	if !ok {
		return r, true
	}
	if math.Abs(r.Width-ls.Width) <= p.tolerance && math.Abs(r.Height-ls.Height) <= p.tolerance {
		return r, true
	}
	return capture.Rect{
		X:      r.X + (r.Width-ls.Width)/2,
		Y:      r.Y + (r.Height-ls.Height)/2,
		Width:  ls.Width,
		Height: ls.Height,
	}, true
}

// capture converts one source node. A nil node means "no node".
func (p *pass) capture(doc capture.Document, n capture.Node, frame CoordinateFrame, depth int, isRoot bool) item {
	if depth >= p.maxDepth {
		p.stats.depth++
		return item{}
	}
	switch n.Type() {
	case capture.TextNode:
		return p.captureText(doc, n, frame)
	case capture.ElementNode:
		return p.captureElement(doc, n, frame, depth, isRoot)
	}
	return item{}
}

func (p *pass) captureText(doc capture.Document, n capture.Node, frame CoordinateFrame) item {
	parent := n.Parent()
	if parent == nil {
		return item{}
	}
	s := p.resolve(parent)
	text := n.Text()
	if !s.Font.Preformatted() {
		text = collapse(text, true)
	}
	if text == "" {
		return item{}
	}
	r, ok := n.Bounds()
	if !ok || r.Empty(p.minVisible) {
		return item{}
	}
	abs := frame.Abs(r.Origin(), doc.Scroll())

	rng := p.textRange(parent, s, linkOf(parent))
	rng.End = runeLen(text)
	node := &layer.Node{
		Type:       layer.Text,
		Name:       textName(text),
		X:          abs.X,
		Y:          abs.Y,
		Width:      math.Max(r.Width, layer.MinSize),
		Height:     math.Max(r.Height, layer.MinSize),
		Characters: text,
		Ranges:     []layer.StyleRange{rng},
		TextAlign:  textAlign(s.Font.TextAlign),
	}
	p.stats.nodes++
	return item{node: node, weight: textWeight}
}

func (p *pass) captureElement(doc capture.Document, n capture.Node, frame CoordinateFrame, depth int, isRoot bool) item {
	tag := n.Tag()
	if p.isIgnored(tag) {
		return item{}
	}
	sels := p.selectorsOf(doc)
	if p.matches(n, sels.assist) {
		return item{}
	}
	s := p.resolve(n)
	if hidden(s) {
		return item{}
	}
	r, ok := p.geometry(n)
	if !ok {
		return item{}
	}
	if !isRoot && r.Empty(p.minVisible) {
		return item{}
	}

	abs := frame.Abs(r.Origin(), doc.Scroll())
	node := &layer.Node{
		Type:   layer.Frame,
		Name:   nodeName(n),
		X:      abs.X,
		Y:      abs.Y,
		Width:  math.Max(r.Width, layer.MinSize),
		Height: math.Max(r.Height, layer.MinSize),
	}
	node.SetOpacity(s.Paint.Opacity)
	weight := stackingWeight(s)
	p.stats.nodes++

	switch {
	case tag == "svg":
		node.Type = layer.SVG
		node.SVG = p.inlineSVG(doc, n, node.Width, node.Height)
		return item{node: node, weight: weight}
	case tag == "img":
		node.Type = layer.Image
		node.Source = imageSource(n)
		p.applyShape(node, s)
		return item{node: node, weight: weight}
	case p.matches(n, sels.math):
		if expr := mathSource(n); expr != "" {
			p.mathLeaf(node, s, expr)
			return item{node: node, weight: weight}
		}
	}

	// Effects go on the frame before any children exist.
	node.Effects = effects(s)

	if depth+1 < p.maxDepth && p.isTextContainer(n, s) {
		if t := p.richText(n, s, sels, node); t != nil {
			node.Children = []*layer.Node{t}
			p.stats.nodes++
		}
		return item{node: node, weight: weight}
	}

	p.applyPaint(node, s)
	p.applyShape(node, s)
	node.ClipsContent = s.Layout.Clips()
	node.Layout = p.autoLayout(n, s)

	var children []item
	kids := n.Children()
	if c, ok := p.formControl(n, s, node); ok {
		// The control's value replaces its source children.
		kids = nil
		if c != nil && depth+1 < p.maxDepth {
			children = append(children, item{node: c, weight: textWeight})
			p.stats.nodes++
		}
	}
	if nested := n.ContentDocument(); nested != nil {
		if c := p.captureNested(nested, s, abs, depth); c.node != nil {
			children = append(children, c)
		}
	}

	if len(kids) > p.maxChildren {
		p.stats.width += len(kids) - p.maxChildren
		kids = kids[:p.maxChildren]
	}
	for _, c := range kids {
		if _, skip := p.skip[c]; skip {
			continue
		}
		if ci := p.capture(doc, c, frame, depth+1, false); ci.node != nil {
			children = append(children, ci)
		}
	}

	node.Children = sortByStacking(children)
	return item{node: node, weight: weight}
}

// captureNested captures the document of an inline frame. Its coordinates
// are offset by the frame's page position and border insets, minus the
// nested document's own scroll.
func (p *pass) captureNested(nested capture.Document, s style.Snapshot, abs capture.Point, depth int) item {
	root := nested.Root()
	if root == nil {
		return item{}
	}
	inset := capture.Point{X: s.Box.Border.Left, Y: s.Box.Border.Top}
	frame := CoordinateFrame{Offset: abs.Add(inset).Sub(nested.Scroll())}
	return p.capture(nested, root, frame, depth+1, true)
}

// hoistable returns the topmost fixed and sticky elements below root, in
// document order. An element is topmost when no ancestor up to root has
// the same position mode. The walk honors the depth ceiling and the
// per-parent child cap of the main pass.
func (p *pass) hoistable(root capture.Node) []capture.Node {
	var out []capture.Node
	var walk func(n capture.Node, depth int, fixed, sticky bool)
	walk = func(n capture.Node, depth int, fixed, sticky bool) {
		if depth >= p.maxDepth {
			return
		}
		kids := n.Children()
		if len(kids) > p.maxChildren {
			kids = kids[:p.maxChildren]
		}
		for _, c := range kids {
			if c.Type() != capture.ElementNode || p.isIgnored(c.Tag()) {
				continue
			}
			cf, cs := fixed, sticky
			switch c.Style().Get("position") {
			case "fixed":
				if !fixed {
					out = append(out, c)
				}
				cf = true
			case "sticky":
				if !sticky {
					out = append(out, c)
				}
				cs = true
			}
			walk(c, depth+1, cf, cs)
		}
	}
	walk(root, 1, false, false)
	return out
}

// captureHoisted captures a fixed or sticky group. Fixed elements are
// viewport-anchored; bottom-anchored ones are moved to the document bottom.
// The adjustment is carried by the frame, so descendants follow.
func (p *pass) captureHoisted(doc capture.Document, n capture.Node) item {
	s := p.resolve(n)
	frame := CoordinateFrame{}
	if s.Layout.Position == "fixed" {
		frame.Viewport = true
		if s.Layout.Top == nil && s.Layout.Bottom != nil {
			if r, ok := p.geometry(n); ok {
				target := doc.Size().Height - r.Height - *s.Layout.Bottom
				frame.Offset.Y = target - r.Y
			}
		}
	}
	return p.capture(doc, n, frame, 1, false)
}

// nodeName returns tag#id.class1.class2.
func nodeName(n capture.Node) string {
	var b strings.Builder
	b.WriteString(n.Tag())
	if id, ok := n.Attr("id"); ok && id != "" {
		b.WriteByte('#')
		b.WriteString(id)
	}
	if class, ok := n.Attr("class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteByte('.')
			b.WriteString(c)
		}
	}
	return b.String()
}

func imageSource(n capture.Node) string {
	for _, attr := range []string{"currentSrc", "src"} {
		if v, ok := n.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}
