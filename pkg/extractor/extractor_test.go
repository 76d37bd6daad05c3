package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/snapshot"
)

func rect(x, y, w, h float64) *capture.Rect {
	return &capture.Rect{X: x, Y: y, Width: w, Height: h}
}

func el(tag, style string, r *capture.Rect, children ...*snapshot.Element) *snapshot.Element {
	return &snapshot.Element{Tag: tag, Style: style, Rect: r, Children: children}
}

func attrs(e *snapshot.Element, kv ...string) *snapshot.Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Attrs[kv[i]] = kv[i+1]
	}
	return e
}

func text(s string) *snapshot.Element { return &snapshot.Element{Text: s} }

func page(children ...*snapshot.Element) *snapshot.Document {
	return &snapshot.Document{
		Viewport: capture.Size{Width: 800, Height: 600},
		Size:     capture.Size{Width: 800, Height: 2000},
		Root:     el("body", "", rect(0, 0, 800, 2000), children...),
	}
}

func extract(t *testing.T, cfg Config, doc *snapshot.Document) *layer.Node {
	t.Helper()
	tree, err := snapshot.New(doc)
	require.NoError(t, err)
	e, err := New(cfg)
	require.NoError(t, err)
	root, err := e.Extract(tree)
	require.NoError(t, err)
	return root
}

func names(nodes []*layer.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestDepthCeiling(t *testing.T) {
	leaf := el("div", "", rect(0, 0, 10, 10))
	for i := 0; i < 100; i++ {
		leaf = el("div", "", rect(0, 0, 10, 10), leaf)
	}
	root := extract(t, Config{MaxDepth: 10}, page(leaf))

	assert.Equal(t, 10, layer.Depth(root))
}

func TestChildCap(t *testing.T) {
	var kids []*snapshot.Element
	for i := 0; i < 500; i++ {
		kids = append(kids, el("div", "", rect(0, float64(i), 10, 10)))
	}
	root := extract(t, Config{MaxChildren: 400}, page(kids...))

	assert.Len(t, root.Children, 400)
}

func TestRichTextTrim(t *testing.T) {
	p := el("p", "font-size: 16px; font-family: Inter", rect(0, 0, 200, 20),
		text("  Hello "),
		el("b", "font-weight: 700; font-size: 16px; font-family: Inter", nil, text("World")),
		text("  "),
	)
	root := extract(t, Config{}, page(p))

	require.Len(t, root.Children, 1)
	para := root.Children[0]
	require.Len(t, para.Children, 1)
	txt := para.Children[0]

	assert.Equal(t, layer.Text, txt.Type)
	assert.Equal(t, "Hello World", txt.Characters)
	require.NoError(t, layer.Validate(txt))
	require.Len(t, txt.Ranges, 2)
	assert.Equal(t, 0, txt.Ranges[0].Start)
	assert.Equal(t, 6, txt.Ranges[0].End)
	assert.Equal(t, 400, txt.Ranges[0].Font.Weight)
	assert.Equal(t, 6, txt.Ranges[1].Start)
	assert.Equal(t, 11, txt.Ranges[1].End)
	assert.Equal(t, 700, txt.Ranges[1].Font.Weight)
	assert.Equal(t, "Bold", txt.Ranges[1].Font.Style)
}

func TestRichTextMergesAndBreaks(t *testing.T) {
	p := el("p", "", rect(0, 0, 200, 40),
		text("one"),
		el("span", "", nil, text(" two")),
		el("br", "", nil),
		text("three"),
	)
	root := extract(t, Config{}, page(p))

	txt := root.Children[0].Children[0]
	assert.Equal(t, "one two\nthree", txt.Characters)
	require.Len(t, txt.Ranges, 2, "identical adjacent runs merge")
	assert.Equal(t, 7, txt.Ranges[0].End)
	assert.Equal(t, 8, txt.Ranges[1].Start)
}

func TestEffectiveDecorationAndLinks(t *testing.T) {
	p := el("p", "", rect(0, 0, 200, 20),
		attrs(el("a", "text-decoration-line: underline", nil,
			el("span", "text-decoration-line: line-through", nil, text("link")),
		), "href", "https://example.com"),
	)
	root := extract(t, Config{}, page(p))

	r := root.Children[0].Children[0].Ranges[0]
	assert.Equal(t, layer.UnderlineStrike, r.Decoration)
	assert.Equal(t, "https://example.com", r.Hyperlink)
}

func TestListMarkers(t *testing.T) {
	ol := el("ol", "", rect(0, 0, 200, 40),
		el("li", "display: list-item; list-style-type: decimal", rect(0, 0, 200, 20), text("first")),
		el("li", "display: list-item; list-style-type: disc", rect(0, 20, 200, 20), text("second")),
		el("li", "display: list-item; list-style-type: none", rect(0, 40, 200, 20), text("third")),
	)
	root := extract(t, Config{}, page(ol))

	items := root.Children[0].Children
	require.Len(t, items, 3)
	assert.Equal(t, layer.OrderedList, items[0].Children[0].Ranges[0].List)
	assert.Equal(t, layer.UnorderedList, items[1].Children[0].Ranges[0].List)
	assert.Equal(t, layer.ListType(""), items[2].Children[0].Ranges[0].List)
}

func TestTextContainerRejectsDecoratedAndLayoutNodes(t *testing.T) {
	root := extract(t, Config{}, page(
		el("div", "background-color: rgb(255, 0, 0)", rect(0, 0, 100, 20), text("boxed")),
		el("div", "display: flex", rect(0, 20, 100, 20),
			text("flex"),
		),
		el("div", "", rect(0, 40, 100, 20),
			el("span", "display: inline-flex", rect(0, 40, 50, 20), text("inner")),
		),
	))

	require.Len(t, root.Children, 3)
	for _, c := range root.Children {
		for _, cc := range c.Children {
			assert.NotEqual(t, layer.Text, cc.Type, "%s must not collapse into rich text", c.Name)
		}
	}
	assert.Len(t, root.Children[0].Fills, 1)
}

func TestStackingOrder(t *testing.T) {
	root := extract(t, Config{}, page(
		attrs(el("div", "position: relative; z-index: 3", rect(0, 0, 10, 10)), "id", "top"),
		attrs(el("div", "position: relative", rect(0, 0, 10, 10)), "id", "auto"),
		attrs(el("div", "position: relative; z-index: -1", rect(0, 0, 10, 10)), "id", "below"),
		attrs(el("div", "float: left", rect(0, 0, 10, 10)), "id", "float"),
		attrs(el("div", "", rect(0, 0, 10, 10)), "id", "flow"),
	))

	assert.Equal(t, []string{"div#below", "div#flow", "div#float", "div#auto", "div#top"}, names(root.Children))
}

func TestSkipRules(t *testing.T) {
	root := extract(t, Config{}, page(
		el("div", "display: none", rect(0, 0, 10, 10)),
		el("div", "visibility: hidden", rect(0, 0, 10, 10)),
		el("div", "opacity: 0", rect(0, 0, 10, 10)),
		el("script", "", rect(0, 0, 10, 10)),
		attrs(el("span", "", rect(0, 0, 10, 10)), "class", "sr-only"),
		el("div", "", rect(0, 0, 0.5, 0.5)),
		el("div", "", nil),
		attrs(el("div", "", rect(0, 0, 10, 10)), "id", "keep"),
	))

	assert.Equal(t, []string{"div#keep"}, names(root.Children))
}

func TestTransformCorrection(t *testing.T) {
	d := el("div", "", rect(0, 0, 141, 141))
	d.Layout = &capture.Size{Width: 100, Height: 100}
	small := el("div", "", rect(0, 200, 101, 50))
	small.Layout = &capture.Size{Width: 100, Height: 50}
	root := extract(t, Config{}, page(d, small))

	rotated := root.Children[0]
	assert.Equal(t, 100.0, rotated.Width)
	assert.Equal(t, 20.5, rotated.X)
	assert.Equal(t, 20.5, rotated.Y)

	plain := root.Children[1]
	assert.Equal(t, 101.0, plain.Width, "within tolerance the tight rectangle wins")
}

func TestScrollAndFixedPositioning(t *testing.T) {
	doc := page(
		attrs(el("div", "", rect(0, 10, 100, 20)), "id", "flow"),
		attrs(el("div", "position: fixed; top: 0px", rect(0, 0, 800, 50)), "id", "header"),
		attrs(el("div", "position: fixed; bottom: 0px", rect(0, 550, 800, 50),
			attrs(el("div", "", rect(10, 560, 10, 10)), "id", "icon"),
		), "id", "footer"),
	)
	doc.Scroll = capture.Point{Y: 100}
	doc.Root.Rect = rect(0, -100, 800, 2000)
	root := extract(t, Config{}, doc)

	assert.Equal(t, 0.0, root.Y)
	require.Equal(t, []string{"div#flow", "div#header", "div#footer"}, names(root.Children))
	assert.Equal(t, 110.0, root.Children[0].Y)
	assert.Equal(t, 0.0, root.Children[1].Y, "top-anchored fixed elements use viewport coordinates")

	footer := root.Children[2]
	assert.Equal(t, 1950.0, footer.Y)
	require.Len(t, footer.Children, 1)
	assert.Equal(t, 1960.0, footer.Children[0].Y, "descendants follow the anchored group")
}

func TestTrailingDeclarations(t *testing.T) {
	root := extract(t, Config{}, page(
		el("div", "color: rgb(0, 0, 0); display: none", rect(0, 0, 10, 10)),
		el("div", "display: block; background-color: rgb(255, 0, 0)", rect(0, 20, 10, 10)),
	))

	require.Len(t, root.Children, 1, "display: none is honored as the last declaration")
	assert.Len(t, root.Children[0].Fills, 1)
}

func TestFixedGroupsRespectBounds(t *testing.T) {
	deep := attrs(el("div", "position: fixed; top: 0px", rect(0, 0, 10, 10)), "id", "deepfixed")
	for i := 0; i < 20; i++ {
		deep = el("div", "", rect(0, 0, 10, 10), deep)
	}
	doc := page(
		el("div", "", rect(0, 0, 10, 10), deep),
		el("div", "", rect(0, 20, 10, 10)),
		attrs(el("div", "position: fixed; top: 0px", rect(0, 0, 800, 50)), "id", "dropped"),
	)
	root := extract(t, Config{MaxChildren: 2, MaxDepth: 5}, doc)

	assert.Equal(t, []string{"div", "div"}, names(root.Children))
	assert.LessOrEqual(t, layer.Depth(root), 5)

	capped := page(
		el("div", "", rect(0, 0, 10, 10)),
		attrs(el("div", "position: fixed; top: 0px", rect(0, 0, 800, 50)), "id", "header"),
		attrs(el("div", "position: fixed; bottom: 0px", rect(0, 550, 800, 50)), "id", "footer"),
	)
	root = extract(t, Config{MaxChildren: 2}, capped)
	assert.Equal(t, []string{"div", "div#header"}, names(root.Children), "hoisted groups count against the root's cap")
}

func TestNestedFrameOffset(t *testing.T) {
	nested := &snapshot.Document{
		Scroll: capture.Point{Y: 30},
		Root: el("body", "", rect(0, -30, 296, 500),
			attrs(el("div", "", rect(5, 5, 10, 10)), "id", "inner"),
		),
	}
	frame := el("iframe", "border-top-width: 2px; border-top-style: solid; border-left-width: 2px; border-left-style: solid", rect(10, 20, 300, 200))
	frame.Frame = nested
	root := extract(t, Config{}, page(frame))

	iframe := root.Children[0]
	require.Len(t, iframe.Children, 1)
	body := iframe.Children[0]
	require.Len(t, body.Children, 1)
	inner := body.Children[0]
	assert.Equal(t, "div#inner", inner.Name)
	assert.Equal(t, 17.0, inner.X)
	assert.Equal(t, 27.0, inner.Y)
}

func TestFlexLayout(t *testing.T) {
	root := extract(t, Config{}, page(
		el("div", "display: flex; justify-content: center; align-items: flex-end; padding-left: 4px", rect(0, 0, 300, 50),
			el("div", "", rect(4, 0, 50, 50)),
			el("div", "margin-left: 12px", rect(66, 0, 50, 50)),
		),
		el("div", "display: flex; flex-direction: column; row-gap: 8px; justify-content: space-between", rect(0, 50, 300, 100),
			el("div", "", rect(0, 50, 50, 20)),
		),
	))

	row := root.Children[0].Layout
	require.NotNil(t, row)
	assert.Equal(t, layer.FlexLayout, row.Kind)
	assert.Equal(t, layer.Horizontal, row.Mode)
	assert.Equal(t, 12.0, row.Spacing)
	assert.Equal(t, layer.AlignCenter, row.PrimaryAlign)
	assert.Equal(t, layer.AlignMax, row.CounterAlign)
	assert.Equal(t, 4.0, row.Padding.Left)

	col := root.Children[1].Layout
	require.NotNil(t, col)
	assert.Equal(t, layer.Vertical, col.Mode)
	assert.Equal(t, 8.0, col.Spacing)
	assert.Equal(t, layer.AlignSpaceBetween, col.PrimaryAlign)
}

func TestTableLayout(t *testing.T) {
	table := func(style string) *snapshot.Element {
		return el("table", style, rect(0, 0, 200, 40),
			el("tbody", "", rect(0, 0, 200, 40),
				el("tr", "", rect(0, 0, 200, 20),
					el("td", "", rect(0, 0, 100, 20)),
					el("td", "", rect(100, 0, 100, 20)),
				),
			),
		)
	}
	root := extract(t, Config{}, page(table("border-spacing: 4px 6px"), table("border-collapse: collapse; border-spacing: 4px 6px")))

	sep := root.Children[0]
	assert.Equal(t, layer.TableLayout, sep.Layout.Kind)
	assert.Equal(t, layer.Vertical, sep.Layout.Mode)
	assert.Equal(t, 6.0, sep.Layout.Spacing)
	tbody := sep.Children[0]
	assert.Equal(t, layer.RowGroupLayout, tbody.Layout.Kind)
	assert.Equal(t, 6.0, tbody.Layout.Spacing)
	tr := tbody.Children[0]
	assert.Equal(t, layer.RowLayout, tr.Layout.Kind)
	assert.Equal(t, layer.Horizontal, tr.Layout.Mode)
	assert.Equal(t, 4.0, tr.Layout.Spacing)

	collapsed := root.Children[1]
	assert.Equal(t, 0.0, collapsed.Layout.Spacing)
	assert.Equal(t, 0.0, collapsed.Children[0].Children[0].Layout.Spacing)
}

func TestPaintAndEffects(t *testing.T) {
	root := extract(t, Config{}, page(
		el("div", strings.Join([]string{
			"background-color: rgb(255, 255, 255)",
			"background-image: linear-gradient(to right, rgb(255, 0, 0), rgb(0, 0, 255))",
			"border-top-width: 4px", "border-top-style: solid", "border-top-color: rgb(255, 0, 0)",
			"border-right-width: 2px", "border-right-style: solid", "border-right-color: rgb(0, 255, 0)",
			"border-bottom-width: 0px", "border-bottom-style: none",
			"border-left-width: 1px", "border-left-style: solid", "border-left-color: rgb(0, 0, 255)",
			"border-radius: 50%",
			"box-shadow: rgba(0, 0, 0, 0.5) 0px 2px 4px 0px",
			"filter: blur(3px)",
			"backdrop-filter: blur(8px)",
			"opacity: 0.5",
			"overflow: hidden",
		}, "; "), rect(0, 0, 40, 40)),
	))

	n := root.Children[0]
	require.Len(t, n.Fills, 2)
	assert.Equal(t, layer.Solid, n.Fills[0].Type)
	assert.Equal(t, layer.LinearGradient, n.Fills[1].Type)
	assert.Equal(t, 90.0, n.Fills[1].Angle)

	require.NotNil(t, n.StrokeWeights)
	assert.Equal(t, layer.Sides{Top: 4, Right: 2, Bottom: 0, Left: 1}, *n.StrokeWeights)
	require.NotNil(t, n.BorderColors)
	assert.Equal(t, 20.0, n.CornerRadius)

	require.Len(t, n.Effects, 3)
	assert.Equal(t, layer.DropShadow, n.Effects[0].Type)
	assert.Equal(t, 2.0, n.Effects[0].OffsetY)
	assert.Equal(t, layer.LayerBlur, n.Effects[1].Type)
	assert.Equal(t, layer.BackgroundBlur, n.Effects[2].Type)
	assert.Equal(t, 8.0, n.Effects[2].Radius)

	assert.InDelta(t, 0.5, n.Alpha(), 1e-9)
	assert.True(t, n.ClipsContent)
}

func TestSVGInlining(t *testing.T) {
	icon := attrs(el("svg", "", rect(0, 0, 24, 24),
		attrs(el("path", `fill: url("#g"); stroke-width: 2px`, nil), "d", "M0 0L24 24"),
	), "viewBox", "0 0 24 24")
	defs := el("svg", "", nil,
		attrs(el("linearGradient", "", nil,
			el("stop", "stop-color: rgb(255, 0, 0)", nil),
		), "id", "g"),
	)
	root := extract(t, Config{}, page(icon, defs))

	require.Len(t, root.Children, 1)
	n := root.Children[0]
	assert.Equal(t, layer.SVG, n.Type)
	assert.Empty(t, n.Children)
	assert.Contains(t, n.SVG, `<defs><linearGradient id="g"`)
	assert.Contains(t, n.SVG, `stop-color="rgb(255, 0, 0)"`)
	assert.Contains(t, n.SVG, `stroke-width="2"`)
	assert.Contains(t, n.SVG, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, n.SVG, `width="24"`)
	assert.Contains(t, n.SVG, `viewBox="0 0 24 24"`)
}

func TestSVGFoldIsPure(t *testing.T) {
	tree, err := snapshot.New(page(
		attrs(el("svg", "", rect(0, 0, 10, 10),
			el("rect", "fill: url(#a)", nil),
			el("circle", "stroke: url(#b)", nil),
		), "id", "icon"),
	))
	require.NoError(t, err)

	src := tree.ElementByID("icon")
	_, first := foldSVG(src)
	_, second := foldSVG(src)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestFormControls(t *testing.T) {
	root := extract(t, Config{}, page(
		attrs(el("input", "padding-left: 4px", rect(0, 0, 200, 30)), "type", "text", "placeholder", "Search"),
		attrs(el("input", "", rect(0, 30, 200, 30)), "type", "email", "value", "a@b.c", "placeholder", "Email"),
		attrs(el("input", "color: rgb(0, 0, 255)", rect(0, 60, 20, 20)), "type", "checkbox", "checked", ""),
		el("select", "", rect(0, 90, 200, 30),
			el("option", "", nil, text("One")),
			attrs(el("option", "", nil, text("Two")), "selected", ""),
		),
	))

	require.Len(t, root.Children, 4)
	ph := root.Children[0].Children[0]
	assert.Equal(t, "Search", ph.Characters)
	assert.InDelta(t, 0.5, ph.Alpha(), 1e-9)
	assert.Equal(t, 4.0, ph.X)

	val := root.Children[1].Children[0]
	assert.Equal(t, "a@b.c", val.Characters)
	assert.Nil(t, val.Opacity)

	check := root.Children[2].Children[0]
	assert.Equal(t, layer.Rectangle, check.Type)
	assert.Equal(t, layer.Color{B: 1, A: 1}, *check.Fills[0].Color)

	sel := root.Children[3]
	require.Len(t, sel.Children, 1)
	assert.Equal(t, "Two", sel.Children[0].Characters)
}

func TestMath(t *testing.T) {
	katex := func() *snapshot.Element {
		return attrs(el("span", "", rect(0, 0, 40, 20),
			attrs(el("span", "", nil,
				el("math", "", nil,
					el("semantics", "", nil,
						attrs(el("annotation", "", nil, text("x^2")), "encoding", "application/x-tex"),
					),
				),
			), "class", "katex-mathml"),
			attrs(el("span", "", rect(0, 0, 40, 20), text("x2")), "class", "katex-html", "aria-hidden", "true"),
		), "class", "katex")
	}
	root := extract(t, Config{}, page(
		el("div", "", rect(0, 0, 100, 20)),
		katex(),
		el("p", "", rect(0, 40, 300, 20), text("Area is "), katex()),
	))

	require.Len(t, root.Children, 3)
	leaf := root.Children[1]
	assert.Equal(t, layer.Text, leaf.Type)
	assert.Equal(t, "x^2", leaf.Characters)
	assert.Equal(t, "Roboto Mono", leaf.Ranges[0].Font.Family)

	inline := root.Children[2].Children[0]
	assert.Equal(t, "Area is x^2", inline.Characters)
	require.Len(t, inline.Ranges, 2)
	assert.Equal(t, "Roboto Mono", inline.Ranges[1].Font.Family)
}

func TestImageLeaf(t *testing.T) {
	root := extract(t, Config{}, page(
		attrs(el("img", "border-radius: 4px", rect(0, 0, 64, 64)), "src", "a.png", "currentSrc", "https://cdn.example.com/a@2x.png"),
	))

	img := root.Children[0]
	assert.Equal(t, layer.Image, img.Type)
	assert.Equal(t, "https://cdn.example.com/a@2x.png", img.Source)
	assert.Equal(t, 4.0, img.CornerRadius)
}

func TestExtractIsIdempotent(t *testing.T) {
	doc := page(
		el("p", "", rect(0, 0, 200, 20), text("Hello "), el("em", "font-style: italic", nil, text("there"))),
		el("div", "display: flex; column-gap: 4px", rect(0, 20, 200, 20),
			el("div", "position: relative; z-index: 2", rect(0, 20, 20, 20)),
			el("div", "", rect(24, 20, 20, 20)),
		),
	)
	tree, err := snapshot.New(doc)
	require.NoError(t, err)
	e, err := New(Config{})
	require.NoError(t, err)

	first, err := e.Extract(tree)
	require.NoError(t, err)
	second, err := e.Extract(tree)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewRejectsBadSelector(t *testing.T) {
	_, err := New(Config{MathSelector: "[[["})
	assert.Error(t, err)
}
