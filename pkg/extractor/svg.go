package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/css"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// presentation properties copied from computed style onto SVG clones.
var presentation = []string{
	"fill", "fill-opacity", "fill-rule",
	"stroke", "stroke-width", "stroke-linecap", "stroke-linejoin",
	"stroke-dasharray", "stroke-dashoffset", "stroke-miterlimit", "stroke-opacity",
	"opacity", "font", "visibility", "display",
}

// length-valued properties whose unit suffix is stripped.
var svgLengths = map[string]bool{
	"stroke-width":      true,
	"stroke-dasharray":  true,
	"stroke-dashoffset": true,
}

// referable definitions, lower-case.
var svgDefinitions = map[string]bool{
	"lineargradient": true,
	"radialgradient": true,
	"pattern":        true,
	"mask":           true,
	"clippath":       true,
	"filter":         true,
}

// svgTagCase restores the case of SVG element names.
var svgTagCase = map[string]string{
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"clippath":            "clipPath",
	"foreignobject":       "foreignObject",
	"textpath":            "textPath",
	"animatetransform":    "animateTransform",
	"animatemotion":       "animateMotion",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomposite":         "feComposite",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fegaussianblur":      "feGaussianBlur",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"feoffset":            "feOffset",
	"femorphology":        "feMorphology",
	"feturbulence":        "feTurbulence",
	"fedisplacementmap":   "feDisplacementMap",
	"fecomponenttransfer": "feComponentTransfer",
	"fefunca":             "feFuncA",
}

var urlRefRe = regexp.MustCompile(`url\(\s*["']?#([^"')\s]+)["']?\s*\)`)

// refSet is a set of referenced element ids.
type refSet map[string]struct{}

func (r refSet) union(o refSet) {
	for id := range o {
		r[id] = struct{}{}
	}
}

func (r refSet) scan(value string) {
	for _, m := range urlRefRe.FindAllStringSubmatch(value, -1) {
		r[m[1]] = struct{}{}
	}
}

// foldSVG clones the vector subtree rooted at n with computed presentation
// properties flattened into attributes. It returns the clone and the ids
// the clone references.
func foldSVG(n capture.Node) (*html.Node, refSet) {
	if n.Type() == capture.TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Text()}, nil
	}

	tag := n.Tag()
	name := tag
	if c, ok := svgTagCase[tag]; ok {
		name = c
	}
	clone := &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(tag))}
	refs := make(refSet)

	attrs := make(map[string]string)
	for _, a := range n.Attributes() {
		attrs[a.Name] = a.Value
		refs.scan(a.Value)
		if (a.Name == "href" || a.Name == "xlink:href") && strings.HasPrefix(a.Value, "#") {
			refs[a.Value[1:]] = struct{}{}
		}
	}

	st := n.Style()
	props := presentation
	if tag == "stop" {
		props = append([]string{"stop-color", "stop-opacity"}, presentation...)
	}
	for _, prop := range props {
		v := strings.TrimSpace(st.Get(prop))
		if v == "" {
			continue
		}
		if svgLengths[prop] {
			v = stripUnits(v)
		}
		attrs[prop] = v
		refs.scan(v)
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		clone.Attr = append(clone.Attr, html.Attribute{Key: k, Val: attrs[k]})
	}

	for _, c := range n.Children() {
		if c.Type() == capture.OtherNode {
			continue
		}
		child, childRefs := foldSVG(c)
		clone.AppendChild(child)
		refs.union(childRefs)
	}
	return clone, refs
}

// stripUnits strips the unit of every component of a length list.
func stripUnits(v string) string {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	for i, p := range parts {
		parts[i] = css.StripUnit(p)
	}
	return strings.Join(parts, " ")
}

// resolveDefs clones the definitions referenced by refs that clone does not
// contain itself. References made by those definitions are followed.
func resolveDefs(doc capture.Document, clone *html.Node, refs refSet) *html.Node {
	present := make(map[string]bool)
	collectIDs(clone, present)

	pending := sortedIDs(refs)
	var defs *html.Node
	for len(pending) > 0 {
		id := pending[0]
		pending = pending[1:]
		if present[id] {
			continue
		}
		present[id] = true
		el := doc.ElementByID(id)
		if el == nil || !svgDefinitions[el.Tag()] {
			continue
		}
		def, more := foldSVG(el)
		if defs == nil {
			defs = &html.Node{Type: html.ElementNode, Data: "defs"}
		}
		defs.AppendChild(def)
		collectIDs(def, present)
		pending = append(pending, sortedIDs(more)...)
	}
	return defs
}

func sortedIDs(refs refSet) []string {
	ids := make([]string, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func collectIDs(n *html.Node, into map[string]bool) {
	for _, a := range n.Attr {
		if a.Key == "id" {
			into[a.Val] = true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectIDs(c, into)
	}
}

// inlineSVG serializes the vector rooted at n as self-contained markup.
func (p *pass) inlineSVG(doc capture.Document, n capture.Node, w, h float64) string {
	clone, refs := foldSVG(n)
	if defs := resolveDefs(doc, clone, refs); defs != nil {
		clone.InsertBefore(defs, clone.FirstChild)
	}

	setAttr(clone, "xmlns", svgNamespace)
	setAttr(clone, "width", strconv.FormatFloat(w, 'f', -1, 64))
	setAttr(clone, "height", strconv.FormatFloat(h, 'f', -1, 64))
	if usesXLink(clone) {
		setAttr(clone, "xmlns:xlink", "http://www.w3.org/1999/xlink")
	}

	var b strings.Builder
	if err := html.Render(&b, clone); err != nil {
		p.logWarn("svg %s: %v", nodeName(n), err)
		return ""
	}
	return b.String()
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func usesXLink(n *html.Node) bool {
	for _, a := range n.Attr {
		if strings.HasPrefix(a.Key, "xlink:") {
			return true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if usesXLink(c) {
			return true
		}
	}
	return false
}
