// Package layer defines the intermediate representation exchanged between
// capture and import: a serializable tree of design layers.
//
// Positions are page-absolute at capture time. Every node keeps them; the
// synthesizer derives parent-relative positions from the captured values.
package layer

// Node is a design layer.
type Node struct {
	Type Variant `json:"type"`
	Name string  `json:"name,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	CornerRadius float64      `json:"cornerRadius,omitempty"`
	Radii        *CornerRadii `json:"radii,omitempty"`
	Opacity      *float64     `json:"opacity,omitempty"`
	ClipsContent bool         `json:"clipsContent,omitempty"`

	Fills         []Paint     `json:"fills,omitempty"`
	Strokes       []Paint     `json:"strokes,omitempty"`
	StrokeWeight  float64     `json:"strokeWeight,omitempty"`
	StrokeWeights *Sides      `json:"strokeWeights,omitempty"`
	BorderColors  *SideColors `json:"borderColors,omitempty"`
	Effects       []Effect    `json:"effects,omitempty"`

	Layout *AutoLayout `json:"layout,omitempty"`

	// TEXT
	Characters string       `json:"characters,omitempty"`
	Ranges     []StyleRange `json:"ranges,omitempty"`
	TextAlign  string       `json:"textAlign,omitempty"`

	// SVG
	SVG string `json:"svg,omitempty"`

	// IMAGE
	Source string `json:"source,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Alpha returns the node opacity, 1 when unset.
func (n *Node) Alpha() float64 {
	if n.Opacity == nil {
		return 1
	}
	return *n.Opacity
}

// SetOpacity stores o, dropping the field when it is fully opaque.
func (n *Node) SetOpacity(o float64) {
	if o >= 1 {
		n.Opacity = nil
		return
	}
	n.Opacity = &o
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Depth returns the number of levels of the tree rooted at n.
func Depth(n *Node) int {
	max := 0
	Walk(n, func(_ *Node, d int) bool {
		if d+1 > max {
			max = d + 1
		}
		return true
	})
	return max
}

// Count returns the number of nodes per variant.
func Count(n *Node) map[Variant]int {
	counts := make(map[Variant]int)
	Walk(n, func(n *Node, _ int) bool {
		counts[n.Type]++
		return true
	})
	return counts
}
