package extractor

import (
	"sort"

	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/style"
)

// Paint-order weights. Lower paints first.
const (
	negativeZWeight = 1
	flowWeight      = 3
	floatWeight     = 4
	textWeight      = 5
	positionedBase  = 6
)

// stackingWeight approximates the CSS painting order of an element:
// negative z-index, normal flow, floats, text, then positioned elements
// ordered by z-index.
func stackingWeight(s style.Snapshot) int {
	if s.Layout.Positioned() {
		z := 0
		if s.Layout.ZIndex != nil {
			z = *s.Layout.ZIndex
		}
		switch {
		case z < 0:
			return negativeZWeight
		case z > 0:
			return positionedBase + z
		}
		return positionedBase
	}
	if s.Layout.Float != "" && s.Layout.Float != "none" {
		return floatWeight
	}
	return flowWeight
}

// sortByStacking orders items by weight, keeping document order among
// equal weights, and drops the weights.
func sortByStacking(items []item) []*layer.Node {
	sort.SliceStable(items, func(i, j int) bool { return items[i].weight < items[j].weight })
	if len(items) == 0 {
		return nil
	}
	out := make([]*layer.Node, len(items))
	for i, it := range items {
		out[i] = it.node
	}
	return out
}
