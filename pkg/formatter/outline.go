package formatter

import (
	"fmt"

	"github.com/kataras/figma-importer/pkg/layer"

	tp "github.com/xlab/treeprint"
)

// Outline renders the layer tree as an indented tree diagram. Subtrees
// below maxDepth are collapsed into a count; maxDepth <= 0 prints
// everything.
func Outline(root *layer.Node, maxDepth int) string {
	if root == nil {
		return ""
	}
	p := tp.NewWithRoot(label(root))
	for _, c := range root.Children {
		outline(p, c, 1, maxDepth)
	}
	return p.String()
}

func outline(p tp.Tree, n *layer.Node, depth, maxDepth int) {
	if len(n.Children) == 0 {
		p.AddNode(label(n))
		return
	}
	if maxDepth > 0 && depth >= maxDepth {
		p.AddNode(fmt.Sprintf("%s … %d more", label(n), countNodes(n)-1))
		return
	}
	branch := p.AddBranch(label(n))
	for _, c := range n.Children {
		outline(branch, c, depth+1, maxDepth)
	}
}

func label(n *layer.Node) string {
	name := n.Name
	switch n.Type {
	case layer.Text:
		name = fmt.Sprintf("%q [%d ranges]", shorten(n.Characters, 32), len(n.Ranges))
	case layer.Image:
		name += " ← " + shorten(n.Source, 48)
	}
	return fmt.Sprintf("%s %s %gx%g", n.Type, name, round2(n.Width), round2(n.Height))
}
