package extractor

import (
	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/style"
)

// autoLayout returns the auto-layout a flex container or table part
// emulates, or nil.
func (p *pass) autoLayout(n capture.Node, s style.Snapshot) *layer.AutoLayout {
	switch {
	case s.Layout.Flex():
		return p.flexLayout(n, s)
	case isTable(n, s):
		spacing := s.Table.SpacingY
		if s.Table.Collapse {
			spacing = 0
		}
		return tableLayout(layer.TableLayout, layer.Vertical, spacing, s)
	case isRowGroup(n, s):
		return tableLayout(layer.RowGroupLayout, layer.Vertical, p.tableSpacing(n).SpacingY, s)
	case isRow(n, s):
		return tableLayout(layer.RowLayout, layer.Horizontal, p.tableSpacing(n).SpacingX, s)
	}
	return nil
}

func (p *pass) flexLayout(n capture.Node, s style.Snapshot) *layer.AutoLayout {
	l := &layer.AutoLayout{
		Kind:         layer.FlexLayout,
		Mode:         layer.Horizontal,
		Spacing:      s.Layout.ColumnGap,
		PrimaryAlign: justify(s.Layout.JustifyContent),
		CounterAlign: alignItems(s.Layout.AlignItems),
		Padding:      s.Box.Padding,
		Wrap:         s.Layout.FlexWrap == "wrap" || s.Layout.FlexWrap == "wrap-reverse",
	}
	switch s.Layout.FlexDirection {
	case "column", "column-reverse":
		l.Mode = layer.Vertical
		l.Spacing = s.Layout.RowGap
	}

	// Margin used as gap: adopt the second item's leading margin.
	if l.Spacing == 0 {
		if second := p.nthVisibleElement(n, 1); second != nil {
			m := p.resolve(second).Box.Margin
			if l.Mode == layer.Horizontal {
				l.Spacing = m.Left
			} else {
				l.Spacing = m.Top
			}
		}
	}
	if l.Spacing < 0 {
		l.Spacing = 0
	}
	return l
}

func (p *pass) nthVisibleElement(n capture.Node, i int) capture.Node {
	for _, c := range n.Children() {
		if c.Type() != capture.ElementNode || p.isIgnored(c.Tag()) || hidden(p.resolve(c)) {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

func justify(v string) layer.Align {
	switch v {
	case "center":
		return layer.AlignCenter
	case "end", "flex-end", "right":
		return layer.AlignMax
	case "space-between":
		return layer.AlignSpaceBetween
	}
	return layer.AlignMin
}

func alignItems(v string) layer.Align {
	switch v {
	case "center":
		return layer.AlignCenter
	case "end", "flex-end", "self-end":
		return layer.AlignMax
	}
	return layer.AlignMin
}

func tableLayout(kind layer.LayoutKind, mode layer.LayoutMode, spacing float64, s style.Snapshot) *layer.AutoLayout {
	return &layer.AutoLayout{
		Kind:         kind,
		Mode:         mode,
		Spacing:      spacing,
		PrimaryAlign: layer.AlignMin,
		CounterAlign: layer.AlignMin,
		Padding:      s.Box.Padding,
	}
}

func isTable(n capture.Node, s style.Snapshot) bool {
	return n.Tag() == "table" || s.Layout.Display == "table" || s.Layout.Display == "inline-table"
}

func isRowGroup(n capture.Node, s style.Snapshot) bool {
	switch n.Tag() {
	case "thead", "tbody", "tfoot":
		return true
	}
	switch s.Layout.Display {
	case "table-row-group", "table-header-group", "table-footer-group":
		return true
	}
	return false
}

func isRow(n capture.Node, s style.Snapshot) bool {
	return n.Tag() == "tr" || s.Layout.Display == "table-row"
}

// tableSpacing returns the spacing of the nearest ancestor table; zero
// when borders collapse or there is none.
func (p *pass) tableSpacing(n capture.Node) style.TableDescriptor {
	for a := n.Parent(); a != nil; a = a.Parent() {
		if a.Type() != capture.ElementNode {
			continue
		}
		s := p.resolve(a)
		if !isTable(a, s) {
			continue
		}
		if s.Table.Collapse {
			return style.TableDescriptor{Collapse: true}
		}
		return s.Table
	}
	return style.TableDescriptor{}
}
