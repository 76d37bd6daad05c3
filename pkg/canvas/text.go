package canvas

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kataras/figma-importer/pkg/figma"
	"github.com/kataras/figma-importer/pkg/fonts"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/synth"
)

// textData holds the characters of a text node and the style of each
// character. A style index of -1 means the node's default style.
type textData struct {
	chars  []rune
	align  string
	styles []int
	table  []figma.TypeStyle
	lists  []layer.ListType
}

func (n *Node) SetCharacters(text string) {
	if n.text == nil {
		return
	}
	t := n.text
	t.chars = []rune(text)
	t.styles = make([]int, len(t.chars))
	t.lists = make([]layer.ListType, len(t.chars))
	for i := range t.styles {
		t.styles[i] = -1
	}
	t.table = nil
}

func (n *Node) Length() int {
	if n.text == nil {
		return 0
	}
	return len(n.text.chars)
}

func (n *Node) SetTextAlign(align string) {
	if n.text != nil {
		n.text.align = align
	}
}

// SetRange styles characters [start, end). The range must lie within the
// characters and its font must have been loaded.
func (n *Node) SetRange(start, end int, style synth.TextStyle) error {
	if n.text == nil {
		return fmt.Errorf("canvas: %s %s is not a text node", n.kind, n.id)
	}
	t := n.text
	if start < 0 || end > len(t.chars) || start >= end {
		return fmt.Errorf("canvas: range [%d,%d) outside [0,%d]", start, end, len(t.chars))
	}
	if !n.canvas.isLoaded(style.Font) {
		return fmt.Errorf("%w: %s", ErrFontNotLoaded, style.Font)
	}

	id := t.intern(typeStyle(style))
	for i := start; i < end; i++ {
		t.styles[i] = id
		t.lists[i] = style.List
	}
	return nil
}

func (t *textData) intern(s figma.TypeStyle) int {
	for i, have := range t.table {
		if reflect.DeepEqual(have, s) {
			return i
		}
	}
	t.table = append(t.table, s)
	return len(t.table) - 1
}

func typeStyle(s synth.TextStyle) figma.TypeStyle {
	ts := figma.TypeStyle{
		FontFamily:         s.Font.Family,
		FontStyle:          s.Font.Style,
		FontPostScriptName: postScriptName(s.Font),
		FontWeight:         float64(s.Weight),
		Italic:             strings.Contains(strings.ToLower(s.Font.Style), "italic"),
		FontSize:           s.Size,
		LetterSpacing:      s.LetterSpacing,
		Fills:              []figma.Paint{{Type: "SOLID", Visible: true, Opacity: 1, Color: convertColor(s.Fill)}},
	}
	if s.LineHeight > 0 {
		ts.LineHeightPx = s.LineHeight
		ts.LineHeightUnit = "PIXELS"
		if s.Size > 0 {
			ts.LineHeightPercent = s.LineHeight / s.Size * 100
		}
	}
	switch s.Case {
	case layer.UpperCase:
		ts.TextCase = "UPPER"
	case layer.LowerCase:
		ts.TextCase = "LOWER"
	case layer.TitleCase:
		ts.TextCase = "TITLE"
	}
	switch s.Decoration {
	case layer.Underline, layer.Strike, layer.UnderlineStrike:
		ts.TextDecoration = string(s.Decoration)
	}
	if s.Hyperlink != "" {
		ts.Hyperlink = &figma.Hyperlink{Type: "URL", URL: s.Hyperlink}
	}
	return ts
}

func postScriptName(n fonts.Name) string {
	style := strings.ReplaceAll(n.Style, " ", "")
	return strings.ReplaceAll(n.Family, " ", "") + "-" + style
}

// export writes the characters, the base style and the per-character
// overrides. The base style is the style of the first character.
func (t *textData) export(out *figma.Node, def fonts.Name) {
	out.Characters = string(t.chars)

	base := figma.TypeStyle{
		FontFamily:         def.Family,
		FontStyle:          def.Style,
		FontPostScriptName: postScriptName(def),
	}
	baseID := -1
	if len(t.styles) > 0 && t.styles[0] >= 0 {
		baseID = t.styles[0]
		base = t.table[baseID]
	}
	base.TextAlignHorizontal = t.align
	if base.TextAlignHorizontal == "" {
		base.TextAlignHorizontal = "LEFT"
	}
	base.TextAlignVertical = "TOP"
	out.Style = &base
	if len(base.Fills) > 0 {
		out.Fills = base.Fills
	}

	// Override ids start at 1; 0 means the base style.
	ids := make(map[int]int)
	var overrides []int
	for _, s := range t.styles {
		if s == baseID {
			overrides = append(overrides, 0)
			continue
		}
		id, ok := ids[s]
		if !ok {
			id = len(ids) + 1
			ids[s] = id
			if out.StyleOverrideTable == nil {
				out.StyleOverrideTable = make(map[string]figma.TypeStyle)
			}
			ov := figma.TypeStyle{FontFamily: def.Family, FontStyle: def.Style}
			if s >= 0 {
				ov = t.table[s]
			}
			out.StyleOverrideTable[fmt.Sprint(id)] = ov
		}
		overrides = append(overrides, id)
	}
	if len(ids) > 0 {
		out.CharacterStyleOverrides = overrides
	}

	out.LineTypes = t.lineTypes()
}

// lineTypes returns the list type of every line, taken from its first
// character.
func (t *textData) lineTypes() []string {
	var out []string
	lineStart := true
	for i, r := range t.chars {
		if lineStart {
			switch t.lists[i] {
			case layer.OrderedList:
				out = append(out, "ORDERED")
			case layer.UnorderedList:
				out = append(out, "UNORDERED")
			default:
				out = append(out, "NONE")
			}
		}
		lineStart = r == '\n'
	}
	for _, lt := range out {
		if lt != "NONE" {
			return out
		}
	}
	return nil
}
