package layer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	root := &Node{
		Width: 0, Height: 10,
		Children: []*Node{{
			Type: Text, Width: 10, Height: 10, Characters: "héllo",
			Ranges: []StyleRange{
				{Start: 3, End: 99, FontSize: 2},
				{Start: -1, End: 3, FontSize: 1},
				{Start: 4, End: 4},
			},
		}},
	}
	Normalize(root)

	assert.Equal(t, Frame, root.Type)
	assert.Equal(t, MinSize, root.Width)
	ranges := root.Children[0].Ranges
	require.Len(t, ranges, 2)
	assert.Equal(t, StyleRange{Start: 0, End: 3, FontSize: 1}, ranges[0])
	assert.Equal(t, StyleRange{Start: 3, End: 5, FontSize: 2}, ranges[1], "offsets count characters, not bytes")
	assert.NoError(t, Validate(root))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		ok   bool
	}{
		{"frame", &Node{Type: Frame, Width: 1, Height: 1}, true},
		{"zero size", &Node{Type: Frame, Width: 0, Height: 1}, false},
		{"text", &Node{Type: Text, Width: 1, Height: 1, Characters: "ab", Ranges: []StyleRange{{Start: 0, End: 1}, {Start: 1, End: 2}}}, true},
		{"overlap", &Node{Type: Text, Width: 1, Height: 1, Characters: "abc", Ranges: []StyleRange{{Start: 0, End: 2}, {Start: 1, End: 3}}}, false},
		{"out of bounds", &Node{Type: Text, Width: 1, Height: 1, Characters: "a", Ranges: []StyleRange{{Start: 0, End: 2}}}, false},
		{"nested", &Node{Type: Frame, Width: 1, Height: 1, Children: []*Node{{Type: Image, Width: -1, Height: 1}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.node)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"id": "x", "root": {"width": 10, "height": 10, "unknown": true,
		"children": [{"type": "TEXT", "width": 5, "height": 5, "characters": "hi"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, doc.Version)
	assert.Equal(t, Frame, doc.Root.Type)
	assert.Equal(t, "hi", doc.Root.Children[0].Characters)

	_, err = Decode(strings.NewReader(`{"id": "x"}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
	_, err = Decode(strings.NewReader(`[`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestEncodeDecode(t *testing.T) {
	doc := NewDocument(&Node{Type: Frame, Name: "body", Width: 10, Height: 10}, "https://example.com", Viewport{Width: 10, Height: 10})
	assert.NotEmpty(t, doc.ID)

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Source, got.Source)
	assert.True(t, doc.CapturedAt.Equal(got.CapturedAt))
}

func TestWalkDepthCount(t *testing.T) {
	root := &Node{Type: Frame, Children: []*Node{
		{Type: Text},
		{Type: Frame, Children: []*Node{{Type: Image}}},
	}}
	assert.Equal(t, 3, Depth(root))
	assert.Equal(t, map[Variant]int{Frame: 2, Text: 1, Image: 1}, Count(root))
	assert.Equal(t, 0, Depth(nil))

	visited := 0
	Walk(root, func(n *Node, depth int) bool {
		visited++
		return n.Type != Frame || depth == 0
	})
	assert.Equal(t, 3, visited, "returning false skips the children")
}

func TestOpacity(t *testing.T) {
	var n Node
	assert.Equal(t, 1.0, n.Alpha())
	n.SetOpacity(0.5)
	assert.Equal(t, 0.5, n.Alpha())
	n.SetOpacity(1)
	assert.Nil(t, n.Opacity)
}
