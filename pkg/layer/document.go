package layer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// SchemaVersion is the version written into new documents.
const SchemaVersion = 1

// ErrInvalidDocument is returned when a payload has no usable root.
var ErrInvalidDocument = errors.New("layer: invalid document")

// Document is the payload crossing the capture/import boundary.
type Document struct {
	Version    int       `json:"version"`
	ID         string    `json:"id"`
	Source     string    `json:"source,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
	Viewport   Viewport  `json:"viewport"`
	Root       *Node     `json:"root"`
}

// Viewport records the capture viewport.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewDocument wraps a captured root in a fresh envelope.
func NewDocument(root *Node, source string, viewport Viewport) *Document {
	return &Document{
		Version:    SchemaVersion,
		ID:         uuid.NewString(),
		Source:     source,
		CapturedAt: time.Now().UTC(),
		Viewport:   viewport,
		Root:       root,
	}
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Decode reads a document. Unknown fields are ignored and absent optional
// fields receive their defaults (see Normalize).
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("%w: missing root", ErrInvalidDocument)
	}
	if doc.Version == 0 {
		doc.Version = SchemaVersion
	}
	Normalize(doc.Root)
	return &doc, nil
}

// Normalize applies the documented defaults to a tree in place: missing
// variants become FRAME, sizes are clamped to MinSize and text ranges are
// clamped to the characters and ordered by start.
func Normalize(root *Node) {
	Walk(root, func(n *Node, _ int) bool {
		if n.Type == "" {
			n.Type = Frame
		}
		if n.Width < MinSize {
			n.Width = MinSize
		}
		if n.Height < MinSize {
			n.Height = MinSize
		}
		if n.Type == Text {
			n.Ranges = clampRanges(n.Ranges, utf8.RuneCountInString(n.Characters))
		}
		return true
	})
}

func clampRanges(ranges []StyleRange, length int) []StyleRange {
	out := ranges[:0]
	for _, r := range ranges {
		if r.Start < 0 {
			r.Start = 0
		}
		if r.End > length {
			r.End = length
		}
		if r.End <= r.Start {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Validate checks the structural invariants of a tree: positive sizes and,
// for text nodes, ordered non-overlapping ranges within the characters.
func Validate(root *Node) error {
	var err error
	Walk(root, func(n *Node, _ int) bool {
		if err != nil {
			return false
		}
		if n.Width <= 0 || n.Height <= 0 {
			err = fmt.Errorf("layer: node %q has non-positive size %gx%g", n.Name, n.Width, n.Height)
			return false
		}
		if n.Type != Text {
			return true
		}
		length := utf8.RuneCountInString(n.Characters)
		prevEnd := 0
		for i, r := range n.Ranges {
			if r.Start < 0 || r.End > length || r.Start >= r.End {
				err = fmt.Errorf("layer: node %q range %d [%d,%d) outside [0,%d]", n.Name, i, r.Start, r.End, length)
				return false
			}
			if r.Start < prevEnd {
				err = fmt.Errorf("layer: node %q range %d overlaps its predecessor", n.Name, i)
				return false
			}
			prevEnd = r.End
		}
		return true
	})
	return err
}
