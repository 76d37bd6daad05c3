// Package snapshot implements the capture capability over a frozen styled
// document tree. Snapshots are produced by package browser from a live page
// or written by hand as JSON or YAML fixtures.
//
// Every element stores its computed style as a CSS declaration block, e.g.
//
//	style: "display: flex; column-gap: 8px; background-color: rgb(255, 255, 255)"
//
// which is parsed once at load time.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kataras/figma-importer/pkg/capture"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a captured document.
type Document struct {
	URL      string        `json:"url,omitempty" yaml:"url,omitempty"`
	Scroll   capture.Point `json:"scroll" yaml:"scroll"`
	Size     capture.Size  `json:"size" yaml:"size"`
	Viewport capture.Size  `json:"viewport" yaml:"viewport"`
	Root     *Element      `json:"root" yaml:"root"`
}

// Element is the serialized form of a node. Text nodes have an empty Tag
// (or "#text") and carry Text.
type Element struct {
	Tag      string            `json:"tag,omitempty" yaml:"tag,omitempty"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Style    string            `json:"style,omitempty" yaml:"style,omitempty"`
	Rect     *capture.Rect     `json:"rect,omitempty" yaml:"rect,omitempty"`
	Layout   *capture.Size     `json:"layout,omitempty" yaml:"layout,omitempty"`
	Children []*Element        `json:"children,omitempty" yaml:"children,omitempty"`
	Frame    *Document         `json:"frame,omitempty" yaml:"frame,omitempty"`
}

// IsText reports whether the element describes a text node.
func (e *Element) IsText() bool {
	return e.Tag == "" || e.Tag == "#text"
}

// Decode reads a JSON snapshot and builds its tree.
func Decode(r io.Reader) (*Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("snapshot: decode json: %w", err)
	}
	return New(&doc)
}

// DecodeYAML reads a YAML snapshot and builds its tree.
func DecodeYAML(r io.Reader) (*Tree, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("snapshot: decode yaml: %w", err)
	}
	return New(&doc)
}

// Load reads a snapshot file; ".yaml" and ".yml" files are read as YAML,
// everything else as JSON.
func Load(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return Decode(f)
	}
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
