// Package canvas is an in-memory design document implementing
// synth.Canvas. Built trees are exported as Figma file JSON with
// Document.
package canvas

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kataras/figma-importer/pkg/figma"
	"github.com/kataras/figma-importer/pkg/fonts"
	"github.com/kataras/figma-importer/pkg/synth"
)

var (
	// ErrFontMissing is returned by LoadFont for fonts outside the catalog.
	ErrFontMissing = errors.New("canvas: font not in catalog")
	// ErrFontNotLoaded is returned when a range is styled with a font that
	// was never loaded.
	ErrFontNotLoaded = errors.New("canvas: font not loaded")
)

// Config configures a Canvas.
type Config struct {
	// Name is the document name.
	Name string
	// Fonts is the font catalog: family to available style names. A nil
	// catalog makes every font available.
	Fonts map[string][]string
	// DefaultFont is the font new text nodes use. It is always available.
	// Defaults to Inter Regular.
	DefaultFont fonts.Name
}

// Canvas holds the nodes of one design document. Node mutation is not
// safe for concurrent use; font loading is.
type Canvas struct {
	name        string
	defaultFont fonts.Name
	catalog     map[fonts.Name]bool

	mu     sync.Mutex
	loaded map[fonts.Name]bool

	next   int
	page   *Node
	images map[string]string
}

var _ synth.Canvas = (*Canvas)(nil)

// New returns an empty canvas with one page.
func New(cfg Config) *Canvas {
	if cfg.DefaultFont.Family == "" {
		cfg.DefaultFont = fonts.Name{Family: fonts.DefaultFamily, Style: "Regular"}
	}
	if cfg.Name == "" {
		cfg.Name = "Untitled"
	}

	c := &Canvas{
		name:        cfg.Name,
		defaultFont: cfg.DefaultFont,
		loaded:      map[fonts.Name]bool{cfg.DefaultFont: true},
		images:      make(map[string]string),
	}
	if cfg.Fonts != nil {
		c.catalog = map[fonts.Name]bool{cfg.DefaultFont: true}
		for family, styles := range cfg.Fonts {
			for _, style := range styles {
				c.catalog[fonts.Name{Family: family, Style: style}] = true
			}
		}
	}
	c.page = &Node{canvas: c, id: "0:1", kind: "CANVAS", name: "Page 1", opacity: 1}
	return c
}

// LoadFont marks a catalog font as loaded.
func (c *Canvas) LoadFont(ctx context.Context, name fonts.Name) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.catalog != nil && !c.catalog[name] {
		return fmt.Errorf("%w: %s", ErrFontMissing, name)
	}
	c.mu.Lock()
	c.loaded[name] = true
	c.mu.Unlock()
	return nil
}

// DefaultFont returns the font of a new text node.
func (c *Canvas) DefaultFont() fonts.Name { return c.defaultFont }

func (c *Canvas) isLoaded(name fonts.Name) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded[name]
}

// Page returns the page new roots are appended to.
func (c *Canvas) Page() synth.Node { return c.page }

func (c *Canvas) create(kind string) *Node {
	c.next++
	return &Node{
		canvas:  c,
		id:      fmt.Sprintf("1:%d", c.next),
		kind:    kind,
		name:    kind,
		opacity: 1,
		fills:   []figma.Paint{},
	}
}

func (c *Canvas) CreateFrame() synth.Node { return c.create("FRAME") }
func (c *Canvas) CreateRectangle() synth.Node { return c.create("RECTANGLE") }
func (c *Canvas) CreateEllipse() synth.Ellipse {
	return c.create("ELLIPSE")
}

// CreateText returns a text node in the default font.
func (c *Canvas) CreateText() synth.Text {
	n := c.create("TEXT")
	n.text = &textData{}
	return n
}

// CreateImage returns a rectangle with an IMAGE fill. The image ref is
// derived from the source locator; Images maps it back.
func (c *Canvas) CreateImage(source string) synth.Node {
	n := c.create("RECTANGLE")
	n.name = "image"
	if source == "" {
		return n
	}
	sum := sha1.Sum([]byte(source))
	ref := hex.EncodeToString(sum[:])
	c.images[ref] = source
	n.fills = []figma.Paint{{Type: "IMAGE", Visible: true, Opacity: 1, ImageRef: ref, ScaleMode: "FILL"}}
	return n
}

// CreateVector returns a VECTOR node holding markup. Markup that is not a
// well-formed SVG document is rejected.
func (c *Canvas) CreateVector(markup string) (synth.Node, error) {
	if err := validateSVG(markup); err != nil {
		return nil, fmt.Errorf("%w: %v", synth.ErrVectorCreate, err)
	}
	n := c.create("VECTOR")
	n.svg = markup
	return n, nil
}

// Images returns the image refs of IMAGE fills and their source locators.
func (c *Canvas) Images() map[string]string {
	out := make(map[string]string, len(c.images))
	for k, v := range c.images {
		out[k] = v
	}
	return out
}

// Document exports the canvas as a Figma file.
func (c *Canvas) Document() *figma.FileResponse {
	page := c.page.export(0, 0)
	return &figma.FileResponse{
		Name:         c.name,
		LastModified: time.Now().UTC().Format(time.RFC3339),
		Version:      "1",
		Document: figma.Node{
			ID:       "0:0",
			Name:     "Document",
			Type:     "DOCUMENT",
			Fills:    []figma.Paint{},
			Children: []figma.Node{page},
		},
		Styles: map[string]figma.Style{},
		Images: c.Images(),
	}
}
