package figmaimporter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-importer/pkg/figma"
	"github.com/kataras/figma-importer/pkg/layer"
)

const pageYAML = `url: https://example.com/
viewport: {width: 800, height: 600}
size: {width: 800, height: 600}
root:
  tag: body
  style: "display: block; background-color: rgb(255, 255, 255)"
  rect: {x: 0, y: 0, width: 800, height: 600}
  children:
    - tag: div
      attrs: {id: card}
      style: "display: flex; flex-direction: column; row-gap: 8px; background-color: rgb(240, 240, 240)"
      rect: {x: 20, y: 20, width: 300, height: 200}
      children:
        - tag: p
          style: "display: block; font-family: Roboto; font-size: 16px; color: rgb(0, 0, 0)"
          rect: {x: 30, y: 30, width: 200, height: 20}
          children:
            - text: "Hello "
            - tag: b
              style: "display: inline; font-family: Roboto; font-size: 16px; font-weight: 700"
              children:
                - text: World
        - tag: img
          attrs: {src: "%s/photo.png", alt: photo}
          rect: {x: 30, y: 60, width: 64, height: 64}
`

func writeSnapshot(t *testing.T, imageBase string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(pageYAML, imageBase)), 0644))
	return path
}

func findType(root *figma.Node, typ string) *figma.Node {
	var found *figma.Node
	figma.Walk(root, func(n *figma.Node) {
		if found == nil && n.Type == typ {
			found = n
		}
	})
	return found
}

func TestCaptureAndImport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	}))
	defer srv.Close()

	ctx := context.Background()
	doc, err := Capture(ctx, CaptureOptions{Source: writeSnapshot(t, srv.URL)})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", doc.Source)
	assert.Equal(t, layer.Viewport{Width: 800, Height: 600}, doc.Viewport)
	require.NotNil(t, doc.Root)
	assert.Equal(t, layer.Frame, doc.Root.Type)
	require.Len(t, doc.Root.Children, 1)
	card := doc.Root.Children[0]
	require.NotNil(t, card.Layout)
	assert.Equal(t, layer.Vertical, card.Layout.Mode)
	assert.Len(t, card.Children, 2)

	dir := filepath.Join(t.TempDir(), "assets")
	res, err := Import(ctx, doc, ImportOptions{OriginX: 100, ResolveImages: true, ImageDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Texts)
	require.NotNil(t, res.Root)

	page := res.File.Document.Children[0]
	require.Len(t, page.Children, 1)
	body := page.Children[0]
	assert.Equal(t, res.Root.ID(), body.ID)
	assert.Equal(t, 100.0, body.AbsoluteBoundingBox.X)

	text := findType(&body, "TEXT")
	require.NotNil(t, text)
	assert.Equal(t, "Hello World", text.Characters)
	assert.Len(t, text.CharacterStyleOverrides, 11)

	assert.Empty(t, res.ImageErrors)
	require.Len(t, res.Assets, 1)
	assert.Equal(t, srv.URL+"/photo.png", res.Assets[0].Source)
	_, err = os.Stat(filepath.Join(dir, res.Assets[0].FileName))
	assert.NoError(t, err)

	report := Report(doc, res)
	assert.Contains(t, report, "# Design Capture - https://example.com/")
	assert.Contains(t, report, res.Assets[0].FileName)
}

func TestCaptureRootSelector(t *testing.T) {
	path := writeSnapshot(t, "https://example.com")

	doc, err := Capture(context.Background(), CaptureOptions{Source: path, RootSelector: "#card"})
	require.NoError(t, err)
	assert.Equal(t, 300.0, doc.Root.Width)

	_, err = Capture(context.Background(), CaptureOptions{Source: path, RootSelector: "#missing"})
	assert.ErrorIs(t, err, ErrCaptureFailed)
}

func TestCaptureSnapshotOut(t *testing.T) {
	out := filepath.Join(t.TempDir(), "copy.json")
	first, err := Capture(context.Background(), CaptureOptions{Source: writeSnapshot(t, "https://example.com"), SnapshotOut: out})
	require.NoError(t, err)

	second, err := Capture(context.Background(), CaptureOptions{Source: out})
	require.NoError(t, err)
	assert.Equal(t, layer.Count(first.Root), layer.Count(second.Root))
	assert.NotEqual(t, first.ID, second.ID, "every capture has its own id")
}

func TestCaptureErrors(t *testing.T) {
	tests := []struct {
		name string
		opts CaptureOptions
	}{
		{"no source", CaptureOptions{}},
		{"missing file", CaptureOptions{Source: filepath.Join(t.TempDir(), "nope.json")}},
		{"bad selector", CaptureOptions{Source: writeSnapshot(t, "x"), RootSelector: "[["}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Capture(context.Background(), tt.opts)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrCaptureFailed)
		})
	}
}

func TestImportErrors(t *testing.T) {
	_, err := Import(context.Background(), nil, ImportOptions{})
	assert.ErrorIs(t, err, ErrImportFailed)
	assert.ErrorIs(t, err, layer.ErrInvalidDocument)

	overlapping := &layer.Document{Root: &layer.Node{
		Type: layer.Text, Width: 10, Height: 10, Characters: "abcdef",
		Ranges: []layer.StyleRange{{Start: 0, End: 4}, {Start: 2, End: 6}},
	}}
	_, err = Import(context.Background(), overlapping, ImportOptions{})
	assert.ErrorIs(t, err, layer.ErrInvalidDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := &layer.Document{Root: &layer.Node{Type: layer.Frame, Width: 10, Height: 10}}
	res, err := Import(ctx, doc, ImportOptions{})
	assert.Nil(t, res, "no partial result crosses the boundary")
	assert.True(t, errors.Is(err, ErrImportFailed) && errors.Is(err, context.Canceled))
}

func TestImportNormalizes(t *testing.T) {
	doc := &layer.Document{Root: &layer.Node{Children: []*layer.Node{{Type: layer.Rectangle, Width: 5, Height: 5}}}}
	res, err := Import(context.Background(), doc, ImportOptions{Name: "normalized"})
	require.NoError(t, err)
	assert.Equal(t, layer.Frame, doc.Root.Type)
	assert.Equal(t, layer.MinSize, doc.Root.Width)
	assert.Equal(t, "normalized", res.File.Name)
	assert.Equal(t, 2, res.Stats.Nodes)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
capture:
  max_depth: 12
  root_selector: main
  browser:
    stealth: false
    timeout: 30s
import:
  default_family: Roboto
  fonts:
    Roboto: [Regular, Bold]
  images: true
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Capture.MaxDepth)
	assert.Equal(t, 400, cfg.Capture.MaxChildren, "defaults survive")
	assert.False(t, cfg.Capture.Browser.Stealth)
	assert.Equal(t, 30*time.Second, cfg.Capture.Browser.Timeout)
	assert.Equal(t, 1440, cfg.Capture.Browser.Width)

	co := cfg.CaptureOptions("https://example.com")
	assert.Equal(t, "main", co.RootSelector)
	assert.Equal(t, 12, co.Extractor.MaxDepth)

	io := cfg.ImportOptions()
	assert.Equal(t, "Roboto", io.DefaultFamily)
	assert.Equal(t, []string{"Regular", "Bold"}, io.Fonts["Roboto"])
	assert.True(t, io.ResolveImages)
	assert.Equal(t, "figma-assets", io.ImageDir)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Capture.MaxDepth = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Import.Images = true
	cfg.Import.ImageDir = ""
	assert.Error(t, cfg.Validate())

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
