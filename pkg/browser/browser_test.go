package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/snapshot"
)

func TestDecode(t *testing.T) {
	doc, err := decode(`{
		"url": "https://example.com/",
		"scroll": {"x": 0, "y": 40},
		"size": {"width": 1440, "height": 3000},
		"viewport": {"width": 1440, "height": 900},
		"root": {"tag": "body", "style": "display: block", "rect": {"x": 0, "y": -40, "width": 1440, "height": 3000},
			"children": [{"text": "hi", "rect": {"x": 8, "y": -32, "width": 12, "height": 18}}]}
	}`)
	require.NoError(t, err)
	assert.Equal(t, 40.0, doc.Scroll.Y)
	require.Len(t, doc.Root.Children, 1)
	assert.True(t, doc.Root.Children[0].IsText())

	tree, err := snapshot.New(doc)
	require.NoError(t, err)
	assert.Equal(t, "body", tree.Root().Tag())

	_, err = decode(`{"url": "about:blank"}`)
	assert.ErrorIs(t, err, ErrEmptyPage)
	_, err = decode(`not json`)
	assert.Error(t, err)
}

func TestCaptureScriptIsFunction(t *testing.T) {
	s := strings.TrimSpace(captureScript)
	assert.True(t, strings.HasPrefix(s, "() =>"))
	assert.Contains(t, s, "JSON.stringify(documentOf(document))")
}

// TestCaptureLive needs a Chrome. Set FIGMA_IMPORTER_CHROME to a DevTools
// WebSocket URL, or to any other value to launch a local browser.
func TestCaptureLive(t *testing.T) {
	chrome := os.Getenv("FIGMA_IMPORTER_CHROME")
	if chrome == "" {
		t.Skip("FIGMA_IMPORTER_CHROME not set")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!doctype html><html><body style="margin:0">
			<div id="card" style="display:flex;gap:8px;padding:10px;background:#fff">
				<p>Hello <b>World</b></p>
				<input type="checkbox" checked>
			</div></body></html>`))
	}))
	defer srv.Close()

	cfg := Config{Viewport: capture.Size{Width: 800, Height: 600}, Timeout: 30 * time.Second, Settle: 50 * time.Millisecond}
	if strings.HasPrefix(chrome, "ws://") || strings.HasPrefix(chrome, "wss://") {
		cfg.RemoteURL = chrome
	}
	doc, err := Capture(context.Background(), srv.URL, cfg)
	require.NoError(t, err)
	assert.Equal(t, "body", doc.Root.Tag)
	assert.Equal(t, 800.0, doc.Viewport.Width)

	tree, err := snapshot.New(doc)
	require.NoError(t, err)
	card := tree.ElementByID("card")
	require.NotNil(t, card)
	assert.Equal(t, "flex", card.Style().Get("display"))
}
