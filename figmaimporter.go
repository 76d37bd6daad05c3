package figmaimporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kataras/figma-importer/pkg/browser"
	"github.com/kataras/figma-importer/pkg/canvas"
	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/extractor"
	"github.com/kataras/figma-importer/pkg/figma"
	"github.com/kataras/figma-importer/pkg/formatter"
	"github.com/kataras/figma-importer/pkg/imager"
	"github.com/kataras/figma-importer/pkg/layer"
	"github.com/kataras/figma-importer/pkg/snapshot"
	"github.com/kataras/figma-importer/pkg/synth"

	"gopkg.in/yaml.v3"
)

// Version is the figma-importer release.
const Version = "0.1.0"

var (
	// ErrCaptureFailed wraps every error returned by Capture.
	ErrCaptureFailed = errors.New("capture failed")
	// ErrImportFailed wraps every error returned by Import.
	ErrImportFailed = errors.New("import failed")
)

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// CaptureOptions configures a capture.
type CaptureOptions struct {
	// Source is a page URL (http or https) captured in a browser, or the
	// path of a JSON or YAML snapshot file.
	Source string
	// RootSelector picks the capture root; empty captures <body>.
	RootSelector string
	Extractor    extractor.Config
	Browser      BrowserConfig
	// SnapshotOut, when set, receives the styled snapshot the capture was
	// extracted from. A .yaml or .yml extension writes YAML.
	SnapshotOut string
	Logger      Logger // nil = no logging
}

func (o *CaptureOptions) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

// Capture reads the source document and extracts its layer tree. Any
// failure, including a panic during traversal, is returned as a single
// error wrapping ErrCaptureFailed.
func Capture(ctx context.Context, opts CaptureOptions) (doc *layer.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrCaptureFailed, r)
		}
	}()

	doc, err = capturePage(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	return doc, nil
}

func capturePage(ctx context.Context, opts *CaptureOptions) (*layer.Document, error) {
	if opts.Source == "" {
		return nil, errors.New("no source given")
	}
	tree, err := loadTree(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.SnapshotOut != "" {
		if err := saveSnapshot(tree.Source(), opts.SnapshotOut); err != nil {
			return nil, err
		}
		opts.logInfo("Snapshot written to %s", opts.SnapshotOut)
	}

	var root capture.Node = tree.Root()
	if opts.RootSelector != "" {
		root = tree.Query(opts.RootSelector)
		if root == nil {
			return nil, fmt.Errorf("root selector %q matched nothing", opts.RootSelector)
		}
	}

	cfg := opts.Extractor
	if cfg.Logger == nil && opts.Logger != nil {
		cfg.Logger = opts.Logger
	}
	ex, err := extractor.New(cfg)
	if err != nil {
		return nil, err
	}

	opts.logInfo("Extracting layers...")
	node, err := ex.ExtractFrom(tree, root)
	if err != nil {
		return nil, err
	}

	source := tree.URL()
	if source == "" {
		source = opts.Source
	}
	vp := tree.Viewport()
	doc := layer.NewDocument(node, source, layer.Viewport{Width: vp.Width, Height: vp.Height})
	opts.logInfo("Captured %d layers (depth %d)", countLayers(node), layer.Depth(node))
	return doc, nil
}

func loadTree(ctx context.Context, opts *CaptureOptions) (*snapshot.Tree, error) {
	if !isURL(opts.Source) {
		opts.logInfo("Loading snapshot %s...", opts.Source)
		return snapshot.Load(opts.Source)
	}

	bc := opts.Browser
	opts.logInfo("Capturing %s in the browser...", opts.Source)
	sd, err := browser.Capture(ctx, opts.Source, browser.Config{
		RemoteURL: bc.Remote,
		Stealth:   bc.Stealth,
		Viewport:  capture.Size{Width: float64(bc.Width), Height: float64(bc.Height)},
		Timeout:   bc.Timeout,
		Settle:    bc.Settle,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return snapshot.New(sd)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func saveSnapshot(sd *snapshot.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(sd); err != nil {
			return fmt.Errorf("write snapshot %q: %w", path, err)
		}
		return enc.Close()
	default:
		if err := sd.Encode(f); err != nil {
			return fmt.Errorf("write snapshot %q: %w", path, err)
		}
	}
	return nil
}

func countLayers(n *layer.Node) int {
	c := 0
	layer.Walk(n, func(*layer.Node, int) bool {
		c++
		return true
	})
	return c
}

// ImportOptions configures an import.
type ImportOptions struct {
	// Name is the destination document name. Defaults to the capture
	// source.
	Name string
	// DefaultFamily is the font family tried when a requested family is
	// unavailable.
	DefaultFamily string
	// Fonts is the destination font catalog (family to styles). Nil
	// accepts every font.
	Fonts   map[string][]string
	OriginX float64
	OriginY float64
	// ResolveImages downloads image sources into ImageDir.
	ResolveImages bool
	ImageDir      string
	Logger        Logger // nil = no logging
}

func (o *ImportOptions) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *ImportOptions) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// ImportResult contains the import output.
type ImportResult struct {
	// Root is the destination node of the captured root.
	Root synth.Node
	// File is the destination document in Figma file format.
	File  *figma.FileResponse
	Stats synth.Result
	// Assets are the downloaded images when ResolveImages is set.
	Assets      []imager.Asset
	ImageErrors []error // non-fatal per-image failures
}

// Import materializes doc in a new canvas; doc is normalized in place
// first. Any failure, including a panic during synthesis, is returned as a
// single error wrapping ErrImportFailed; no partial result is returned.
func Import(ctx context.Context, doc *layer.Document, opts ImportOptions) (res *ImportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrImportFailed, r)
		}
	}()

	res, err = importDocument(ctx, doc, &opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	return res, nil
}

func importDocument(ctx context.Context, doc *layer.Document, opts *ImportOptions) (*ImportResult, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: missing root", layer.ErrInvalidDocument)
	}
	layer.Normalize(doc.Root)
	if err := layer.Validate(doc.Root); err != nil {
		return nil, fmt.Errorf("%w: %v", layer.ErrInvalidDocument, err)
	}

	name := opts.Name
	if name == "" {
		name = doc.Source
	}
	cv := canvas.New(canvas.Config{Name: name, Fonts: opts.Fonts})

	opts.logInfo("Creating design nodes...")
	stats, err := synth.New(cv, synth.Config{
		DefaultFamily: opts.DefaultFamily,
		OriginX:       opts.OriginX,
		OriginY:       opts.OriginY,
		Logger:        opts.Logger,
	}).Build(ctx, doc.Root)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Root: stats.Root, File: cv.Document(), Stats: *stats}
	if !opts.ResolveImages {
		return res, nil
	}

	opts.logInfo("Downloading images to %s...", opts.ImageDir)
	images, err := imager.ResolveImages(ctx, res.File, imager.Config{OutputDir: opts.ImageDir, Logger: opts.Logger})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		opts.logWarn("Image download failed: %v", err)
		res.ImageErrors = append(res.ImageErrors, err)
		return res, nil
	}
	res.Assets = images.Assets
	res.ImageErrors = images.Errors
	for _, e := range images.Errors {
		opts.logWarn("%v", e)
	}
	opts.logInfo("Downloaded %d image(s)", len(images.Assets))
	return res, nil
}

// Report renders the markdown report of a captured document and, when
// res is not nil, the images it downloaded.
func Report(doc *layer.Document, res *ImportResult) string {
	var assets []imager.Asset
	if res != nil {
		assets = res.Assets
	}
	return formatter.ToMarkdown(doc, assets)
}
