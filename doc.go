// Package figmaimporter turns live web pages into editable Figma design
// documents. A page is captured into a tree of design layers (frames,
// text, images, vectors) and the tree is then materialized as Figma nodes
// with their fills, strokes, effects, auto-layout and rich text.
//
// The CLI lives in cmd/figma-importer; this root package exposes the same
// pipeline as a Go API so that callers can embed it in their own tools
// without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmaimporter:
//
//	import "github.com/kataras/figma-importer" // package figmaimporter
//
// # Quick start
//
//	doc, err := figmaimporter.Capture(ctx, figmaimporter.CaptureOptions{
//	    Source: "https://example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := figmaimporter.Import(ctx, doc, figmaimporter.ImportOptions{
//	    ResolveImages: true,
//	    ImageDir:      "assets",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	json.NewEncoder(os.Stdout).Encode(res.File)
//
// Capture also reads snapshot files (JSON or YAML styled DOM trees), which
// is how tests and offline runs avoid a browser. Set
// [CaptureOptions.SnapshotOut] during a live capture to keep one.
//
// # Logging
//
// Pass a [Logger] implementation in the options to receive progress
// messages. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// # Errors
//
// Capture and Import are all-or-nothing: they return either a complete
// result or one error wrapping [ErrCaptureFailed] or [ErrImportFailed].
// Inside a run, layers that cannot be captured are dropped, vectors the
// canvas rejects become frames named "SVG (failed)" and missing fonts fall
// back to the default family.
package figmaimporter
