package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	figmaimporter "github.com/kataras/figma-importer"
	"github.com/kataras/figma-importer/pkg/formatter"
	"github.com/kataras/figma-importer/pkg/layer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = figmaimporter.Version

var (
	configFile   string
	captureFile  string
	outputFile   string
	snapshotOut  string
	rootSelector string
	docName      string
	originX      float64
	originY      float64
	fetchImages  bool
	imageDir     string
	reportFile   string
	outlineDepth int
	asMarkdown   bool
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	cyan  = color.New(color.FgCyan)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figma-importer",
		Short: "Turn rendered web pages into editable Figma designs",
		Long:  "A tool to capture the rendered layout of a web page as a layer tree and materialize it as Figma nodes with auto-layout, rich text and vector shapes",
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (optional)")

	captureCmd := &cobra.Command{
		Use:   "capture <url|snapshot>",
		Short: "Capture a page or a snapshot file into a layer document",
		Args:  cobra.ExactArgs(1),
		Run:   runCapture,
	}
	captureCmd.Flags().StringVarP(&captureFile, "output", "o", "capture.json", "Output capture document")
	captureCmd.Flags().StringVar(&snapshotOut, "snapshot-out", "", "Also write the styled page snapshot to this file (.json or .yaml)")
	captureCmd.Flags().StringVarP(&rootSelector, "root", "r", "", "CSS selector of the capture root (default <body>)")

	importCmd := &cobra.Command{
		Use:   "import <capture.json>",
		Short: "Import a capture document into a Figma file",
		Args:  cobra.ExactArgs(1),
		Run:   runImport,
	}
	addImportFlags(importCmd)

	convertCmd := &cobra.Command{
		Use:   "convert <url|snapshot>",
		Short: "Capture and import in one step",
		Args:  cobra.ExactArgs(1),
		Run:   runConvert,
	}
	addImportFlags(convertCmd)
	convertCmd.Flags().StringVar(&snapshotOut, "snapshot-out", "", "Also write the styled page snapshot to this file (.json or .yaml)")
	convertCmd.Flags().StringVarP(&rootSelector, "root", "r", "", "CSS selector of the capture root (default <body>)")

	inspectCmd := &cobra.Command{
		Use:   "inspect <capture.json>",
		Short: "Print the layer outline of a capture document",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}
	inspectCmd.Flags().IntVarP(&outlineDepth, "depth", "d", 0, "Collapse layers below this depth (0 prints everything)")
	inspectCmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Print the markdown report instead of the outline")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-importer version %s\n", version)
		},
	}

	rootCmd.AddCommand(captureCmd, importCmd, convertCmd, inspectCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func addImportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFile, "output", "o", "design.json", "Output Figma file document")
	cmd.Flags().StringVarP(&docName, "name", "n", "", "Document name (default the capture source)")
	cmd.Flags().Float64Var(&originX, "origin-x", 0, "Horizontal position of the imported root")
	cmd.Flags().Float64Var(&originY, "origin-y", 0, "Vertical position of the imported root")
	cmd.Flags().BoolVar(&fetchImages, "images", false, "Download image sources")
	cmd.Flags().StringVar(&imageDir, "image-dir", "", "Output directory for downloaded images (default figma-assets)")
	cmd.Flags().StringVar(&reportFile, "report", "", "Also write a markdown report to this file")
}

func banner(title string) {
	cyan.Println("\n🎨 " + title)
	cyan.Println(strings.Repeat("=", len([]rune(title))+3))
	cyan.Println()
}

func fail(err error) {
	red.Printf("Error: %v\n", err)
	os.Exit(1)
}

func loadConfig(cmd *cobra.Command) *figmaimporter.Config {
	cfg := figmaimporter.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = figmaimporter.LoadConfig(configFile); err != nil {
			fail(err)
		}
	}
	if rootSelector != "" {
		cfg.Capture.RootSelector = rootSelector
	}
	flags := cmd.Flags()
	if flags.Changed("images") {
		cfg.Import.Images = fetchImages
	}
	if imageDir != "" {
		cfg.Import.ImageDir = imageDir
	}
	if flags.Changed("origin-x") {
		cfg.Import.OriginX = originX
	}
	if flags.Changed("origin-y") {
		cfg.Import.OriginY = originY
	}
	return cfg
}

func runCapture(cmd *cobra.Command, args []string) {
	banner("Web Page Capture")
	cfg := loadConfig(cmd)

	doc := capture(cmd.Context(), cfg, args[0])
	printCaptureSummary(doc)

	writeOutput(captureFile, doc.Encode)
	green.Printf("\n✨ Successfully captured %s to %s\n\n", doc.Source, captureFile)
}

func runImport(cmd *cobra.Command, args []string) {
	banner("Figma Import")
	cfg := loadConfig(cmd)

	doc, err := readDocument(args[0])
	if err != nil {
		fail(err)
	}
	importDocument(cmd.Context(), cfg, doc)
}

func runConvert(cmd *cobra.Command, args []string) {
	banner("Web Page to Figma")
	cfg := loadConfig(cmd)

	doc := capture(cmd.Context(), cfg, args[0])
	printCaptureSummary(doc)
	importDocument(cmd.Context(), cfg, doc)
}

func runInspect(cmd *cobra.Command, args []string) {
	doc, err := readDocument(args[0])
	if err != nil {
		fail(err)
	}
	if asMarkdown {
		fmt.Print(figmaimporter.Report(doc, nil))
		return
	}
	fmt.Print(formatter.Outline(doc.Root, outlineDepth))
}

func capture(ctx context.Context, cfg *figmaimporter.Config, source string) *layer.Document {
	opts := cfg.CaptureOptions(source)
	opts.SnapshotOut = snapshotOut
	opts.Logger = &cliLogger{}

	doc, err := figmaimporter.Capture(ctx, opts)
	if err != nil {
		fail(err)
	}
	return doc
}

func importDocument(ctx context.Context, cfg *figmaimporter.Config, doc *layer.Document) {
	opts := cfg.ImportOptions()
	opts.Name = docName
	opts.Logger = &cliLogger{}

	res, err := figmaimporter.Import(ctx, doc, opts)
	if err != nil {
		fail(err)
	}

	stats := res.Stats
	cyan.Println("\n📊 Import Summary:")
	fmt.Printf("  • Nodes: %d\n", stats.Nodes)
	fmt.Printf("  • Text Layers: %d\n", stats.Texts)
	if stats.Vectors > 0 || stats.FailedVectors > 0 {
		fmt.Printf("  • Vectors: %d (%d fell back to frames)\n", stats.Vectors, stats.FailedVectors)
	}
	if stats.Arcs > 0 {
		fmt.Printf("  • Arcs: %d\n", stats.Arcs)
	}
	if len(res.Assets) > 0 || len(res.ImageErrors) > 0 {
		fmt.Printf("  • Images: %d downloaded, %d failed\n", len(res.Assets), len(res.ImageErrors))
	}

	writeOutput(outputFile, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.File)
	})
	if reportFile != "" {
		writeOutput(reportFile, func(w io.Writer) error {
			_, err := io.WriteString(w, figmaimporter.Report(doc, res))
			return err
		})
	}

	green.Printf("\n✨ Successfully imported %s to %s\n\n", doc.Source, outputFile)
}

func printCaptureSummary(doc *layer.Document) {
	cyan.Println("\n📊 Capture Summary:")
	fmt.Printf("  • Viewport: %.0f×%.0f\n", doc.Viewport.Width, doc.Viewport.Height)
	fmt.Printf("  • Depth: %d\n", layer.Depth(doc.Root))
	for _, v := range sortedVariants(layer.Count(doc.Root)) {
		fmt.Printf("  • %s: %d\n", v.name, v.count)
	}
}

type variantCount struct {
	name  layer.Variant
	count int
}

func sortedVariants(counts map[layer.Variant]int) []variantCount {
	out := make([]variantCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, variantCount{v, c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func readDocument(path string) (*layer.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return layer.Decode(f)
}

func writeOutput(path string, write func(io.Writer) error) {
	green.Printf("\n💾 Writing to %s... ", path)
	f, err := os.Create(path)
	if err == nil {
		err = write(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		red.Printf("✗\n")
		fail(err)
	}
	green.Println("✓")
}

// cliLogger implements figmaimporter.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
