package figmaimporter

import (
	"fmt"
	"os"
	"time"

	"github.com/kataras/figma-importer/pkg/extractor"
	"github.com/kataras/figma-importer/pkg/fonts"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the capture and import options.
type Config struct {
	Capture CaptureConfig `yaml:"capture"`
	Import  ImportConfig  `yaml:"import"`
}

// CaptureConfig configures capture.
type CaptureConfig struct {
	MaxDepth           int      `yaml:"max_depth"`
	MaxChildren        int      `yaml:"max_children"`
	MinVisible         float64  `yaml:"min_visible"`
	TransformTolerance float64  `yaml:"transform_tolerance"`
	IgnoredTags        []string `yaml:"ignored_tags"`
	InlineTags         []string `yaml:"inline_tags"`
	MonospaceFamily    string   `yaml:"monospace_family"`
	MathSelector       string   `yaml:"math_selector"`
	AssistiveSelector  string   `yaml:"assistive_selector"`
	// RootSelector picks the capture root; empty captures <body>.
	RootSelector string        `yaml:"root_selector"`
	Browser      BrowserConfig `yaml:"browser"`
}

// BrowserConfig configures live page capture.
type BrowserConfig struct {
	Remote  string        `yaml:"remote"` // DevTools WebSocket URL; empty launches Chrome
	Stealth bool          `yaml:"stealth"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Timeout time.Duration `yaml:"timeout"`
	Settle  time.Duration `yaml:"settle"`
}

// ImportConfig configures import.
type ImportConfig struct {
	// DefaultFamily is the fallback font family.
	DefaultFamily string `yaml:"default_family"`
	// Fonts is the destination font catalog (family to styles). Empty
	// accepts every font.
	Fonts   map[string][]string `yaml:"fonts"`
	OriginX float64             `yaml:"origin_x"`
	OriginY float64             `yaml:"origin_y"`
	// Images enables downloading image sources into ImageDir.
	Images   bool   `yaml:"images"`
	ImageDir string `yaml:"image_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Capture: CaptureConfig{
			MaxDepth:           extractor.DefaultMaxDepth,
			MaxChildren:        extractor.DefaultMaxChildren,
			MinVisible:         extractor.DefaultMinVisible,
			TransformTolerance: extractor.DefaultTransformTolerance,
			MonospaceFamily:    "Roboto Mono",
			MathSelector:       extractor.DefaultMathSelector,
			AssistiveSelector:  extractor.DefaultAssistiveSelector,
			Browser: BrowserConfig{
				Stealth: true,
				Width:   1440,
				Height:  900,
				Timeout: time.Minute,
				Settle:  500 * time.Millisecond,
			},
		},
		Import: ImportConfig{
			DefaultFamily: fonts.DefaultFamily,
			ImageDir:      "figma-assets",
		},
	}
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if c.Capture.MaxDepth < 0 {
		return fmt.Errorf("capture.max_depth must be >= 0")
	}
	if c.Capture.MaxChildren < 0 {
		return fmt.Errorf("capture.max_children must be >= 0")
	}
	if c.Capture.Browser.Width < 0 || c.Capture.Browser.Height < 0 {
		return fmt.Errorf("capture.browser viewport must not be negative")
	}
	if c.Import.Images && c.Import.ImageDir == "" {
		return fmt.Errorf("import.image_dir is required when images are enabled")
	}
	return nil
}

// CaptureOptions returns options capturing source with this configuration.
func (c *Config) CaptureOptions(source string) CaptureOptions {
	cc := c.Capture
	return CaptureOptions{
		Source:       source,
		RootSelector: cc.RootSelector,
		Extractor: extractor.Config{
			MaxDepth:           cc.MaxDepth,
			MaxChildren:        cc.MaxChildren,
			MinVisible:         cc.MinVisible,
			TransformTolerance: cc.TransformTolerance,
			IgnoredTags:        cc.IgnoredTags,
			InlineTags:         cc.InlineTags,
			MonospaceFamily:    cc.MonospaceFamily,
			MathSelector:       cc.MathSelector,
			AssistiveSelector:  cc.AssistiveSelector,
		},
		Browser: cc.Browser,
	}
}

// ImportOptions returns options importing with this configuration.
func (c *Config) ImportOptions() ImportOptions {
	ic := c.Import
	return ImportOptions{
		DefaultFamily: ic.DefaultFamily,
		Fonts:         ic.Fonts,
		OriginX:       ic.OriginX,
		OriginY:       ic.OriginY,
		ResolveImages: ic.Images,
		ImageDir:      ic.ImageDir,
	}
}
