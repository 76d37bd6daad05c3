// Package browser captures a live page into a snapshot document using a
// headless Chrome driven by Rod.
package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kataras/figma-importer/pkg/capture"
	"github.com/kataras/figma-importer/pkg/snapshot"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

//go:embed capture.js
var captureScript string

// ErrEmptyPage is returned when the page has no body to capture.
var ErrEmptyPage = errors.New("browser: page has no capturable root")

// Logger is the logging interface the capture reports progress through.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Config configures a live capture.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of a running Chrome. Empty
	// launches a local headless Chrome.
	RemoteURL string
	// Stealth opens the page with anti-detection patches applied.
	Stealth bool
	// Viewport is the emulated window size. Defaults to 1440x900.
	Viewport capture.Size
	// Timeout bounds navigation and capture. Defaults to 60s.
	Timeout time.Duration
	// Settle is how long to wait after the load event for late layout.
	// Defaults to 500ms.
	Settle time.Duration
	Logger Logger
}

func (c *Config) defaults() {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		c.Viewport = capture.Size{Width: 1440, Height: 900}
	}
	if c.Timeout <= 0 {
		c.Timeout = time.Minute
	}
	if c.Settle <= 0 {
		c.Settle = 500 * time.Millisecond
	}
}

// Capture loads pageURL and serializes its styled DOM into a snapshot
// document.
func Capture(ctx context.Context, pageURL string, cfg Config) (*snapshot.Document, error) {
	cfg.defaults()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	b, cleanup, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(cfg.Viewport.Width),
		Height:            int(cfg.Viewport.Height),
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: set viewport: %w", err)
	}

	logInfo(cfg.Logger, "navigating to %s", pageURL)
	if err := page.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		logWarn(cfg.Logger, "wait load %s: %v", pageURL, err)
	}

	select {
	case <-time.After(cfg.Settle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	res, err := page.Eval(captureScript)
	if err != nil {
		return nil, fmt.Errorf("browser: run capture script: %w", err)
	}
	doc, err := decode(res.Value.Str())
	if err != nil {
		return nil, err
	}
	if doc.URL == "" {
		doc.URL = pageURL
	}
	logInfo(cfg.Logger, "captured %s (%gx%g)", doc.URL, doc.Size.Width, doc.Size.Height)
	return doc, nil
}

// connect returns a connected browser and a function releasing it.
func connect(ctx context.Context, cfg Config) (*rod.Browser, func(), error) {
	wsURL := cfg.RemoteURL
	var l *launcher.Launcher
	if wsURL == "" {
		l = launcher.New().Context(ctx).Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		logInfo(cfg.Logger, "launched local chrome")
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Cleanup()
		}
		return nil, nil, fmt.Errorf("browser: connect: %w", err)
	}

	cleanup := func() {
		if l == nil {
			// A shared remote browser is left running.
			return
		}
		b.Close()
		l.Cleanup()
	}
	return b, cleanup, nil
}

func decode(payload string) (*snapshot.Document, error) {
	var doc snapshot.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("browser: decode capture: %w", err)
	}
	if doc.Root == nil {
		return nil, ErrEmptyPage
	}
	return &doc, nil
}

func logInfo(l Logger, format string, args ...any) {
	if l != nil {
		l.Infof(format, args...)
	}
}

func logWarn(l Logger, format string, args ...any) {
	if l != nil {
		l.Warnf(format, args...)
	}
}
