package imager

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kataras/figma-importer/pkg/figma"
)

// Logger is the logging interface the imager reports progress through.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Config holds configuration for image resolution.
type Config struct {
	OutputDir  string       // local directory, default "figma-assets"
	HTTPClient *http.Client // default: 2 minute timeout
	Logger     Logger
}

// ImageFill is a node painted with an IMAGE fill.
type ImageFill struct {
	NodeID   string
	NodeName string
	ImageRef string
}

// Asset is a downloaded image.
type Asset struct {
	ImageRef string
	NodeID   string
	NodeName string
	Source   string
	FileName string
}

// Result holds the results of an image resolution.
type Result struct {
	Assets []Asset
	Errors []error // non-fatal per-image failures
}

const (
	maxParallelDownloads = 5
	maxRetries           = 3
)

// retryDelay is the base backoff between download attempts.
var retryDelay = 2 * time.Second

// CollectImageFillNodes walks the node tree depth-first and returns every
// node with an IMAGE fill, in document order.
func CollectImageFillNodes(root *figma.Node) []ImageFill {
	var fills []ImageFill
	figma.Walk(root, func(n *figma.Node) {
		for _, p := range n.Fills {
			if p.Type == "IMAGE" && p.ImageRef != "" {
				fills = append(fills, ImageFill{NodeID: n.ID, NodeName: n.Name, ImageRef: p.ImageRef})
			}
		}
	})
	return fills
}

// ResolveImages downloads the source of every image ref used by the file
// into cfg.OutputDir. Each ref is fetched once and named after the first
// node that uses it. Failures of single images are collected in
// Result.Errors; only setup failures and cancellation are returned.
func ResolveImages(ctx context.Context, file *figma.FileResponse, cfg Config) (*Result, error) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "figma-assets"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 2 * time.Minute}
	}

	result := &Result{}
	var jobs []Asset
	seen := make(map[string]bool)
	for _, fill := range CollectImageFillNodes(&file.Document) {
		if seen[fill.ImageRef] {
			continue
		}
		seen[fill.ImageRef] = true

		source := file.Images[fill.ImageRef]
		if source == "" {
			result.Errors = append(result.Errors, fmt.Errorf("no image source for ref %s (node %s)", fill.ImageRef, fill.NodeID))
			continue
		}
		jobs = append(jobs, Asset{ImageRef: fill.ImageRef, NodeID: fill.NodeID, NodeName: fill.NodeName, Source: source})
	}
	if len(jobs) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", cfg.OutputDir, err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		sem       = make(chan struct{}, maxParallelDownloads)
		usedNames = make(map[string]int) // track filename collisions
	)

	for _, job := range jobs {
		wg.Add(1)
		go func(a Asset) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			data, contentType, err := fetch(ctx, cfg.HTTPClient, a.Source)
			if err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Errorf("failed to download %s: %w", a.NodeName, err))
				mu.Unlock()
				logWarn(cfg.Logger, "image %s: %v", a.ImageRef, err)
				return
			}

			ext := detectExtension(a.Source, contentType)
			mu.Lock()
			a.FileName = uniqueName(usedNames, buildFileName(a.NodeName, a.NodeID, ext))
			mu.Unlock()

			if err := os.WriteFile(filepath.Join(cfg.OutputDir, a.FileName), data, 0644); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Errorf("failed to write %s: %w", a.FileName, err))
				mu.Unlock()
				return
			}

			mu.Lock()
			result.Assets = append(result.Assets, a)
			mu.Unlock()
			logInfo(cfg.Logger, "saved %s", a.FileName)
		}(job)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// fetch returns the bytes and content type of an http(s) or data: locator.
// HTTP requests are retried with a linear backoff on transport errors, 429
// and 5xx responses.
func fetch(ctx context.Context, client *http.Client, source string) ([]byte, string, error) {
	if strings.HasPrefix(source, "data:") {
		return decodeDataURI(source)
	}
	u, err := url.Parse(source)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image locator: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported image locator scheme %q", u.Scheme)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * retryDelay):
			case <-ctx.Done():
				return nil, "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed to execute request: %w", attempt, err)
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return nil, "", lastErr
		}
		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed to read response body: %w", attempt, err)
			continue
		}
		return body, resp.Header.Get("Content-Type"), nil
	}
	return nil, "", lastErr
}

var errBadDataURI = errors.New("malformed data URI")

// decodeDataURI decodes data:[<mediatype>][;base64],<data>.
func decodeDataURI(uri string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", errBadDataURI
	}
	isBase64 := strings.HasSuffix(meta, ";base64")
	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", errBadDataURI, err)
		}
		return data, contentType, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errBadDataURI, err)
	}
	return []byte(text), contentType, nil
}

var extensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/avif":    "avif",
	"image/svg+xml": "svg",
	"image/bmp":     "bmp",
	"image/x-icon":  "ico",
}

// detectExtension prefers the content type and falls back to the locator.
func detectExtension(source, contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if ext, ok := extensions[mt]; ok {
			return ext
		}
	}
	if strings.HasPrefix(source, "data:") {
		return "png"
	}
	return detectExtensionFromURL(source)
}

// detectExtensionFromURL returns the file extension of the URL path,
// defaulting to png.
func detectExtensionFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "png"
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	switch ext {
	case "png", "jpg", "gif", "webp", "avif", "svg", "bmp", "ico":
		return ext
	case "jpeg":
		return "jpg"
	}
	return "png"
}

func uniqueName(used map[string]int, fileName string) string {
	count, exists := used[fileName]
	if !exists {
		used[fileName] = 1
		return fileName
	}
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	for {
		count++
		candidate := fmt.Sprintf("%s-%d%s", base, count, ext)
		if _, taken := used[candidate]; !taken {
			used[fileName] = count
			used[candidate] = 1
			return candidate
		}
	}
}

// buildFileName creates a sanitized filename from a node name,
// falling back to the node ID if the name is empty.
func buildFileName(nodeName, nodeID, ext string) string {
	name := toKebabCase(nodeName)
	if name == "" {
		name = toKebabCase(strings.ReplaceAll(nodeID, ":", "-"))
	}
	if name == "" {
		name = "asset"
	}
	return name + "." + ext
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(" ", "-", "_", "-", ".", "-", "#", "-").Replace(s)

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return strings.Trim(result.String(), "-")
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
