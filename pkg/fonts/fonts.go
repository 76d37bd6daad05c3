// Package fonts resolves requested font family and style pairs against a
// constrained font catalog through an ordered fallback chain.
//
// Loads run one at a time on a single worker goroutine, and every outcome
// is cached, so no font is ever loaded twice or concurrently.
package fonts

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"
)

// DefaultFamily is the family used when a requested family has no
// loadable style.
const DefaultFamily = "Inter"

// ErrClosed is returned by Resolve after Close.
var ErrClosed = errors.New("fonts: resolver closed")

// Name identifies a font in the catalog.
type Name struct {
	Family string
	Style  string
}

func (n Name) String() string { return n.Family + " " + n.Style }

// Loader loads fonts of the destination environment.
type Loader interface {
	// LoadFont makes a font available, or fails when the catalog lacks it.
	LoadFont(ctx context.Context, name Name) error
	// DefaultFont is the font a freshly created text node would use.
	DefaultFont() Name
}

// Logger receives fallback notices. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var styleWeights = []struct {
	weight int
	name   string
}{
	{100, "Thin"},
	{200, "Extra Light"},
	{300, "Light"},
	{400, "Regular"},
	{500, "Medium"},
	{600, "Semi Bold"},
	{700, "Bold"},
	{800, "Extra Bold"},
	{900, "Black"},
}

// StyleName returns the conventional style name of a numeric weight,
// rounded to the nearest hundred: 600 is "Semi Bold", 400 italic is
// "Italic" and 700 italic is "Bold Italic".
func StyleName(weight int, italic bool) string {
	name := "Regular"
	best := -1
	for _, sw := range styleWeights {
		d := sw.weight - weight
		if d < 0 {
			d = -d
		}
		if best < 0 || d < best {
			best, name = d, sw.name
		}
	}
	if !italic {
		return name
	}
	if name == "Regular" {
		return "Italic"
	}
	return name + " Italic"
}

// Candidates returns the style names tried for style, in order: the exact
// name, the name without whitespace, the name with word boundaries
// re-inserted at case transitions, the bold-like fallbacks when the style
// is bold-like, and Regular.
func Candidates(style string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	add(style)
	compact := strings.Join(strings.Fields(style), "")
	add(compact)
	add(splitWords(compact))
	if strings.Contains(strings.ToLower(compact), "bold") {
		add("Bold")
		add("Semi Bold")
		add("Medium")
	}
	add("Regular")
	return out
}

// splitWords inserts a space at every lower-to-upper case transition.
func splitWords(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Config configures a Resolver.
type Config struct {
	// DefaultFamily is tried at Regular when every candidate of the
	// requested family fails. Defaults to DefaultFamily.
	DefaultFamily string
	Logger        Logger
}

type request struct {
	ctx   context.Context
	want  Name
	reply chan Name
}

// Resolver finds loadable fonts. It is safe for concurrent use; requests
// are served in arrival order by one worker.
type Resolver struct {
	loader        Loader
	defaultFamily string
	log           Logger

	requests  chan request
	done      chan struct{}
	closeOnce sync.Once

	// owned by the worker
	resolved map[Name]Name
	loaded   map[Name]bool
}

// NewResolver starts a resolver over loader. Close releases its worker.
func NewResolver(loader Loader, cfg Config) *Resolver {
	if cfg.DefaultFamily == "" {
		cfg.DefaultFamily = DefaultFamily
	}
	r := &Resolver{
		loader:        loader,
		defaultFamily: cfg.DefaultFamily,
		log:           cfg.Logger,
		requests:      make(chan request),
		done:          make(chan struct{}),
		resolved:      make(map[Name]Name),
		loaded:        make(map[Name]bool),
	}
	go r.work()
	return r
}

// Resolve returns a loaded font for want. Missing fonts never fail; the
// only errors are ctx cancellation and ErrClosed.
func (r *Resolver) Resolve(ctx context.Context, want Name) (Name, error) {
	if err := ctx.Err(); err != nil {
		return Name{}, err
	}
	select {
	case <-r.done:
		return Name{}, ErrClosed
	default:
	}

	req := request{ctx: ctx, want: want, reply: make(chan Name, 1)}
	select {
	case r.requests <- req:
	case <-ctx.Done():
		return Name{}, ctx.Err()
	case <-r.done:
		return Name{}, ErrClosed
	}

	select {
	case got := <-req.reply:
		return got, nil
	case <-ctx.Done():
		return Name{}, ctx.Err()
	}
}

// Close stops the worker. Pending and later calls to Resolve fail with
// ErrClosed.
func (r *Resolver) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

func (r *Resolver) work() {
	for {
		select {
		case req := <-r.requests:
			req.reply <- r.resolve(req.ctx, req.want)
		case <-r.done:
			return
		}
	}
}

func (r *Resolver) resolve(ctx context.Context, want Name) Name {
	if got, ok := r.resolved[want]; ok {
		return got
	}

	got, ok := r.first(ctx, want.Family, Candidates(want.Style))
	if !ok {
		fallback := Name{Family: r.defaultFamily, Style: "Regular"}
		if r.load(ctx, fallback) {
			got = fallback
		} else {
			got = r.loader.DefaultFont()
			r.load(ctx, got)
		}
		r.logWarn("font %q unavailable, using %q", want, got)
	}
	if ctx.Err() == nil {
		r.resolved[want] = got
	}
	return got
}

func (r *Resolver) first(ctx context.Context, family string, styles []string) (Name, bool) {
	for _, style := range styles {
		n := Name{Family: family, Style: style}
		if r.load(ctx, n) {
			return n, true
		}
	}
	return Name{}, false
}

// load loads n once and remembers the outcome. Failures of a cancelled
// request are not remembered.
func (r *Resolver) load(ctx context.Context, n Name) bool {
	if ok, seen := r.loaded[n]; seen {
		return ok
	}
	ok := r.loader.LoadFont(ctx, n) == nil
	if ok || ctx.Err() == nil {
		r.loaded[n] = ok
	}
	return ok
}

func (r *Resolver) logWarn(f string, a ...any) {
	if r.log != nil {
		r.log.Warnf(f, a...)
	}
}
