package mdview

import (
	"log"
	"net/http"
	"time"

	"github.com/alnah/go-mdview/internal/page"
	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/source"
)

// SurfaceID is the id of the element that receives rendered markdown.
const SurfaceID = "markdown-output"

// LoadingHTML is shown in the surface while the source loads.
const LoadingHTML = "<p>Loading markdown content...</p>"

// Markdown engines.
const (
	EngineGoldmark   = pipeline.EngineGoldmark
	EngineGomarkdown = pipeline.EngineGomarkdown
)

// Attachment is a named markdown source: a data URL or a fetchable URL.
type Attachment = source.Attachment

// Surface is an element whose content can be replaced.
type Surface = page.Surface

// Document looks up output surfaces by element id.
type Document = page.Document

// HTMLConverter turns markdown into an HTML fragment.
type HTMLConverter = pipeline.HTMLConverter

// fallbackURL encodes "hello\n# Title".
const fallbackURL = "data:text/markdown;base64,aGVsbG8KIyBUaXRsZQ=="

// DefaultAttachments returns the list used when Input.Attachments is nil.
func DefaultAttachments() []Attachment {
	return []Attachment{{Name: "input.md", URL: fallbackURL}}
}

// Input holds the per-render environment.
type Input struct {
	// Attachments lists candidate sources. nil selects DefaultAttachments;
	// an empty non-nil slice has nothing to select.
	Attachments []Attachment

	// Location is the address of the viewing page. Its "url" query
	// parameter picks an attachment, and relative attachment URLs resolve
	// against it.
	Location string
}

// State is the outcome of a render.
type State int

const (
	// StateNoSurface means the document has no output element; nothing was written.
	StateNoSurface State = iota
	// StateRendered means the surface holds the converted markdown.
	StateRendered
	// StateFailed means the surface holds an error message.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNoSurface:
		return "no-surface"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes what Render wrote.
type Result struct {
	State   State
	Content string // HTML written to the surface, empty for StateNoSurface
	Err     error  // set for StateFailed

	// Name and URL identify the selected attachment, when one was selected.
	Name string
	URL  string
}

// PageResult is the outcome of RenderPage.
type PageResult struct {
	*Result
	HTML string // full page document
}

// PDFResult is the outcome of RenderPDF.
type PDFResult struct {
	*Result
	HTML string // final DOM of the browser page
	PDF  []byte
}

// Option configures a Renderer.
type Option func(*Renderer)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithLogger sets the logger for diagnostics. Use log.New(io.Discard, "", 0)
// to silence them.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout sets the fetch and page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdview: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithHTTPClient sets the client used to fetch non-data URLs. The client's
// own timeout applies instead of WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Renderer) {
		r.cfg.client = c
	}
}

// WithEngine selects a registered markdown engine by name. An unknown name
// makes every render fail with ErrConverterUnavailable.
func WithEngine(name string) Option {
	return func(r *Renderer) {
		r.cfg.engine = name
	}
}

// WithConverter sets the markdown converter, overriding WithEngine.
// A nil converter makes every render fail with ErrConverterUnavailable.
func WithConverter(c HTMLConverter) Option {
	return func(r *Renderer) {
		r.converter = c
		r.cfg.customConverter = true
	}
}

// WithStyle sets the page style by name. An empty name disables styling.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.style = name
	}
}

// WithHighlightStyle sets the chroma style used for code blocks.
func WithHighlightStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.highlightStyle = name
	}
}

// WithTemplate sets the page template by name.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		r.cfg.template = name
	}
}

// WithAssetPath loads styles and templates from a directory first, falling
// back to the built-in ones.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(r *Renderer) {
		r.assets = l
	}
}

// WithRawHTML controls whether raw HTML embedded in markdown reaches the
// surface unchanged. Enabled by default; when disabled goldmark replaces it
// with a comment and gomarkdown drops it.
func WithRawHTML(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.rawHTML = enabled
	}
}

// WithStrictDecode makes invalid base64 in data URLs an error instead of an
// empty document.
func WithStrictDecode(strict bool) Option {
	return func(r *Renderer) {
		r.cfg.strictDecode = strict
	}
}

// WithMaxBodySize limits the size of fetched documents.
func WithMaxBodySize(n int64) Option {
	return func(r *Renderer) {
		r.cfg.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header of fetch requests.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		r.cfg.userAgent = ua
	}
}

// WithLinkRewrite controls whether relative links and images in fetched
// documents are resolved against the document URL. Disabled by default, so
// the converter output is written as is.
func WithLinkRewrite(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.rewriteLinks = enabled
	}
}
