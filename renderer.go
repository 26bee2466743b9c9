package mdview

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/alnah/go-mdview/internal/browser"
	"github.com/alnah/go-mdview/internal/page"
	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/source"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GomarkdownConverter)(nil)
	_ Document                      = (*page.Page)(nil)
	_ livePage                      = (*browser.Page)(nil)
)

// livePage is a browser page that can be read back and printed.
type livePage interface {
	Document
	HTML() (string, error)
	PDF() ([]byte, error)
	Close() error
}

// pageOpener loads page documents into a browser.
type pageOpener interface {
	Open(ctx context.Context, document string) (livePage, error)
	Close() error
}

// rodOpener adapts browser.Browser to pageOpener.
type rodOpener struct {
	browser *browser.Browser
}

func (o *rodOpener) Open(ctx context.Context, document string) (livePage, error) {
	p, err := o.browser.Open(ctx, document)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (o *rodOpener) Close() error {
	return o.browser.Close()
}

// rendererConfig holds options resolved by NewRenderer.
type rendererConfig struct {
	timeout         time.Duration
	client          *http.Client
	engine          string
	customConverter bool
	style           string
	highlightStyle  string
	template        string
	assetPath       string
	rawHTML         bool
	strictDecode    bool
	maxBodySize     int64
	userAgent       string
	rewriteLinks    bool
}

// Renderer loads markdown attachments and renders them into output surfaces.
// Create with NewRenderer, and Close when done if RenderPDF was used.
type Renderer struct {
	cfg          rendererConfig
	logger       *log.Logger
	assets       AssetLoader
	resolver     *source.Resolver
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	converterErr error
	css          string
	template     string
	opener       pageOpener
}

// NewRenderer creates a Renderer with default configuration.
// Returns an error if the asset path, style or template cannot be loaded.
// An unknown engine is not an error here: renders report
// ErrConverterUnavailable once the source is resolved.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:        defaultTimeout,
			style:          DefaultStyle,
			highlightStyle: pipeline.DefaultHighlightStyle,
			template:       DefaultTemplate,
			rawHTML:        true,
		},
		logger:       log.New(os.Stderr, "mdview: ", 0),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.assets == nil {
		loader, err := NewAssetLoader(r.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		r.assets = loader
	}

	if err := r.loadAssets(); err != nil {
		return nil, err
	}

	if !r.cfg.customConverter {
		r.converter, r.converterErr = pipeline.NewConverter(r.cfg.engine, pipeline.ConverterOptions{
			RawHTML:        r.cfg.rawHTML,
			HighlightStyle: r.cfg.highlightStyle,
		})
	}

	client := r.cfg.client
	if client == nil {
		client = source.NewHTTPClient(r.cfg.timeout)
	}
	r.resolver = source.NewResolver(
		source.WithHTTPClient(client),
		source.WithLogger(r.logger),
		source.WithStrictDecode(r.cfg.strictDecode),
		source.WithMaxBodySize(r.cfg.maxBodySize),
		source.WithUserAgent(r.cfg.userAgent),
	)

	if r.opener == nil {
		r.opener = &rodOpener{browser: browser.New(r.cfg.timeout)}
	}

	return r, nil
}

// loadAssets resolves the page template and the combined page CSS.
func (r *Renderer) loadAssets() error {
	tmpl, err := r.assets.LoadTemplate(r.cfg.template)
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	r.template = tmpl

	if r.cfg.style != "" {
		css, err := r.assets.LoadStyle(r.cfg.style)
		if err != nil {
			return fmt.Errorf("loading style: %w", err)
		}
		r.css = css
	}

	highlight, err := pipeline.HighlightCSS(r.cfg.highlightStyle)
	if err != nil {
		return err
	}
	if r.css != "" {
		r.css += "\n"
	}
	r.css += highlight
	return nil
}

// Engines lists the markdown engines accepted by WithEngine.
func Engines() []string {
	return pipeline.Engines()
}

// Render resolves the markdown source described by in and writes the result
// into the SurfaceID element of doc.
//
// The surface shows LoadingHTML while the source loads, then the rendered
// HTML or an error message. Errors never escape: they are logged and
// reported in the Result. If doc has no surface nothing is written and the
// State is StateNoSurface.
func (r *Renderer) Render(ctx context.Context, doc Document, in Input) (res *Result) {
	var surface Surface
	var ok bool
	if doc != nil {
		surface, ok = doc.Lookup(SurfaceID)
	}
	if !ok {
		r.logger.Printf("element #%s not found", SurfaceID)
		return &Result{State: StateNoSurface}
	}

	var att Attachment
	defer func() {
		if rec := recover(); rec != nil {
			res = r.fail(surface, att, fmt.Errorf("internal error: %v", rec))
		}
	}()

	if err := surface.SetInnerHTML(LoadingHTML); err != nil {
		return r.fail(surface, att, err)
	}

	content, att, err := r.load(ctx, in)
	if err != nil {
		return r.fail(surface, att, err)
	}

	if err := surface.SetInnerHTML(content); err != nil {
		return r.fail(surface, att, err)
	}

	return &Result{State: StateRendered, Content: content, Name: att.Name, URL: att.URL}
}

// load resolves the source and converts it to HTML. The returned attachment
// is set as soon as one is selected.
func (r *Renderer) load(ctx context.Context, in Input) (string, Attachment, error) {
	attachments := in.Attachments
	if attachments == nil {
		attachments = DefaultAttachments()
	}

	doc, err := r.resolver.Resolve(ctx, attachments, in.Location)
	if err != nil {
		att, _ := source.Select(attachments, in.Location)
		return "", att, err
	}
	att := Attachment{Name: doc.Name, URL: doc.URL}

	if r.converter == nil {
		if r.converterErr != nil {
			return "", att, r.converterErr
		}
		return "", att, ErrConverterUnavailable
	}

	md := r.preprocessor.PreprocessMarkdown(ctx, doc.Text)
	content, err := r.converter.ToHTML(ctx, md)
	if err != nil {
		return "", att, err
	}

	if r.cfg.rewriteLinks && doc.Base != nil {
		content, err = pipeline.RewriteRelativeURLs(content, doc.Base)
		if err != nil {
			return "", att, fmt.Errorf("rewriting links: %w", err)
		}
	}

	return content, att, nil
}

// fail logs err and replaces the surface content with an error message.
func (r *Renderer) fail(surface Surface, att Attachment, err error) *Result {
	r.logger.Printf("error rendering markdown: %v", err)

	msg := ErrorHTML(err)
	if setErr := surface.SetInnerHTML(msg); setErr != nil {
		r.logger.Printf("writing error message: %v", setErr)
	}
	return &Result{State: StateFailed, Content: msg, Err: err, Name: att.Name, URL: att.URL}
}

// ErrorHTML formats err as shown in the output surface.
func ErrorHTML(err error) string {
	return "<p>Error loading content: " + html.EscapeString(err.Error()) + "</p>"
}

// RenderPage renders into a page built from the configured template and
// style and returns the complete document. The error is non-nil only if the
// template cannot be parsed; render failures are reported in the Result and
// shown in the page.
func (r *Renderer) RenderPage(ctx context.Context, in Input) (*PageResult, error) {
	p, err := r.newPage()
	if err != nil {
		return nil, err
	}

	res := r.Render(ctx, p, in)
	if res.Name != "" {
		p.SetTitle(res.Name)
	}
	return &PageResult{Result: res, HTML: p.String()}, nil
}

// RenderPDF renders into a headless Chrome page built from the configured
// template and style, then prints it. Render failures still produce a PDF
// showing the error message; the error is non-nil when the browser fails.
func (r *Renderer) RenderPDF(ctx context.Context, in Input) (*PDFResult, error) {
	p, err := r.newPage()
	if err != nil {
		return nil, err
	}

	live, err := r.opener.Open(ctx, p.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = live.Close() }()

	res := r.Render(ctx, live, in)

	doc, err := live.HTML()
	if err != nil {
		return nil, err
	}
	pdf, err := live.PDF()
	if err != nil {
		return nil, err
	}
	return &PDFResult{Result: res, HTML: doc, PDF: pdf}, nil
}

// newPage parses the template and injects the page CSS.
func (r *Renderer) newPage() (*page.Page, error) {
	p, err := page.Parse(r.template)
	if err != nil {
		return nil, err
	}
	p.InjectCSS(r.css)
	return p, nil
}

// Close releases the headless browser, if one was started.
func (r *Renderer) Close() error {
	if r.opener != nil {
		return r.opener.Close()
	}
	return nil
}
