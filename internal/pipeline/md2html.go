package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	gomarkdown "github.com/gomarkdown/markdown"
	gmhtml "github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter engine names.
const (
	EngineGoldmark   = "goldmark"
	EngineGomarkdown = "gomarkdown"
)

// DefaultHighlightStyle is the chroma style used for fenced code blocks.
const DefaultHighlightStyle = "github"

var (
	// ErrHTMLConversion indicates HTML conversion failed.
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// ErrConverterUnavailable indicates no markdown converter is loaded.
	ErrConverterUnavailable = errors.New("markdown converter not loaded")
)

// HTMLConverter abstracts Markdown to HTML conversion.
// Implementations return an HTML fragment, not a full document.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// ConverterOptions tunes the HTML produced by a converter.
type ConverterOptions struct {
	// RawHTML passes inline HTML from the markdown through to the output.
	RawHTML bool
	// HighlightStyle names the chroma style for code blocks (goldmark only).
	HighlightStyle string
}

var engines = map[string]func(ConverterOptions) HTMLConverter{
	EngineGoldmark:   func(o ConverterOptions) HTMLConverter { return NewGoldmarkConverter(o) },
	EngineGomarkdown: func(o ConverterOptions) HTMLConverter { return NewGomarkdownConverter(o) },
}

// NewConverter returns the converter registered under engine.
// An empty engine selects goldmark.
func NewConverter(engine string, opts ConverterOptions) (HTMLConverter, error) {
	if engine == "" {
		engine = EngineGoldmark
	}
	build, ok := engines[strings.ToLower(engine)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown engine %q (available: %s)",
			ErrConverterUnavailable, engine, strings.Join(Engines(), ", "))
	}
	return build(opts), nil
}

// Engines lists the registered engine names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter(opts ConverterOptions) *GoldmarkConverter {
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithRendererOptions(
			html.WithXHTML(), // Self-closing tags
		),
	}
	if opts.RawHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // Stylesheet comes from HighlightCSS
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Anchors for in-page links
		),
	}, rendererOpts...)...)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// GomarkdownConverter converts Markdown to HTML using gomarkdown.
// It has no code highlighting; fenced blocks keep a language-* class.
type GomarkdownConverter struct {
	flags gmhtml.Flags
}

// NewGomarkdownConverter creates a GomarkdownConverter with common extensions.
func NewGomarkdownConverter(opts ConverterOptions) *GomarkdownConverter {
	flags := gmhtml.CommonFlags | gmhtml.HrefTargetBlank
	if !opts.RawHTML {
		flags |= gmhtml.SkipHTML
	}
	return &GomarkdownConverter{flags: flags}
}

// ToHTML converts Markdown content to an HTML fragment.
func (c *GomarkdownConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Parsers keep state between calls, so each conversion gets a fresh one.
	p := gmparser.NewWithExtensions(gmparser.CommonExtensions | gmparser.AutoHeadingIDs | gmparser.Footnotes)
	renderer := gmhtml.NewRenderer(gmhtml.RendererOptions{Flags: c.flags})
	out := gomarkdown.ToHTML([]byte(content), p, renderer)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(out), nil
}

// HighlightCSS returns the chroma stylesheet matching class-based highlighting.
// Unknown style names fall back to chroma's default style.
func HighlightCSS(style string) (string, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
