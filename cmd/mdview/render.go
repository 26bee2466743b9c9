package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	mdview "github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/dataurl"
	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/hints"
	"github.com/alnah/go-mdview/internal/yamlutil"
)

// Sentinel errors for the render command.
var (
	ErrReadMarkdown    = errors.New("failed to read markdown file")
	ErrReadAttachments = errors.New("failed to read attachment list")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrNoSurface       = errors.New("template has no #" + mdview.SurfaceID + " element")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrRenderFailed    = errors.New("render failed")
)

// styleNone in page.style disables styling.
const styleNone = "none"

// runRender renders the selected attachment and writes the page (and PDF).
// A failed render still writes the page showing the error message.
func runRender(ctx context.Context, positional []string, flags *viewFlags, env *Environment) error {
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	envCfg := loadEnvConfig()

	cfg, err := resolveConfig(flags.common.config, envCfg.ConfigPath, env.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg)
	if err != nil {
		return err
	}

	listPath := flags.source.attachments
	if listPath == "" {
		listPath = envCfg.Attachments
	}
	in, err := buildInput(positional, listPath, flags.source, cfg, env)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if flags.common.verbose {
		logger = log.New(env.Stderr, "mdview: ", 0)
	}

	r, err := mdview.NewRenderer(buildOptions(cfg, timeout, logger)...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	start := time.Now()
	res, document, err := render(ctx, r, in, cfg.Output.PDF)
	if err != nil {
		return err
	}

	if err := writeHTML(document, cfg.Output, env.Stdout); err != nil {
		return err
	}

	switch res.State {
	case mdview.StateNoSurface:
		return ErrNoSurface
	case mdview.StateFailed:
		return fmt.Errorf("%w: %w", ErrRenderFailed, res.Err)
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "rendered %s -> %s\n", displayName(res), destination(cfg.Output))
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "done in %s\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// render produces the page document, printing it to pdfPath when set.
func render(ctx context.Context, r *mdview.Renderer, in mdview.Input, pdfPath string) (*mdview.Result, string, error) {
	if pdfPath == "" {
		res, err := r.RenderPage(ctx, in)
		if err != nil {
			return nil, "", err
		}
		return res.Result, res.HTML, nil
	}

	res, err := r.RenderPDF(ctx, in)
	if err != nil {
		return nil, "", err
	}
	if err := os.WriteFile(pdfPath, res.PDF, 0o644); err != nil { // #nosec G306 -- output is meant to be shared
		return nil, "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return res.Result, res.HTML, nil
}

// writeHTML writes the page to out.Path, or to stdout unless a PDF was
// requested.
func writeHTML(document string, out config.OutputConfig, stdout io.Writer) error {
	if out.Path == "" {
		if out.PDF != "" {
			return nil
		}
		if _, err := io.WriteString(stdout, document); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := os.WriteFile(out.Path, []byte(document), 0o644); err != nil { // #nosec G306 -- output is meant to be shared
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// resolveConfig loads the named config (flag > env), or returns the
// environment default.
func resolveConfig(flagName, envName string, fallback *config.Config) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		if fallback == nil {
			return config.DefaultConfig(), nil
		}
		cfg := *fallback
		return &cfg, nil
	}
	return config.LoadConfig(name)
}

// mergeFlags overrides config values with explicitly set flags.
func mergeFlags(flags *viewFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.Path = flags.output
	}
	if flags.pdf != "" {
		cfg.Output.PDF = flags.pdf
	}
	if flags.source.location != "" {
		cfg.Input.Location = flags.source.location
	}
	if flags.source.strict {
		cfg.Decode.Strict = true
	}
	if flags.source.userAgent != "" {
		cfg.Fetch.UserAgent = flags.source.userAgent
	}
	if flags.render.engine != "" {
		cfg.Render.Engine = flags.render.engine
	}
	if flags.render.noRawHTML {
		disabled := false
		cfg.Render.RawHTML = &disabled
	}
	if flags.render.highlightStyle != "" {
		cfg.Render.HighlightStyle = flags.render.highlightStyle
	}
	if flags.render.rewriteLinks {
		cfg.Render.RewriteLinks = true
	}
	if flags.assets.style != "" {
		cfg.Page.Style = flags.assets.style
	}
	if flags.assets.noStyle {
		cfg.Page.Style = styleNone
	}
	if flags.assets.template != "" {
		cfg.Page.Template = flags.assets.template
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// buildOptions translates config into renderer options.
func buildOptions(cfg *config.Config, timeout time.Duration, logger *log.Logger) []mdview.Option {
	opts := []mdview.Option{
		mdview.WithLogger(logger),
		mdview.WithTimeout(timeout),
		mdview.WithRawHTML(cfg.Render.RawHTMLEnabled()),
		mdview.WithStrictDecode(cfg.Decode.Strict),
		mdview.WithLinkRewrite(cfg.Render.RewriteLinks),
	}
	if cfg.Render.Engine != "" {
		opts = append(opts, mdview.WithEngine(cfg.Render.Engine))
	}
	if cfg.Render.HighlightStyle != "" {
		opts = append(opts, mdview.WithHighlightStyle(cfg.Render.HighlightStyle))
	}
	switch cfg.Page.Style {
	case "":
	case styleNone:
		opts = append(opts, mdview.WithStyle(""))
	default:
		opts = append(opts, mdview.WithStyle(cfg.Page.Style))
	}
	if cfg.Page.Template != "" {
		opts = append(opts, mdview.WithTemplate(cfg.Page.Template))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdview.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Fetch.MaxBytes > 0 {
		opts = append(opts, mdview.WithMaxBodySize(cfg.Fetch.MaxBytes))
	}
	if cfg.Fetch.UserAgent != "" {
		opts = append(opts, mdview.WithUserAgent(cfg.Fetch.UserAgent))
	}
	return opts
}

// buildInput assembles the attachment list and page location.
// Attachments come from arguments, else the list file, else the config;
// none at all leaves the list nil so the built-in sample is shown.
func buildInput(args []string, listPath string, src sourceFlags, cfg *config.Config, env *Environment) (mdview.Input, error) {
	var attachments []mdview.Attachment
	switch {
	case len(args) > 0:
		attachments = make([]mdview.Attachment, 0, len(args))
		for i, arg := range args {
			att, err := attachmentFromArg(arg, i, src.inline)
			if err != nil {
				return mdview.Input{}, err
			}
			attachments = append(attachments, att)
		}
	case listPath != "":
		list, err := readAttachments(listPath)
		if err != nil {
			return mdview.Input{}, err
		}
		attachments = list
	case len(cfg.Input.Attachments) > 0:
		for _, a := range cfg.Input.Attachments {
			attachments = append(attachments, mdview.Attachment{Name: a.Name, URL: a.URL})
		}
	}

	location := cfg.Input.Location
	if location == "" {
		wd, err := env.Getwd()
		if err != nil {
			return mdview.Input{}, fmt.Errorf("resolving working directory: %w", err)
		}
		location, err = fileutil.FileURL(wd + string(filepath.Separator))
		if err != nil {
			return mdview.Input{}, err
		}
	}

	if src.selectURL != "" {
		var err error
		location, err = withSelection(location, selectionURL(src.selectURL, attachments))
		if err != nil {
			return mdview.Input{}, err
		}
	}

	return mdview.Input{Attachments: attachments, Location: location}, nil
}

// attachmentFromArg turns a command-line argument into an attachment.
// Local paths stay relative so they resolve against the location; with
// inline they are read now and embedded as data URLs.
func attachmentFromArg(arg string, index int, inline bool) (mdview.Attachment, error) {
	if fileutil.IsURL(arg) {
		return mdview.Attachment{Name: nameFromURL(arg, index), URL: arg}, nil
	}

	name := filepath.Base(arg)
	if inline {
		content, err := os.ReadFile(arg) // #nosec G304 -- path is user-provided by design
		if err != nil {
			return mdview.Attachment{}, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		}
		return mdview.Attachment{Name: name, URL: dataurl.Encode("text/markdown", string(content))}, nil
	}

	if filepath.IsAbs(arg) {
		u, err := fileutil.FileURL(arg)
		if err != nil {
			return mdview.Attachment{}, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		}
		return mdview.Attachment{Name: name, URL: u}, nil
	}
	return mdview.Attachment{Name: name, URL: filepath.ToSlash(arg)}, nil
}

// nameFromURL derives a display name from the last path segment.
func nameFromURL(raw string, index int) string {
	if !dataurl.IsDataURL(raw) {
		if u, err := url.Parse(raw); err == nil {
			if base := path.Base(u.Path); base != "." && base != "/" {
				return base
			}
		}
	}
	return fmt.Sprintf("attachment-%d.md", index+1)
}

// readAttachments loads a YAML or JSON list of {name, url} entries. Lists
// are often exported by other tools, so fields beyond name and url (size,
// contentType, ...) are ignored.
func readAttachments(listPath string) ([]mdview.Attachment, error) {
	var list []mdview.Attachment
	if err := yamlutil.ReadFile(listPath, &list, false); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadAttachments, listPath, err)
	}
	if list == nil {
		list = []mdview.Attachment{}
	}
	return list, nil
}

// selectionURL maps an attachment name to its URL; other values are used
// as given.
func selectionURL(value string, attachments []mdview.Attachment) string {
	for _, a := range attachments {
		if a.URL == value {
			return value
		}
	}
	for _, a := range attachments {
		if a.Name == value {
			return a.URL
		}
	}
	return value
}

// withSelection sets the "url" query parameter of location.
func withSelection(location, selected string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", mdview.ErrInvalidLocation, err)
	}
	q := u.Query()
	q.Set("url", selected)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func displayName(res *mdview.Result) string {
	if res == nil || res.Name == "" {
		return "document"
	}
	return res.Name
}

func destination(out config.OutputConfig) string {
	var dest []string
	if out.Path != "" {
		dest = append(dest, out.Path)
	}
	if out.PDF != "" {
		dest = append(dest, out.PDF)
	}
	if len(dest) == 0 {
		return "stdout"
	}
	return strings.Join(dest, ", ")
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var fetchErr *mdview.FetchError
	switch {
	case errors.Is(err, mdview.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, mdview.ErrPageLoad):
		return hints.ForTimeout()
	case errors.As(err, &fetchErr):
		return hints.ForFetchStatus(fetchErr.StatusCode)
	case errors.Is(err, mdview.ErrSourceNotFound):
		return hints.ForSourceNotFound()
	case errors.Is(err, mdview.ErrUnsupportedMIME):
		return hints.ForUnsupportedMIME()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, mdview.ErrStyleNotFound):
		return hints.ForAvailable(mdview.Styles())
	case errors.Is(err, mdview.ErrTemplateNotFound):
		return hints.ForAvailable(mdview.Templates())
	case errors.Is(err, mdview.ErrConverterUnavailable):
		return hints.ForAvailable(mdview.Engines())
	}
	return ""
}

// triedPaths extracts the searched locations from a config lookup error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
