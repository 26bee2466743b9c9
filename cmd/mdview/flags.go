package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags select and load the markdown source.
type sourceFlags struct {
	attachments string // YAML or JSON attachment list
	selectURL   string // Value of the location's "url" parameter
	location    string // Page location
	inline      bool   // Embed local files as data URLs
	strict      bool   // Fail on invalid base64
	userAgent   string
}

// renderFlags control markdown conversion.
type renderFlags struct {
	engine         string
	noRawHTML      bool
	highlightStyle string
	rewriteLinks   bool
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	style     string
	template  string
	assetPath string
	noStyle   bool
}

// viewFlags holds all flags for the render command.
type viewFlags struct {
	common  commonFlags
	output  string
	pdf     string
	timeout string
	source  sourceFlags
	render  renderFlags
	assets  assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log loading and rendering")
}

// addSourceFlags adds source selection flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.attachments, "attachments", "a", "", "YAML or JSON file listing attachments")
	fs.StringVarP(&f.selectURL, "select", "s", "", "attachment URL or name to show")
	fs.StringVarP(&f.location, "location", "l", "", "page location (default: file://<cwd>/)")
	fs.BoolVar(&f.inline, "inline", false, "embed local files as data URLs")
	fs.BoolVar(&f.strict, "strict-decode", false, "fail on invalid base64 data URLs")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent header for fetches")
}

// addRenderFlags adds conversion flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "markdown engine: goldmark, gomarkdown")
	fs.BoolVar(&f.noRawHTML, "no-raw-html", false, "drop raw HTML embedded in markdown")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks")
	fs.BoolVar(&f.rewriteLinks, "rewrite-links", false, "resolve relative links against the document URL")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name")
	fs.StringVar(&f.template, "template", "", "page template name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// parseRenderFlags parses render command flags and returns positional args.
// Usage text goes to usage on -h.
func parseRenderFlags(args []string, usage io.Writer) (*viewFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &viewFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "HTML output file (default: stdout)")
	fs.StringVar(&f.pdf, "pdf", "", "print the page to this PDF file")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "fetch and page load timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addRenderFlags(fs, &f.render)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printRenderUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
