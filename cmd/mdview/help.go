package main

import (
	"fmt"
	"io"
	"strings"

	mdview "github.com/alnah/go-mdview"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render a markdown attachment into an HTML page or PDF")
	fmt.Fprintln(w, "  assets     List built-in styles, templates and engines")
	fmt.Fprintln(w, "  doctor     Check rendering, Chrome and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdview help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview render [attachment...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one markdown attachment into the #"+mdview.SurfaceID+" element of a page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  attachment    data: URL, http(s) URL, or local path. Without any,")
	fmt.Fprintln(w, "                --attachments or the config list is used, else a built-in sample.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "  -a, --attachments <path>  YAML or JSON attachment list")
	fmt.Fprintln(w, "  -s, --select <s>          Attachment URL or name (sets ?url= on the location)")
	fmt.Fprintln(w, "  -l, --location <url>      Page location (default: file://<cwd>/)")
	fmt.Fprintln(w, "      --inline              Embed local files as data URLs")
	fmt.Fprintln(w, "      --strict-decode       Fail on invalid base64 instead of rendering nothing")
	fmt.Fprintln(w, "      --user-agent <s>      User-Agent header for fetches")
	fmt.Fprintln(w, "  -t, --timeout <d>         Fetch and page load timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <s>          Markdown engine: "+strings.Join(mdview.Engines(), ", "))
	fmt.Fprintln(w, "      --no-raw-html         Drop raw HTML embedded in markdown")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style for code blocks")
	fmt.Fprintln(w, "      --rewrite-links       Resolve relative links against the document URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --style <s>           CSS style: "+strings.Join(mdview.Styles(), ", "))
	fmt.Fprintln(w, "      --template <s>        Page template: "+strings.Join(mdview.Templates(), ", "))
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory (styles/, templates/)")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       HTML output file (default: stdout)")
	fmt.Fprintln(w, "      --pdf <path>          Print the page to PDF with headless Chrome")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Log loading and rendering")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "assets":
		fmt.Fprintln(env.Stdout, "Usage: mdview assets")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List built-in styles, templates and markdown engines.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdview doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Render the built-in sample and check Chrome, container/CI and temp directory.")
		fmt.Fprintln(env.Stdout, "A missing Chrome only disables --pdf and is reported as a warning.")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Flags:")
		fmt.Fprintln(env.Stdout, "      --json    Output as JSON")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

// runAssets lists what the render command accepts by name.
func runAssets(env *Environment) int {
	fmt.Fprintf(env.Stdout, "styles:    %s\n", strings.Join(mdview.Styles(), ", "))
	fmt.Fprintf(env.Stdout, "templates: %s\n", strings.Join(mdview.Templates(), ", "))
	fmt.Fprintf(env.Stdout, "engines:   %s\n", strings.Join(mdview.Engines(), ", "))
	return ExitSuccess
}
