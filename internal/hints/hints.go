// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdview/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the fetch timeout.
func ForTimeout() string {
	return format("for slow servers, use --timeout flag")
}

// ForFetchStatus returns a hint matching an HTTP status from a failed fetch.
func ForFetchStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return format("check the attachment URL; relative URLs resolve against --location")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return format("the server refused access (" + strconv.Itoa(status) + "); the URL may need credentials")
	case status >= 500:
		return format("server error; try again later")
	default:
		return ""
	}
}

// ForSourceNotFound returns hints when no attachment could be selected.
func ForSourceNotFound() string {
	return format("pass an attachment URL, use --attachments, or remove the empty attachment list")
}

// ForUnsupportedMIME returns hints for data URLs with a non-text media type.
func ForUnsupportedMIME() string {
	return format("use data:text/markdown;base64,... or data:text/plain,...")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdview/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdview") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output file creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAvailable returns a hint listing valid names, used for unknown styles,
// templates and engines.
func ForAvailable(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
