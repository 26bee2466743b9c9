package main

import (
	"errors"
	"os"

	mdview "github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
)

// Exit codes for the mdview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document rendered
	ExitGeneral = 1 // Render failed or unexpected error
	ExitUsage   = 2 // Invalid flags, config, or assets
	ExitIO      = 3 // Local file or network errors
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdview.ErrBrowserConnect) ||
		errors.Is(err, mdview.ErrPageCreate) ||
		errors.Is(err, mdview.ErrPageLoad) ||
		errors.Is(err, mdview.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadAttachments) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, mdview.ErrFetch) ||
		errors.Is(err, mdview.ErrBodyTooLarge) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdview.ErrStyleNotFound) ||
		errors.Is(err, mdview.ErrTemplateNotFound) ||
		errors.Is(err, mdview.ErrInvalidAssetPath) ||
		errors.Is(err, mdview.ErrInvalidAssetName) ||
		errors.Is(err, mdview.ErrInvalidLocation) ||
		errors.Is(err, mdview.ErrSourceNotFound) ||
		errors.Is(err, mdview.ErrConverterUnavailable) ||
		errors.Is(err, ErrNoSurface) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
