package mdview

import (
	"errors"

	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/browser"
	"github.com/alnah/go-mdview/internal/dataurl"
	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/source"
)

// Sentinel errors for source resolution.
var (
	ErrInvalidDataURL  = dataurl.ErrInvalidDataURL
	ErrDecode          = dataurl.ErrDecode
	ErrUnsupportedMIME = source.ErrUnsupportedMIME
	ErrSourceNotFound  = source.ErrSourceNotFound
	ErrFetch           = source.ErrFetch
	ErrBodyTooLarge    = source.ErrBodyTooLarge
	ErrInvalidLocation = source.ErrInvalidLocation
)

// Sentinel errors for rendering.
var (
	ErrConverterUnavailable = pipeline.ErrConverterUnavailable
	ErrHTMLConversion       = pipeline.ErrHTMLConversion
	ErrBrowserConnect       = browser.ErrBrowserConnect
	ErrPageCreate           = browser.ErrPageCreate
	ErrPageLoad             = browser.ErrPageLoad
	ErrPDFGeneration        = browser.ErrPDFGeneration
)

// Asset loading errors.
var (
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrInvalidAssetName = assets.ErrInvalidAssetName
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// FetchError reports a non-success HTTP response; it matches ErrFetch.
type FetchError = source.FetchError
