// Package source selects the attachment to render and loads its markdown text.
//
// Data URLs are decoded locally; every other URL is fetched with an HTTP
// client. Relative URLs resolve against the page location, as a browser
// fetch would.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/alnah/go-mdview/internal/dataurl"
)

// SelectParam is the query parameter of the page location that picks an
// attachment by URL.
const SelectParam = "url"

// Defaults for fetching remote documents.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxBodySize = 10 << 20
	DefaultUserAgent   = "go-mdview"
)

// Sentinel errors for source resolution.
var (
	ErrSourceNotFound  = errors.New("no valid markdown source found")
	ErrUnsupportedMIME = errors.New("invalid MIME type for markdown")
	ErrFetch           = errors.New("failed to fetch markdown")
	ErrBodyTooLarge    = errors.New("markdown response exceeds size limit")
	ErrInvalidLocation = errors.New("invalid page location")
)

// FetchError reports a non-success HTTP response.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %d", ErrFetch, e.StatusCode)
}

// Is makes errors.Is(err, ErrFetch) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// Attachment is a named reference to markdown content.
type Attachment struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Document is the markdown text of the selected attachment.
type Document struct {
	Name string
	URL  string   // attachment URL as configured
	Base *url.URL // absolute URL the text was loaded from, nil for data URLs
	Text string
}

// Resolver loads the markdown text of an attachment.
type Resolver struct {
	client      *http.Client
	logger      *log.Logger
	strict      bool
	maxBodySize int64
	userAgent   string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for non-data URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithLogger sets the logger for decode diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStrictDecode makes base64 decode failures an error instead of an
// empty document.
func WithStrictDecode(strict bool) Option {
	return func(r *Resolver) {
		r.strict = strict
	}
}

// WithMaxBodySize limits the number of bytes read from a fetched response.
// Non-positive values keep the default.
func WithMaxBodySize(n int64) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxBodySize = n
		}
	}
}

// WithUserAgent sets the User-Agent header of fetch requests.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// NewResolver creates a Resolver. The default client has DefaultTimeout and
// understands file:// URLs.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client:      NewHTTPClient(DefaultTimeout),
		logger:      log.Default(),
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewHTTPClient returns a client with the given timeout whose transport also
// serves file:// URLs from the local filesystem.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Select returns the attachment to render: the first one whose URL equals
// the location's url parameter, or the first one when the parameter is
// absent or empty.
func Select(attachments []Attachment, location string) (Attachment, error) {
	param, err := selectParam(location)
	if err != nil {
		return Attachment{}, err
	}

	if param == "" {
		if len(attachments) == 0 {
			return Attachment{}, ErrSourceNotFound
		}
		return attachments[0], nil
	}

	for _, a := range attachments {
		if a.URL == param {
			return a, nil
		}
	}
	return Attachment{}, fmt.Errorf("%w: no attachment matches %q", ErrSourceNotFound, param)
}

// Resolve selects an attachment and loads its markdown text.
// Fetching blocks until the response is read or ctx is done.
func (r *Resolver) Resolve(ctx context.Context, attachments []Attachment, location string) (*Document, error) {
	att, err := Select(attachments, location)
	if err != nil {
		return nil, err
	}

	if dataurl.IsDataURL(att.URL) {
		text, err := r.decode(att.URL)
		if err != nil {
			return nil, err
		}
		return &Document{Name: att.Name, URL: att.URL, Text: text}, nil
	}

	target, err := resolveReference(location, att.URL)
	if err != nil {
		return nil, err
	}

	text, err := r.fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return &Document{Name: att.Name, URL: att.URL, Base: target, Text: text}, nil
}

// decode turns a data URL into text.
func (r *Resolver) decode(raw string) (string, error) {
	parsed, err := dataurl.Parse(raw)
	if err != nil {
		return "", err
	}

	if !parsed.IsText() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMIME, parsed.MIME)
	}

	if !parsed.Base64 {
		return dataurl.DecodePercent(parsed.Payload)
	}
	if r.strict {
		return dataurl.DecodeBase64Strict(parsed.Payload)
	}
	return dataurl.DecodeBase64(parsed.Payload, r.logger), nil
}

// fetch GETs target and returns the body as text.
func (r *Resolver) fetch(ctx context.Context, target *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: target.String(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrFetch, err)
	}
	if int64(len(body)) > r.maxBodySize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, r.maxBodySize)
	}
	return string(body), nil
}

// selectParam extracts the url query parameter from a page location.
func selectParam(location string) (string, error) {
	if location == "" {
		return "", nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	return u.Query().Get(SelectParam), nil
}

// resolveReference resolves ref against location when location is absolute.
func resolveReference(location, ref string) (*url.URL, error) {
	target, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if target.IsAbs() || location == "" {
		return target, nil
	}

	base, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if !base.IsAbs() {
		return target, nil
	}
	return base.ResolveReference(target), nil
}
