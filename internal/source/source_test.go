package source

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdview/internal/dataurl"
)

// ---------------------------------------------------------------------------
// Select
// ---------------------------------------------------------------------------

func TestSelect(t *testing.T) {
	t.Parallel()

	attachments := []Attachment{
		{Name: "a.md", URL: "https://example.com/a.md"},
		{Name: "b.md", URL: "https://example.com/b.md"},
		{Name: "c.md", URL: "data:text/markdown,c"},
	}

	tests := []struct {
		name     string
		location string
		want     string
	}{
		{name: "no location picks first", location: "", want: "a.md"},
		{name: "location without param picks first", location: "https://viewer.test/page", want: "a.md"},
		{name: "empty param picks first", location: "https://viewer.test/?url=", want: "a.md"},
		{name: "param selects exact match", location: "https://viewer.test/?url=" + url.QueryEscape("https://example.com/b.md"), want: "b.md"},
		{name: "relative location with param", location: "?url=" + url.QueryEscape("data:text/markdown,c"), want: "c.md"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Select(attachments, tt.location)
			if err != nil {
				t.Fatalf("Select() unexpected error: %v", err)
			}
			if got.Name != tt.want {
				t.Errorf("Select() = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestSelect_NotFound(t *testing.T) {
	t.Parallel()

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		if _, err := Select(nil, ""); !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("error = %v, want ErrSourceNotFound", err)
		}
	})

	t.Run("param matches nothing", func(t *testing.T) {
		t.Parallel()
		attachments := []Attachment{{Name: "a.md", URL: "https://example.com/a.md"}}
		_, err := Select(attachments, "?url=https://example.com/other.md")
		if !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("error = %v, want ErrSourceNotFound", err)
		}
	})

	t.Run("no normalization", func(t *testing.T) {
		t.Parallel()
		attachments := []Attachment{{Name: "a.md", URL: "https://example.com/a.md"}}
		_, err := Select(attachments, "?url="+url.QueryEscape("https://example.com/a.md/"))
		if !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("error = %v, want ErrSourceNotFound", err)
		}
	})
}

func TestSelect_InvalidLocation(t *testing.T) {
	t.Parallel()

	attachments := []Attachment{{Name: "a.md", URL: "data:,a"}}
	if _, err := Select(attachments, "http://[::1"); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("error = %v, want ErrInvalidLocation", err)
	}
}

// ---------------------------------------------------------------------------
// Resolve - data URLs
// ---------------------------------------------------------------------------

func TestResolve_DataURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "base64 markdown", url: "data:text/markdown;base64,aGVsbG8=", want: "hello"},
		{name: "percent encoded", url: "data:text/markdown,%23%20Hi", want: "# Hi"},
		{name: "default mime", url: "data:,plain", want: "plain"},
		{name: "text/plain base64", url: "data:text/plain;base64,aGVsbG8KIyBUaXRsZQ==", want: "hello\n# Title"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewResolver()
			doc, err := r.Resolve(context.Background(), []Attachment{{Name: "in.md", URL: tt.url}}, "")
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if doc.Text != tt.want {
				t.Errorf("Text = %q, want %q", doc.Text, tt.want)
			}
			if doc.Base != nil {
				t.Errorf("Base = %v, want nil for data URL", doc.Base)
			}
			if doc.Name != "in.md" {
				t.Errorf("Name = %q, want %q", doc.Name, "in.md")
			}
		})
	}
}

func TestResolve_UnsupportedMIME(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	_, err := r.Resolve(context.Background(), []Attachment{{URL: "data:image/png;base64,iVBORw0KGgo="}}, "")
	if !errors.Is(err, ErrUnsupportedMIME) {
		t.Errorf("error = %v, want ErrUnsupportedMIME", err)
	}
}

func TestResolve_EmptyAttachments(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	_, err := r.Resolve(context.Background(), []Attachment{}, "")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("error = %v, want ErrSourceNotFound", err)
	}
}

func TestResolve_MalformedDataURL(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	_, err := r.Resolve(context.Background(), []Attachment{{URL: "data:text/markdown"}}, "")
	if !errors.Is(err, dataurl.ErrInvalidDataURL) {
		t.Errorf("error = %v, want ErrInvalidDataURL", err)
	}
}

func TestResolve_InvalidBase64(t *testing.T) {
	t.Parallel()

	t.Run("lenient yields empty text and logs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := NewResolver(WithLogger(log.New(&buf, "", 0)))

		doc, err := r.Resolve(context.Background(), []Attachment{{URL: "data:text/markdown;base64,!!!invalid!!!"}}, "")
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if doc.Text != "" {
			t.Errorf("Text = %q, want empty", doc.Text)
		}
		if !strings.Contains(buf.String(), "base64 decoding failed") {
			t.Errorf("log = %q, want decode failure", buf.String())
		}
	})

	t.Run("strict returns ErrDecode", func(t *testing.T) {
		t.Parallel()

		r := NewResolver(WithStrictDecode(true))
		_, err := r.Resolve(context.Background(), []Attachment{{URL: "data:text/markdown;base64,!!!invalid!!!"}}, "")
		if !errors.Is(err, dataurl.ErrDecode) {
			t.Errorf("error = %v, want ErrDecode", err)
		}
	})
}

func TestResolve_RoundTrip(t *testing.T) {
	t.Parallel()

	docs := []string{
		"hello",
		"# Title\n\nSome *emphasis* and `code`.\n",
		"unicode: Ünïcödé ✓\n",
		"",
	}

	r := NewResolver()
	for _, want := range docs {
		raw := dataurl.Encode("text/markdown", want)
		doc, err := r.Resolve(context.Background(), []Attachment{{URL: raw}}, "")
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", raw, err)
		}
		if doc.Text != want {
			t.Errorf("round trip = %q, want %q", doc.Text, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Resolve - fetched URLs
// ---------------------------------------------------------------------------

func TestResolve_Fetch(t *testing.T) {
	t.Parallel()

	userAgents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/docs/readme.md":
			_, _ = w.Write([]byte("# Remote\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewResolver(WithHTTPClient(srv.Client()), WithUserAgent("mdview-test"))

	doc, err := r.Resolve(context.Background(), []Attachment{{Name: "readme", URL: srv.URL + "/docs/readme.md"}}, "")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if doc.Text != "# Remote\n" {
		t.Errorf("Text = %q, want %q", doc.Text, "# Remote\n")
	}
	if doc.Base == nil || doc.Base.Path != "/docs/readme.md" {
		t.Errorf("Base = %v, want path /docs/readme.md", doc.Base)
	}
	if gotUA := <-userAgents; gotUA != "mdview-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "mdview-test")
	}
}

func TestResolve_FetchStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	r := NewResolver(WithHTTPClient(srv.Client()))
	_, err := r.Resolve(context.Background(), []Attachment{{URL: srv.URL + "/x.md"}}, "")

	if !errors.Is(err, ErrFetch) {
		t.Fatalf("error = %v, want ErrFetch", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error %T is not *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusGone {
		t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, http.StatusGone)
	}
	if !strings.Contains(err.Error(), "410") {
		t.Errorf("message %q should contain status", err.Error())
	}
}

func TestResolve_RelativeToLocation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/site/notes/today.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("today"))
	}))
	defer srv.Close()

	attachments := []Attachment{{Name: "today", URL: "notes/today.md"}}
	location := srv.URL + "/site/viewer.html?url=notes/today.md"

	r := NewResolver(WithHTTPClient(srv.Client()))
	doc, err := r.Resolve(context.Background(), attachments, location)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if doc.Text != "today" {
		t.Errorf("Text = %q, want %q", doc.Text, "today")
	}
	if doc.URL != "notes/today.md" {
		t.Errorf("URL = %q, want the configured attachment URL", doc.URL)
	}
}

func TestResolve_BodyTooLarge(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	r := NewResolver(WithHTTPClient(srv.Client()), WithMaxBodySize(16))
	_, err := r.Resolve(context.Background(), []Attachment{{URL: srv.URL}}, "")
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("error = %v, want ErrBodyTooLarge", err)
	}
}

func TestResolve_ContextCanceled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := NewResolver(WithHTTPClient(srv.Client()))
	_, err := r.Resolve(ctx, []Attachment{{URL: srv.URL}}, "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestResolve_FileURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "local.md")
	if err := os.WriteFile(path, []byte("# Local"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	location := (&url.URL{Scheme: "file", Path: filepath.ToSlash(dir) + "/"}).String()

	r := NewResolver()
	doc, err := r.Resolve(context.Background(), []Attachment{{URL: "local.md"}}, location)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if doc.Text != "# Local" {
		t.Errorf("Text = %q, want %q", doc.Text, "# Local")
	}

	_, err = r.Resolve(context.Background(), []Attachment{{URL: "missing.md"}}, location)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("missing file error = %v, want FetchError 404", err)
	}
}
