package pipeline

// Notes:
// - Tests RewriteRelativeURLs through its public API only
// - Error branches of html.ParseFragment/html.Render are not exercised:
//   the html package does not fail on string input

import (
	"net/url"
	"strings"
	"testing"
)

func TestRewriteRelativeURLs(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/docs/guide/readme.md")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		html         string
		wantContains []string
	}{
		{
			name:         "relative image with dot slash",
			html:         `<img src="./images/logo.png">`,
			wantContains: []string{`src="https://example.com/docs/guide/images/logo.png"`},
		},
		{
			name:         "relative image without dot slash",
			html:         `<img src="images/logo.png">`,
			wantContains: []string{`src="https://example.com/docs/guide/images/logo.png"`},
		},
		{
			name:         "parent directory link",
			html:         `<a href="../index.md">Up</a>`,
			wantContains: []string{`href="https://example.com/docs/index.md"`},
		},
		{
			name:         "host-relative path",
			html:         `<img src="/static/logo.png">`,
			wantContains: []string{`src="https://example.com/static/logo.png"`},
		},
		{
			name:         "http URL unchanged",
			html:         `<img src="https://cdn.test/logo.png">`,
			wantContains: []string{`src="https://cdn.test/logo.png"`},
		},
		{
			name:         "data URI unchanged",
			html:         `<img src="data:image/png;base64,ABC123">`,
			wantContains: []string{`src="data:image/png;base64,ABC123"`},
		},
		{
			name:         "mailto unchanged",
			html:         `<a href="mailto:team@example.com">Mail</a>`,
			wantContains: []string{`href="mailto:team@example.com"`},
		},
		{
			name:         "anchor link unchanged",
			html:         `<a href="#section">Link</a>`,
			wantContains: []string{`href="#section"`},
		},
		{
			name:         "protocol-relative URL unchanged",
			html:         `<img src="//cdn.example.com/logo.png">`,
			wantContains: []string{`src="//cdn.example.com/logo.png"`},
		},
		{
			name:         "script src not rewritten",
			html:         `<script src="./script.js"></script>`,
			wantContains: []string{`src="./script.js"`},
		},
		{
			name:         "empty src attribute unchanged",
			html:         `<img src="">`,
			wantContains: []string{`src=""`},
		},
		{
			name:         "nested elements rewritten",
			html:         `<div><p><img src="nested.png"/></p></div>`,
			wantContains: []string{`src="https://example.com/docs/guide/nested.png"`, "<div><p>"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativeURLs(tt.html, base)
			if err != nil {
				t.Fatalf("RewriteRelativeURLs() unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("result missing %q\ngot: %s", want, got)
				}
			}
		})
	}
}

func TestRewriteRelativeURLs_NilBase(t *testing.T) {
	t.Parallel()

	in := `<img src="./logo.png">`
	got, err := RewriteRelativeURLs(in, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("RewriteRelativeURLs(nil base) = %q, want unchanged %q", got, in)
	}
}

func TestRewriteRelativeURLs_FileBase(t *testing.T) {
	t.Parallel()

	base := &url.URL{Scheme: "file", Path: "/home/user/notes/today.md"}
	got, err := RewriteRelativeURLs(`<img src="img/chart.png">`, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `src="file:///home/user/notes/img/chart.png"`) {
		t.Errorf("got %s", got)
	}
}
