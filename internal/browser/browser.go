// Package browser renders output pages in headless Chrome through go-rod.
//
// A Page implements the same surface contract as the in-memory page package,
// so the render orchestrator can write into a live DOM, then read the final
// document back or print it to PDF.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/page"
	"github.com/alnah/go-mdview/internal/process"
)

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrSurfaceWrite   = errors.New("failed to write page content")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// DefaultTimeout bounds page loads when the context carries no deadline.
const DefaultTimeout = 30 * time.Second

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// setInnerHTML runs with the element bound to this.
const setInnerHTML = `function (fragment) { this.innerHTML = fragment }`

// Browser is a lazily launched headless Chrome.
// Rod downloads Chromium on first use if none is found.
type Browser struct {
	timeout  time.Duration
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// New creates a Browser. Nothing is launched until the first Open.
func New(timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Browser{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (b *Browser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher = l
	b.browser = browser
	return nil
}

// Close shuts the browser down and removes its process tree and profile
// directory.
func (b *Browser) Close() error {
	if b.browser == nil {
		return nil
	}

	err := b.browser.Close()
	if pid := b.launcher.PID(); pid > 0 {
		_ = process.KillProcessGroup(pid)
	}
	b.launcher.Cleanup()

	b.browser = nil
	b.launcher = nil
	return err
}

// Open loads document, a full HTML page, into a new tab and waits for it
// to load. The caller closes the returned Page.
func (b *Browser) Open(ctx context.Context, document string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.ensureBrowser(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(document, "html")
	if err != nil {
		return nil, err
	}

	fileURL, err := fileutil.FileURL(tmpPath)
	if err != nil {
		cleanup()
		return nil, err
	}

	p, err := b.browser.Page(proto.TargetCreateTarget{URL: fileURL})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = p.Close()
			cleanup()
			return nil, context.DeadlineExceeded
		}
	}

	if err := p.Timeout(timeout).WaitLoad(); err != nil {
		_ = p.Close()
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return &Page{page: p.Context(ctx), cleanup: cleanup}, nil
}

// Page is a browser tab holding an output page.
type Page struct {
	page    *rod.Page
	cleanup func()
}

// Compile-time interface checks.
var (
	_ page.Document = (*Page)(nil)
	_ page.Surface  = (*Surface)(nil)
)

// Lookup returns the element with the given id attribute.
func (p *Page) Lookup(id string) (page.Surface, bool) {
	if id == "" {
		return nil, false
	}
	has, el, err := p.page.Has(fmt.Sprintf("[id=%q]", id))
	if err != nil || !has {
		return nil, false
	}
	return &Surface{el: el}, true
}

// HTML returns the current document, including script-made changes.
func (p *Page) HTML() (string, error) {
	out, err := p.page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: reading document: %v", ErrPageLoad, err)
	}
	return out, nil
}

// PDF prints the page on US Letter paper with 0.5 inch margins.
func (p *Page) PDF() ([]byte, error) {
	reader, err := p.page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// Close closes the tab and removes the page's temp file.
func (p *Page) Close() error {
	err := p.page.Close()
	p.cleanup()
	return err
}

// Surface is a live DOM element.
type Surface struct {
	el *rod.Element
}

// SetInnerHTML assigns innerHTML on the element. Scripts in fragment are not
// executed, as with any innerHTML assignment.
func (s *Surface) SetInnerHTML(fragment string) error {
	if _, err := s.el.Eval(setInnerHTML, fragment); err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceWrite, err)
	}
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
