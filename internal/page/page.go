// Package page models the HTML page that receives rendered markdown.
//
// A Document exposes output surfaces by element id. Page is the in-memory
// implementation backed by a golang.org/x/net/html tree; the browser package
// provides one backed by a live Chrome page.
package page

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse indicates the page template is not parseable HTML.
var ErrParse = errors.New("failed to parse page template")

// Surface is an element whose content can be replaced.
type Surface interface {
	SetInnerHTML(fragment string) error
}

// Document looks up output surfaces by element id.
type Document interface {
	Lookup(id string) (Surface, bool)
}

// Page is an HTML document held in memory.
type Page struct {
	root *html.Node
}

// Compile-time interface checks.
var (
	_ Document = (*Page)(nil)
	_ Surface  = (*Element)(nil)
)

// Parse builds a Page from a full HTML document.
func Parse(document string) (*Page, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Page{root: root}, nil
}

// Lookup returns the element with the given id attribute.
func (p *Page) Lookup(id string) (Surface, bool) {
	el := p.Element(id)
	if el == nil {
		return nil, false
	}
	return el, true
}

// Element returns the element with the given id, or nil.
func (p *Page) Element(id string) *Element {
	if id == "" {
		return nil
	}
	n := findNode(p.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
	if n == nil {
		return nil
	}
	return &Element{node: n}
}

// InjectCSS appends a <style> block to the document head.
// CSS content is sanitized so it cannot close the style element.
func (p *Page) InjectCSS(css string) {
	if css == "" {
		return
	}

	style := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: sanitizeCSS(css)})
	p.head().AppendChild(style)
}

// SetTitle replaces the text of the document <title>, creating it if needed.
func (p *Page) SetTitle(title string) {
	head := p.head()
	t := findNode(head, func(n *html.Node) bool { return n.DataAtom == atom.Title })
	if t == nil {
		t = &html.Node{Type: html.ElementNode, DataAtom: atom.Title, Data: "title"}
		head.AppendChild(t)
	}
	removeChildren(t)
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

// Render writes the document as HTML.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.root)
}

// String returns the document as HTML.
func (p *Page) String() string {
	var buf strings.Builder
	// Rendering into a strings.Builder cannot fail.
	_ = p.Render(&buf)
	return buf.String()
}

// head returns the <head> element. html.Parse always synthesizes one.
func (p *Page) head() *html.Node {
	if h := findNode(p.root, func(n *html.Node) bool { return n.DataAtom == atom.Head }); h != nil {
		return h
	}
	h := &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
	p.root.AppendChild(h)
	return h
}

// Element is a node of a Page.
type Element struct {
	node *html.Node
}

// SetInnerHTML replaces the element's children with the parsed fragment.
// The fragment is inserted as is: no sanitization.
func (e *Element) SetInnerHTML(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.node)
	if err != nil {
		return fmt.Errorf("parsing HTML fragment: %w", err)
	}
	removeChildren(e.node)
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	var buf strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// findNode returns the first node in document order matching match.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
