// Package mdview loads a markdown attachment and renders it into an HTML page.
//
// # Quick Start
//
// Render the attachment selected by a page location into a standalone page:
//
//	r, err := mdview.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	out, err := r.RenderPage(ctx, mdview.Input{
//	    Attachments: []mdview.Attachment{
//	        {Name: "readme.md", URL: "https://example.com/readme.md"},
//	    },
//	    Location: "https://example.com/view?url=https://example.com/readme.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out.HTML)
//
// # Source Selection
//
// The "url" query parameter of Input.Location selects the attachment whose
// URL equals it exactly; without the parameter the first attachment is used.
// A nil attachment list selects DefaultAttachments.
//
// Data URLs (data:[<mime>][;base64],<payload>) are decoded in process and
// must carry a markdown or text media type. Other URLs are fetched with GET,
// relative ones resolved against Input.Location. file:// URLs read local
// files.
//
// # Output Surface
//
// Render writes into the element with id "markdown-output" of any Document:
// first the loading message, then either the rendered HTML or
// "Error loading content: <message>". The rendered HTML is not sanitized.
// A document without that element is left untouched.
//
// RenderPage uses an in-memory page built from a template; RenderPDF uses a
// headless Chrome page and prints it.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := mdview.NewRenderer(
//	    mdview.WithTimeout(10 * time.Second),
//	    mdview.WithEngine(mdview.EngineGomarkdown),
//	    mdview.WithStyle("minimal"),
//	    mdview.WithAssetPath("/path/to/custom/assets"),
//	)
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── custom.html
package mdview
