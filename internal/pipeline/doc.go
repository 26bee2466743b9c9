// Package pipeline implements the Markdown-to-HTML conversion stages.
//
// This package handles:
//   - Markdown preprocessing (byte order mark, line endings)
//   - Markdown to HTML conversion through a named engine: goldmark with
//     chroma syntax highlighting (default) or gomarkdown
//   - Resolution of relative image and link URLs against the location the
//     document was loaded from
//
// Converters return HTML fragments. Placing the fragment into an output page
// is the job of the page and browser packages.
package pipeline
