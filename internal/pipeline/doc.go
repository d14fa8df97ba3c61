// Package pipeline turns profile text and Markdown into the content blocks
// the paginator lays out, and assembles the paginated HTML document.
//
// Stages:
//   - Markdown preprocessing (line endings, ==highlight== syntax)
//   - Markdown to HTML fragments via goldmark
//   - Relative path rewriting to file:// URLs
//   - Splitting fragments into block nodes
//   - Header and footer templates per page
//   - Document assembly with page markup and stylesheets
//
// Measuring and printing happen in the root cvpager package, which drives
// headless Chrome.
package pipeline
