package pipeline

import (
	"html"
	"strconv"
	"strings"

	"github.com/alnah/go-cvpager/internal/paginate"
)

// Attributes the rendering surface uses to find pages and blocks.
const (
	AttrPage     = "data-page"
	AttrPageBody = "data-page-body"
	AttrBlock    = "data-block"
)

// Document is a paginated document ready to load into the surface.
type Document struct {
	Title  string
	Lang   string   // default "en"
	Styles []string // CSS sources, in cascade order
	Pages  []paginate.PageView
}

// RenderDocument builds the complete HTML document. Each page is a
// fixed-height section; each block is wrapped in an element tagged with its
// ID so it can be measured.
func RenderDocument(d Document) string {
	lang := d.Lang
	if lang == "" {
		lang = "en"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"")
	b.WriteString(html.EscapeString(lang))
	b.WriteString("\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(d.Title))
	b.WriteString("</title>\n")
	for _, css := range d.Styles {
		if css == "" {
			continue
		}
		b.WriteString("<style>")
		b.WriteString(sanitizeCSS(css))
		b.WriteString("</style>\n")
	}
	b.WriteString("</head>\n<body>\n<main class=\"document\">\n")
	for _, p := range d.Pages {
		writePage(&b, p)
	}
	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String()
}

func writePage(b *strings.Builder, p paginate.PageView) {
	index := strconv.Itoa(p.Index)

	b.WriteString(`<section class="page" ` + AttrPage + `="` + index + `">`)
	b.WriteString(`<header class="page__header">`)
	b.WriteString(p.Header)
	b.WriteString(`</header>`)
	b.WriteString(`<div class="page__body" ` + AttrPageBody + `="` + index + `">`)
	for _, block := range p.Blocks {
		b.WriteString(`<div class="block" ` + AttrBlock + `="`)
		b.WriteString(strconv.Itoa(block.ID))
		b.WriteString(`">`)
		b.WriteString(block.HTML)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	b.WriteString(`<footer class="page__footer">`)
	b.WriteString(p.Footer)
	b.WriteString("</footer></section>\n")
}

// sanitizeCSS escapes "</" so a stylesheet cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
