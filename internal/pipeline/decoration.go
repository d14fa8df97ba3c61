package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/alnah/go-cvpager/internal/paginate"
)

// ErrDecorationRender indicates a header or footer template failed.
var ErrDecorationRender = errors.New("page decoration rendering failed")

// Link is a labeled URL shown in a header or footer.
type Link struct {
	Label string
	URL   string
}

// DecorationData is the data header and footer templates see. Number and
// Count are filled in per page.
type DecorationData struct {
	Number         int
	Count          int
	ShowPageNumber bool
	Text           string
	Date           string
	Link           *Link
}

// TemplateDecoration renders an html/template for every page.
type TemplateDecoration struct {
	tmpl *template.Template
	data DecorationData
	err  error
}

// NewTemplateDecoration parses src and renders it once for page 1 of 1 so
// template errors surface before pagination starts.
func NewTemplateDecoration(name, src string, data DecorationData) (*TemplateDecoration, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}

	d := &TemplateDecoration{tmpl: tmpl, data: data}
	if _, err := d.render(paginate.PageInfo{Number: 1, Count: 1}); err != nil {
		return nil, err
	}
	return d, nil
}

// Decorate renders the template for one page. A failure renders nothing and
// is kept for Err.
func (d *TemplateDecoration) Decorate(info paginate.PageInfo) string {
	out, err := d.render(info)
	if err != nil {
		if d.err == nil {
			d.err = err
		}
		return ""
	}
	return out
}

// Err returns the first rendering error seen by Decorate.
func (d *TemplateDecoration) Err() error { return d.err }

func (d *TemplateDecoration) render(info paginate.PageInfo) (string, error) {
	data := d.data
	data.Number = info.Number
	data.Count = info.Count

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecorationRender, d.tmpl.Name(), err)
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ paginate.Decoration = (*TemplateDecoration)(nil)
