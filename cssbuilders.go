package cvpager

import (
	"fmt"
	"strings"
)

// buildPageCSS generates the page geometry rules. Every .page is exactly one
// sheet: a fixed-size flex column whose body takes the height left by the
// header and footer, and clips what does not fit so overflow is measurable
// instead of visible. Blocks are flow roots so their children's margins
// count toward their measured height.
func buildPageCSS(p *PageSettings) string {
	width, height := p.Dimensions()

	var buf strings.Builder
	fmt.Fprintf(&buf, `
/* Page geometry */
@page {
  size: %.2fin %.2fin;
  margin: 0;
}
html, body {
  margin: 0;
}
.page {
  box-sizing: border-box;
  width: %.2fin;
  height: %.2fin;
  padding: %.2fin;
  display: flex;
  flex-direction: column;
  overflow: hidden;
  background: white;
  break-after: page;
  page-break-after: always;
}
.page:last-child {
  break-after: auto;
  page-break-after: auto;
}
.page__header,
.page__footer {
  flex: none;
}
.page__body {
  flex: 1 1 auto;
  min-height: 0;
  overflow: hidden;
}
.block {
  display: flow-root;
}
`, width, height, width, height, p.Margin)

	buf.WriteString(`
@media print {
  body {
    padding: 0;
    background: none;
  }
  .page {
    margin: 0;
    box-shadow: none;
    border-radius: 0;
  }
}
`)
	return buf.String()
}
