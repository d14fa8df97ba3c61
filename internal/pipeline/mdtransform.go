package pipeline

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Private Use Area characters so ==text== survives
// goldmark without enabling raw HTML.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// Preprocess normalizes Markdown before conversion: line endings become \n,
// runs of blank lines collapse to one and ==text== becomes highlight
// placeholders. Leading and trailing newlines are trimmed.
func Preprocess(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return strings.Trim(content, "\n")
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
