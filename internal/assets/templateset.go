package assets

// TemplateSet holds the html/template sources rendered on every page.
// Both templates receive the page number and count.
type TemplateSet struct {
	Name   string // Identifier (name or directory path)
	Header string
	Footer string
}

const (
	// DefaultTemplateSetName is the name of the built-in template set.
	DefaultTemplateSetName = "default"
	// DefaultStyleName is the name of the built-in CSS style.
	DefaultStyleName = "default"
)

const (
	headerFile = "header.html"
	footerFile = "footer.html"
)
