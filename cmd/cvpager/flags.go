package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// decorationFlags holds header and footer flags.
type decorationFlags struct {
	headerText string
	noHeader   bool
	footerText string
	footerDate string
	pageNumber bool
	noFooter   bool
}

// assetFlags holds style and template flags.
type assetFlags struct {
	style     string // Style name or CSS file path
	templates string // Template set name
	assetPath string // Custom asset directory
}

// outputFlags holds output mode flags.
type outputFlags struct {
	html     bool // Write the paginated HTML next to the PDF
	htmlOnly bool // Write the paginated HTML only
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	strict     bool
	dateFormat string
	page       pageFlags
	decoration decorationFlags
	assets     assetFlags
	outputMode outputFlags
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show pagination diagnostics")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

func addDecorationFlags(fs *flag.FlagSet, f *decorationFlags) {
	fs.StringVar(&f.headerText, "header-text", "", "text shown above each page")
	fs.BoolVar(&f.noHeader, "no-header", false, "disable header")
	fs.StringVar(&f.footerText, "footer-text", "", "text shown below each page")
	fs.StringVar(&f.footerDate, "footer-date", "", "footer date (\"auto\" = today)")
	fs.BoolVar(&f.pageNumber, "page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.noFooter, "no-footer", false, "disable footer")
}

func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.templates, "templates", "", "header/footer template set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "write HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")
}

// newRenderFlagSet registers every render flag on a new FlagSet bound to f.
// Parsing and shell completion share it.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g. 30s, 2m)")
	fs.BoolVar(&f.strict, "strict", false, "fail when pagination does not settle")
	fs.StringVar(&f.dateFormat, "date-format", "", "entry date format (e.g. \"MMM YYYY\", iso)")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addDecorationFlags(fs, &f.decoration)
	addAssetFlags(fs, &f.assets)
	addOutputFlags(fs, &f.outputMode)
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, usage io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printRenderUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
