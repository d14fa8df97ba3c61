package cvpager

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-cvpager/internal/profile"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// pageDimensions are portrait width and height in inches.
var pageDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := pageDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Dimensions returns the sheet width and height in inches, with orientation
// applied. p must be valid.
func (p *PageSettings) Dimensions() (width, height float64) {
	d := pageDimensions[strings.ToLower(p.Size)]
	width, height = d[0], d[1]
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// Profile and its parts describe a résumé. See LoadProfile.
type (
	Profile    = profile.Profile
	Name       = profile.Name
	Site       = profile.Site
	Skills     = profile.Skills
	SkillGroup = profile.SkillGroup
	Skill      = profile.Skill
	Experience = profile.Experience
	Education  = profile.Education
	Section    = profile.Section
	DateValue  = profile.DateValue
)

// SectionLabels are the headings of the generated profile sections.
type SectionLabels = profile.Labels

// LoadProfile reads and validates a profile file (.yaml, .yml, .toml, .json).
func LoadProfile(path string) (*Profile, error) {
	return profile.Load(path)
}

// Input contains the parameters of one render. Exactly one of Profile and
// Markdown must be set.
type Input struct {
	Profile   *Profile      // Résumé to render
	Markdown  string        // Markdown document to render
	SourceDir string        // Base directory for relative image and link paths
	Title     string        // Document title (default: profile name)
	Lang      string        // Document language (default: profile lang or "en")
	CSS       string        // Extra CSS, applied after the style
	Page      *PageSettings // nil = defaults
	Header    *Header       // nil = no header
	Footer    *Footer       // nil = no footer
	HTMLOnly  bool          // Skip PDF generation
}

// Header configures the decoration above each page's content.
type Header struct {
	Text string
}

// Footer configures the decoration below each page's content.
type Footer struct {
	ShowPageNumber bool
	Date           string // literal date, or "auto" / "auto:FORMAT"
	Text           string
	Link           *Link
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil || f.Link == nil {
		return nil
	}
	if f.Link.Label == "" && f.Link.URL == "" {
		return fmt.Errorf("%w: needs a label or URL", ErrInvalidFooterLink)
	}
	return nil
}

// Link represents a clickable link.
type Link struct {
	Label string
	URL   string
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout       time.Duration
	styleInput    string
	resolvedStyle string
	assetPath     string
	templateSet   string
	dateFormat    string
	presentLabel  string
	labels        SectionLabels
	maxIdlePasses int
	strict        bool
	logger        *log.Logger
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cvpager: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithStyle sets the CSS style: a style name from the asset loader, a path
// to a CSS file, or CSS content.
func WithStyle(style string) Option {
	return func(r *Renderer) {
		r.cfg.styleInput = style
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets.
func WithAssetPath(dir string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = dir
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(r *Renderer) {
		r.publicAssetLoader = loader
	}
}

// WithTemplateSet selects the header and footer template set by name.
func WithTemplateSet(name string) Option {
	return func(r *Renderer) {
		r.cfg.templateSet = name
	}
}

// WithDates sets the token format of experience and education dates
// ("MMM YYYY") and the label of ongoing periods ("Present").
func WithDates(format, present string) Option {
	return func(r *Renderer) {
		r.cfg.dateFormat = format
		r.cfg.presentLabel = present
	}
}

// WithSectionLabels sets the generated section headings.
func WithSectionLabels(labels SectionLabels) Option {
	return func(r *Renderer) {
		r.cfg.labels = labels
	}
}

// WithMaxIdlePasses bounds consecutive passes that move no block, either
// because pages cannot be measured yet or because only oversize single-block
// pages overflow.
func WithMaxIdlePasses(n int) Option {
	return func(r *Renderer) {
		r.cfg.maxIdlePasses = n
	}
}

// WithStrict makes Render return ErrUnresolved when pagination stops at the
// redistribution limit.
func WithStrict(strict bool) Option {
	return func(r *Renderer) {
		r.cfg.strict = strict
	}
}

// WithLogger sets the logger for pagination diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		r.cfg.logger = l
	}
}
