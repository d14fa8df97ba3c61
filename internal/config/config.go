// Package config loads and validates cvpager configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cvpager/internal/decode"
	"github.com/alnah/go-cvpager/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxURLLength         = 2048 // Browser limit
	MaxNameLength        = 100  // Style and template set names
	MaxDateLength        = 30   // "2025-12-31" or "auto:MMMM D, YYYY"
	MaxTextLength        = 500  // Header/footer free-form text
	MaxLabelLength       = 100  // Link label
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxFormatLength      = 50   // Date token format
	MaxPresentLength     = 30   // "Present", "Heute"
)

// Pagination limits.
const (
	MaxIdlePassesLimit = 50
	MaxTimeout         = 10 * time.Minute
)

// DefaultTimeout bounds one document render.
const DefaultTimeout = 30 * time.Second

// Config holds all configuration for profile rendering.
type Config struct {
	Input      InputConfig      `yaml:"input" toml:"input"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
	Style      StyleConfig      `yaml:"style" toml:"style"`
	Page       PageConfig       `yaml:"page" toml:"page"`
	Header     HeaderConfig     `yaml:"header" toml:"header"`
	Footer     FooterConfig     `yaml:"footer" toml:"footer"`
	Dates      DatesConfig      `yaml:"dates" toml:"dates"`
	Pagination PaginationConfig `yaml:"pagination" toml:"pagination"`
	Assets     AssetsConfig     `yaml:"assets" toml:"assets"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // Empty = must specify
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // Empty = next to the source
	HTML       bool   `yaml:"html" toml:"html"`             // Also write the paginated HTML
}

// StyleConfig selects the stylesheet.
type StyleConfig struct {
	Name string `yaml:"name" toml:"name"` // Name in assets styles/ or a CSS file path
}

// PageConfig defines page geometry.
type PageConfig struct {
	Size        string  `yaml:"size" toml:"size"`               // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation" toml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin" toml:"margin"`           // inches (default: 0.5)
}

// HeaderConfig defines the per-page header.
type HeaderConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Text    string `yaml:"text" toml:"text"`
}

// FooterConfig defines the per-page footer.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled" toml:"enabled"`
	ShowPageNumber bool   `yaml:"showPageNumber" toml:"showPageNumber"`
	Date           string `yaml:"date" toml:"date"` // Literal, "auto" or "auto:FORMAT"
	Text           string `yaml:"text" toml:"text"`
	Link           Link   `yaml:"link" toml:"link"` // e.g. a version or source link
}

// Link is a labeled URL.
type Link struct {
	Label string `yaml:"label" toml:"label"`
	URL   string `yaml:"url" toml:"url"`
}

// DatesConfig defines how entry periods render.
type DatesConfig struct {
	Format  string `yaml:"format" toml:"format"`   // Token format (default: "MMM YYYY")
	Present string `yaml:"present" toml:"present"` // Label for open periods (default: "Present")
}

// PaginationConfig tunes the stabilization loop.
type PaginationConfig struct {
	MaxIdlePasses int    `yaml:"maxIdlePasses" toml:"maxIdlePasses"` // 0 = engine default
	Timeout       string `yaml:"timeout" toml:"timeout"`             // Go duration, e.g. "45s"
	Strict        bool   `yaml:"strict" toml:"strict"`               // Unresolved pagination is an error
}

// TimeoutDuration returns the parsed timeout or DefaultTimeout when unset.
// Validate guarantees the value parses.
func (p PaginationConfig) TimeoutDuration() time.Duration {
	if p.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath  string `yaml:"basePath" toml:"basePath"`   // Empty = embedded assets
	Templates string `yaml:"templates" toml:"templates"` // Template set name (default: "default")
}

// LogConfig defines diagnostics output.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" toml:"format"` // "text", "json", "logfmt"
}

// Validate checks field lengths and ranges. LoadConfig calls it; library
// users who build a Config by hand can call it too.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"style.name", c.Style.Name, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"header.text", c.Header.Text, MaxTextLength},
		{"footer.date", c.Footer.Date, MaxDateLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"footer.link.label", c.Footer.Link.Label, MaxLabelLength},
		{"footer.link.url", c.Footer.Link.URL, MaxURLLength},
		{"dates.format", c.Dates.Format, MaxFormatLength},
		{"dates.present", c.Dates.Present, MaxPresentLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.templates", c.Assets.Templates, MaxNameLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Footer.Link.URL != "" && !fileutil.IsURL(c.Footer.Link.URL) {
		return fmt.Errorf("%w: footer.link.url must be an http(s) URL, got %q", ErrInvalidValue, c.Footer.Link.URL)
	}

	if c.Pagination.MaxIdlePasses < 0 || c.Pagination.MaxIdlePasses > MaxIdlePassesLimit {
		return fmt.Errorf("%w: pagination.maxIdlePasses must be between 0 and %d, got %d",
			ErrInvalidValue, MaxIdlePassesLimit, c.Pagination.MaxIdlePasses)
	}
	if c.Pagination.Timeout != "" {
		d, err := time.ParseDuration(c.Pagination.Timeout)
		if err != nil {
			return fmt.Errorf("%w: pagination.timeout: %v", ErrInvalidValue, err)
		}
		if d <= 0 || d > MaxTimeout {
			return fmt.Errorf("%w: pagination.timeout must be in (0, %s], got %s", ErrInvalidValue, MaxTimeout, d)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log.format %q (must be text, json, or logfmt)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Style:  StyleConfig{Name: "default"},
		Page:   PageConfig{Size: "letter", Orientation: "portrait", Margin: 0.5},
		Footer: FooterConfig{Enabled: true, ShowPageNumber: true},
		Dates:  DatesConfig{Format: "MMM YYYY", Present: "Present"},
		Assets: AssetsConfig{Templates: "default"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; otherwise it is a name
// searched in the current directory and then in the user config directory.
// Values missing from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	format, err := decode.FormatFromPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode.UnmarshalStrict(format, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configExtensions lists the accepted config file extensions in lookup order.
var configExtensions = []string{".yaml", ".yml", ".toml"}

// userConfigDir is replaceable in tests.
var userConfigDir = os.UserConfigDir

// SearchPaths returns the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	paths := make([]string, 0, len(configExtensions)*2)
	for _, ext := range configExtensions {
		paths = append(paths, name+ext)
	}
	if dir, err := userConfigDir(); err == nil {
		for _, ext := range configExtensions {
			paths = append(paths, filepath.Join(dir, "cvpager", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
