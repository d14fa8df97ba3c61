package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates Markdown conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// MarkdownConverter converts Markdown to an HTML fragment.
type MarkdownConverter interface {
	ToFragment(ctx context.Context, markdown string) (string, error)
}

// GoldmarkConverter converts Markdown with goldmark: GFM, footnotes and
// chroma highlighting with CSS classes.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

type converterConfig struct {
	headingIDs bool
	hardWraps  bool
}

// WithHeadingIDs generates id attributes for headings. Profiles convert many
// small fragments and leave it off so ids do not collide.
func WithHeadingIDs() ConverterOption {
	return func(c *converterConfig) { c.headingIDs = true }
}

// WithHardWraps renders single newlines as <br>.
func WithHardWraps() ConverterOption {
	return func(c *converterConfig) { c.hardWraps = true }
}

// NewGoldmarkConverter creates a GoldmarkConverter.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	var cfg converterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var parserOpts []parser.Option
	if cfg.headingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	// Raw HTML stays disabled: ==highlight== uses placeholders instead.
	rendererOpts := []renderer.Option{html.WithXHTML()}
	if cfg.hardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// ToFragment preprocesses and converts Markdown to an HTML fragment.
// goldmark has no context support, so conversion runs in a goroutine and
// ctx only bounds the wait.
func (c *GoldmarkConverter) ToFragment(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(Preprocess(markdown)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: ConvertMarkPlaceholders(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Compile-time interface check.
var _ MarkdownConverter = (*GoldmarkConverter)(nil)
