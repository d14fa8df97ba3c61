package cvpager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-cvpager/internal/assets"
	"github.com/alnah/go-cvpager/internal/dateutil"
	"github.com/alnah/go-cvpager/internal/fileutil"
	"github.com/alnah/go-cvpager/internal/paginate"
	"github.com/alnah/go-cvpager/internal/pipeline"
	"github.com/alnah/go-cvpager/internal/profile"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownConverter = (*pipeline.GoldmarkConverter)(nil)
	_ paginate.Decoration        = (*pipeline.TemplateDecoration)(nil)
)

// Renderer paginates profiles and Markdown documents and prints them to
// PDF. Create with NewRenderer, render with Render and Close when done.
// A Renderer owns one browser and renders one document at a time; use a
// RendererPool for parallel work.
type Renderer struct {
	cfg               rendererConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	templateSet       *assets.TemplateSet
	period            dateutil.Period
	profileConverter  pipeline.MarkdownConverter
	documentConverter pipeline.MarkdownConverter
	surfaces          surfaceProvider
	now               func() time.Time

	mu     sync.Mutex
	closed bool
}

// Result is the outcome of a render.
type Result struct {
	HTML []byte // Paginated document
	PDF  []byte // nil when Input.HTMLOnly is set

	Pages           int    // Page count
	Stable          bool   // A pass saw every page fit
	Unresolved      bool   // The redistribution limit froze the partition
	Passes          int    // Render passes
	Redistributions int    // Overflow redistributions applied
	Generation      string // Content generation ID, as logged
}

// NewRenderer creates a Renderer. The browser starts on the first Render.
// Returns an error if the style, templates or date format cannot be loaded.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:       defaultTimeout,
			templateSet:   DefaultTemplateSet,
			maxIdlePasses: paginate.DefaultMaxIdlePasses,
		},
		assetLoader:       assets.NewEmbeddedLoader(),
		profileConverter:  pipeline.NewGoldmarkConverter(),
		documentConverter: pipeline.NewGoldmarkConverter(pipeline.WithHeadingIDs()),
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.cfg.logger == nil {
		r.cfg.logger = log.New(io.Discard)
	}

	if r.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		r.assetLoader = resolver
	}
	if r.publicAssetLoader != nil {
		r.assetLoader = &publicToInternalAdapter{pub: r.publicAssetLoader}
	}

	if err := r.resolveStyle(); err != nil {
		return nil, err
	}

	ts, err := r.assetLoader.LoadTemplateSet(r.cfg.templateSet)
	if err != nil {
		return nil, fmt.Errorf("loading template set %q: %w", r.cfg.templateSet, convertAssetError(err))
	}
	r.templateSet = ts

	r.period, err = dateutil.NewPeriod(r.cfg.dateFormat, r.cfg.presentLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}

	if r.surfaces == nil {
		r.surfaces = newRodBrowser()
	}
	return r, nil
}

// Render paginates the input and, unless HTMLOnly is set, prints it.
// Pagination that does not stabilize still produces a document; with
// WithStrict the Result is returned together with ErrUnresolved.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, fmt.Errorf("internal error: %v", rec)
		}
	}()

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrRendererClosed
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}
	page := input.Page
	if page == nil {
		page = DefaultPageSettings()
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	nodes, err := r.buildContent(ctx, input)
	if err != nil {
		return nil, err
	}

	header, footer, err := r.decorations(input)
	if err != nil {
		return nil, err
	}

	sess, err := r.surfaces.Open(ctx, r.shell(input, page), page)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()

	var pagerOpts []paginate.Option
	pagerOpts = append(pagerOpts,
		paginate.WithLogger(r.cfg.logger),
		paginate.WithMaxIdlePasses(r.cfg.maxIdlePasses),
	)
	if header != nil {
		pagerOpts = append(pagerOpts, paginate.WithHeader(header))
	}
	if footer != nil {
		pagerOpts = append(pagerOpts, paginate.WithFooter(footer))
	}

	pager := paginate.New(sess, pagerOpts...)
	pager.SetContent(nodes)

	run, err := pager.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("paginating: %w", err)
	}
	for _, d := range []*pipeline.TemplateDecoration{header, footer} {
		if d != nil && d.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecoration, d.Err())
		}
	}

	res := &Result{
		HTML:            []byte(sess.HTML()),
		Pages:           len(run.Pages),
		Stable:          run.Stable,
		Unresolved:      run.Unresolved,
		Passes:          run.Passes,
		Redistributions: run.Redistributions,
		Generation:      run.Generation,
	}
	r.cfg.logger.Debug("paginated",
		"generation", res.Generation,
		"pages", res.Pages,
		"passes", res.Passes,
		"redistributions", res.Redistributions,
		"stable", res.Stable)

	if !input.HTMLOnly {
		res.PDF, err = sess.PDF(ctx)
		if err != nil {
			return nil, err
		}
	}

	if res.Unresolved && r.cfg.strict {
		return res, fmt.Errorf("%w after %d redistributions", ErrUnresolved, res.Redistributions)
	}
	return res, nil
}

// Close releases the browser. Render fails with ErrRendererClosed afterwards.
func (r *Renderer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if r.surfaces != nil {
		return r.surfaces.Close()
	}
	return nil
}

// buildContent turns the input into the content tree.
func (r *Renderer) buildContent(ctx context.Context, input Input) ([]paginate.Node, error) {
	if input.Profile != nil {
		b := profile.NewBuilder(r.profileConverter,
			profile.WithPeriod(r.period),
			profile.WithLabels(r.cfg.labels),
			profile.WithSourceDir(input.SourceDir),
		)
		nodes, err := b.Build(ctx, input.Profile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		return nodes, nil
	}

	fragment, err := r.documentConverter.ToFragment(ctx, input.Markdown)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	if fragment, err = pipeline.RewriteRelativePaths(fragment, input.SourceDir); err != nil {
		return nil, fmt.Errorf("rewriting relative paths: %w", err)
	}
	nodes, err := pipeline.SplitBlocks(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return nodes, nil
}

// decorations builds the header and footer for the input. A nil decoration
// means none.
func (r *Renderer) decorations(input Input) (header, footer *pipeline.TemplateDecoration, err error) {
	if input.Header != nil {
		header, err = pipeline.NewTemplateDecoration("header", r.templateSet.Header,
			pipeline.DecorationData{Text: input.Header.Text})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrDecoration, err)
		}
	}

	if input.Footer != nil {
		date, err := dateutil.ResolveDate(input.Footer.Date, r.now())
		if err != nil {
			return nil, nil, fmt.Errorf("%w: footer date: %v", ErrInvalidDateFormat, err)
		}
		data := pipeline.DecorationData{
			ShowPageNumber: input.Footer.ShowPageNumber,
			Text:           input.Footer.Text,
			Date:           date,
		}
		if l := input.Footer.Link; l != nil {
			data.Link = &pipeline.Link{Label: l.Label, URL: l.URL}
		}
		footer, err = pipeline.NewTemplateDecoration("footer", r.templateSet.Footer, data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrDecoration, err)
		}
	}
	return header, footer, nil
}

// shell is the document around the pages: title, language and styles.
// Geometry comes last so styles cannot change the page box.
func (r *Renderer) shell(input Input, page *PageSettings) pipeline.Document {
	title, lang := input.Title, input.Lang
	if input.Profile != nil {
		if title == "" {
			title = input.Profile.Name.Full()
		}
		if lang == "" {
			lang = input.Profile.Lang
		}
	}
	return pipeline.Document{
		Title:  title,
		Lang:   lang,
		Styles: []string{r.cfg.resolvedStyle, input.CSS, buildPageCSS(page)},
	}
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. An empty input selects the default style.
func (r *Renderer) resolveStyle() error {
	input := r.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		r.cfg.resolvedStyle = string(content)
		return nil
	}

	if strings.Contains(input, "{") {
		r.cfg.resolvedStyle = input
		return nil
	}

	css, err := r.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	r.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is the trust boundary for library users who build Input by hand.
// CLI input is validated earlier by config.Validate.
func validateInput(input Input) error {
	switch {
	case input.Profile == nil && strings.TrimSpace(input.Markdown) == "":
		return ErrEmptyInput
	case input.Profile != nil && input.Markdown != "":
		return ErrAmbiguousInput
	}
	if input.Profile != nil {
		if err := input.Profile.Validate(); err != nil {
			return err
		}
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return input.Footer.Validate()
}
